// Package models defines the server-side data model of carnet: personnel
// records and their card-issuance lifecycle, card layouts and intake drafts.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
)

// Status is the lifecycle stage of a record's physical ID card.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusPrinted  Status = "printed"
	StatusRejected Status = "rejected"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusVerified, StatusPrinted, StatusRejected}

var statusLabels = map[Status]string{
	StatusPending:  "Pendiente",
	StatusVerified: "Verificado",
	StatusPrinted:  "Impreso",
	StatusRejected: "Rechazado",
}

// transitions is the strict lifecycle: Pending → Verified → Printed, and
// Pending → Rejected. Printed and Rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusPrinted},
}

// ParseStatus accepts the wire spelling and the display label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if v == string(st) || v == strings.ToLower(statusLabels[st]) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q: %w", s, common.ErrorInvalidInput)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the name shown on badges.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) Terminal() bool {
	return s == StatusPrinted || s == StatusRejected
}

// CanTransition reports whether the strict lifecycle allows from → to.
// Writing the current status again is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.Valid()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Record is one personnel entry subject to the ID-issuance workflow.
type Record struct {
	ID         string
	NationalID string
	FirstName  string
	LastName   string
	Role       string
	Department string
	Status     Status
	PhotoURL   string
	CreatedAt  time.Time

	// Position is the insertion sequence assigned by the repository; it
	// defines the default display order.
	Position int64
}

func (r *Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Clone returns a copy that can be handed out without sharing the original.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// CardFields projects the fields printed on a card.
func (r *Record) CardFields() CardFields {
	return CardFields{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Role:       r.Role,
		Department: r.Department,
		NationalID: r.NationalID,
		PhotoURL:   r.PhotoURL,
	}
}

// RosterStats are the dashboard counters.
type RosterStats struct {
	Total    int
	Pending  int
	Verified int
	Printed  int
	Rejected int
}

func (s *RosterStats) Add(st Status) {
	s.Total++
	switch st {
	case StatusPending:
		s.Pending++
	case StatusVerified:
		s.Verified++
	case StatusPrinted:
		s.Printed++
	case StatusRejected:
		s.Rejected++
	}
}

// AutoMatchResult describes the last completed bulk auto-match.
type AutoMatchResult struct {
	Verified   int
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
}
