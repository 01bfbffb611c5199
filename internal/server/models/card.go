package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carnet/internal/common"
)

type Template string

const (
	Template2024 Template = "2024"
	Template2025 Template = "2025"
)

type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.TrimSpace(s)); t {
	case Template2024, Template2025:
		return t, nil
	}
	return "", fmt.Errorf("unknown template %q: %w", s, common.ErrorInvalidInput)
}

func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case OrientationHorizontal, OrientationVertical:
		return o, nil
	}
	return "", fmt.Errorf("unknown orientation %q: %w", s, common.ErrorInvalidInput)
}

// CardFields are the record fields a card shows. The composer may hold a
// draft copy of them that differs from the stored record.
type CardFields struct {
	FirstName  string
	LastName   string
	Role       string
	Department string
	NationalID string
	PhotoURL   string
}

// CardGeometry is the physical card size.
type CardGeometry struct {
	WidthMM     int
	HeightMM    int
	AspectRatio float64
}

// TextBlock is one line of text on the card, in drawing order. Style is a
// rendering hint ("title", "subtitle", "badge", "caption", "mono"); Value is
// always the field value as stored.
type TextBlock struct {
	Name     string
	Label    string
	Value    string
	Style    string
	Emphasis bool
}

// CardLayout is a fully resolved card: everything a rendering surface needs.
type CardLayout struct {
	Template    Template
	Orientation Orientation
	Geometry    CardGeometry
	FontFamily  string
	Version     string
	Caption     string
	Title       string
	Subtitle    string
	LogoURL     string
	PhotoURL    string
	Blocks      []TextBlock
	QRPayload   string
	Footer      string
}

// Block returns the text block with the given name.
func (l CardLayout) Block(name string) (TextBlock, bool) {
	for _, b := range l.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return TextBlock{}, false
}
