package proto

import "time"

type Record struct {
	ID          string    `json:"id"`
	NationalID  string    `json:"national_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        string    `json:"role"`
	Department  string    `json:"department"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Record) GetID() string {
	if r == nil {
		return ""
	}
	return r.ID
}

func (r *Record) FullName() string {
	if r == nil {
		return ""
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Printed  int `json:"printed"`
	Rejected int `json:"rejected"`
}

type TextBlock struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Value    string `json:"value"`
	Style    string `json:"style,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

type CardLayout struct {
	Template    string      `json:"template"`
	Orientation string      `json:"orientation"`
	WidthMM     int         `json:"width_mm"`
	HeightMM    int         `json:"height_mm"`
	AspectRatio float64     `json:"aspect_ratio"`
	FontFamily  string      `json:"font_family"`
	Version     string      `json:"version"`
	Caption     string      `json:"caption"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	LogoURL     string      `json:"logo_url"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Blocks      []TextBlock `json:"blocks"`
	QRPayload   string      `json:"qr_payload"`
	Footer      string      `json:"footer"`
}

type IdentityMatch struct {
	RecordID   string `json:"record_id,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Active     bool   `json:"active"`
}

type Gate struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Threshold int    `json:"threshold"`
	Reached   bool   `json:"reached"`
	Passed    bool   `json:"passed"`
	Reason    string `json:"reason,omitempty"`
}

type IntakeDraft struct {
	NationalID    string         `json:"national_id"`
	Validation    string         `json:"validation"`
	InvalidReason string         `json:"invalid_reason,omitempty"`
	Match         *IdentityMatch `json:"match,omitempty"`
	PhotoName     string         `json:"photo_name,omitempty"`
	Quality       string         `json:"quality"`
	QualityReason string         `json:"quality_reason,omitempty"`
	Progress      int            `json:"progress"`
	Gates         []Gate         `json:"gates"`
	CanUpload     bool           `json:"can_upload"`
	CanSubmit     bool           `json:"can_submit"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

func (r *PingResponse) GetStatus() string {
	if r == nil {
		return ""
	}
	return r.Status
}

type ListRecordsRequest struct {
	Query string `json:"query,omitempty"`
}

type ListRecordsResponse struct {
	Records []*Record `json:"records"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Stats Stats `json:"stats"`
}

type SetStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SetStatusResponse struct {
	Record *Record `json:"record"`
}

type RunAutoMatchRequest struct{}

type RunAutoMatchResponse struct {
	// Started is false when a run was already in flight.
	Started bool `json:"started"`
}

type GetAutoMatchStatusRequest struct{}

type GetAutoMatchStatusResponse struct {
	Running      bool      `json:"running"`
	LastVerified int       `json:"last_verified"`
	LastError    string    `json:"last_error,omitempty"`
	FinishedAt   time.Time `json:"finished_at"`
}

type OpenSessionRequest struct{}

type OpenSessionResponse struct {
	SessionID string  `json:"session_id"`
	Selected  *Record `json:"selected,omitempty"`
}

type CloseSessionRequest struct{}

type CloseSessionResponse struct{}

type SelectRecordRequest struct {
	ID string `json:"id"`
}

type SelectRecordResponse struct {
	Record *Record `json:"record"`
	View   string  `json:"view"`
}

type SetViewRequest struct {
	View string `json:"view"`
}

type SetViewResponse struct {
	View string `json:"view"`
}

// GetCardRequest optionally changes the template or orientation before the
// card is rendered; empty fields keep the session's current choice.
type GetCardRequest struct {
	Template    string `json:"template,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

type GetCardResponse struct {
	Record          *Record    `json:"record"`
	Card            CardLayout `json:"card"`
	Overridden      bool       `json:"overridden"`
	Extracting      bool       `json:"extracting"`
	ExtractionError string     `json:"extraction_error,omitempty"`
}

type ApplySmartExtractionRequest struct{}

type ApplySmartExtractionResponse struct {
	Started bool `json:"started"`
}

type SetNationalIDRequest struct {
	NationalID string `json:"national_id"`
}

type ValidateIdentityRequest struct{}

type ValidateIdentityResponse struct {
	Started bool        `json:"started"`
	Draft   IntakeDraft `json:"draft"`
}

type SubmitPhotoRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type GetIntakeRequest struct{}

// IntakeResponse carries the session's draft after an intake call.
type IntakeResponse struct {
	Draft IntakeDraft `json:"draft"`
}

type SubmitIntakeRequest struct{}

type SubmitIntakeResponse struct {
	Record *Record `json:"record"`
	// Created is false when an existing record was updated.
	Created bool `json:"created"`
}

type ResolvePhotoRequest struct {
	Ref string `json:"ref"`
}

type ResolvePhotoResponse struct {
	URL string `json:"url"`
}
