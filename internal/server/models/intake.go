package models

// ValidationState is the identity-validation sub-state of the intake flow.
type ValidationState string

const (
	ValidationIdle      ValidationState = "idle"
	ValidationSearching ValidationState = "searching"
	ValidationValid     ValidationState = "valid"
	ValidationInvalid   ValidationState = "invalid"
)

// QualityState is the photo quality-check sub-state of the intake flow.
type QualityState string

const (
	QualityNoFile    QualityState = "no_file"
	QualityAnalyzing QualityState = "analyzing"
	QualitySuccess   QualityState = "success"
	QualityError     QualityState = "error"
)

// IdentityMatch is the resolved summary shown once an identity is valid.
type IdentityMatch struct {
	RecordID   string
	FirstName  string
	LastName   string
	Role       string
	Department string
	Active     bool
}

func (m IdentityMatch) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Photo is an uploaded portrait.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type GateName string

const (
	GateFormat       GateName = "format"
	GateCentering    GateName = "centering"
	GateBackground   GateName = "background"
	GateOptimization GateName = "optimization"
)

// Gate is one named quality check of the photo analysis. Reached flips when
// progress crosses Threshold; Passed and Reason hold the check's outcome
// once analysis has finished.
type Gate struct {
	Name      GateName
	Label     string
	Threshold int
	Reached   bool
	Passed    bool
	Reason    string
}

// DefaultGates returns the four quality gates with their progress thresholds.
func DefaultGates() []Gate {
	return []Gate{
		{Name: GateFormat, Label: "Verificando formato de imagen...", Threshold: 30},
		{Name: GateCentering, Label: "Detectando rostro y centrado...", Threshold: 60},
		{Name: GateBackground, Label: "Validando fondo blanco...", Threshold: 85},
		{Name: GateOptimization, Label: "Optimización completada.", Threshold: 100},
	}
}

// IntakeDraft is a read-only snapshot of a session's upload draft.
type IntakeDraft struct {
	NationalID    string
	Validation    ValidationState
	InvalidReason string
	Match         *IdentityMatch

	PhotoName     string
	Quality       QualityState
	QualityReason string
	Progress      int
	Gates         []Gate

	CanUpload bool
	CanSubmit bool
}

// View is the surface a workspace session is looking at.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewUpload    View = "upload"
	ViewEditor    View = "editor"
)

func (v View) Valid() bool {
	return v == ViewDashboard || v == ViewUpload || v == ViewEditor
}
