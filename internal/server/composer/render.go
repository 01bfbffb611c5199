// Package composer lays ID cards out from record fields and keeps the
// per-session card preview, including the unsaved smart-extraction draft.
package composer

import (
	"fmt"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/server/fixtures"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// Text block names.
const (
	BlockFirstName  = "first_name"
	BlockLastName   = "last_name"
	BlockRole       = "role"
	BlockDepartment = "department"
	BlockNationalID = "national_id"
)

// Block styles.
const (
	StyleTitle    = "title"
	StyleSubtitle = "subtitle"
	StyleBadge    = "badge"
	StyleCaption  = "caption"
	StyleMono     = "mono"
)

const (
	titleGobierno  = "Gobierno Bolivariano de Venezuela"
	titleRepublica = "República Bolivariana de Venezuela"
	subtitle       = "Tesorería de Seguridad Social"
	footer2024     = "Válido hasta Diciembre 2024"

	labelCI     = "C.I."
	labelCedula = "Cédula de Identidad"
)

var geometries = map[models.Orientation]models.CardGeometry{
	models.OrientationHorizontal: {WidthMM: 86, HeightMM: 54, AspectRatio: 86.0 / 54.0},
	models.OrientationVertical:   {WidthMM: 54, HeightMM: 86, AspectRatio: 54.0 / 86.0},
}

var captions = map[models.Orientation]string{
	models.OrientationHorizontal: "Formato Horizontal (86x54mm)",
	models.OrientationVertical:   "Formato Vertical (54x86mm)",
}

type style struct {
	font    string
	version string
}

var templates = map[models.Template]style{
	models.Template2024: {font: "serif", version: "v1.0"},
	models.Template2025: {font: "sans", version: "v2.5"},
}

// Render lays out one card. It depends on nothing but its arguments.
func Render(f models.CardFields, t models.Template, o models.Orientation) (models.CardLayout, error) {
	st, ok := templates[t]
	if !ok {
		return models.CardLayout{}, fmt.Errorf("template %q: %w", t, common.ErrorInvalidInput)
	}
	geo, ok := geometries[o]
	if !ok {
		return models.CardLayout{}, fmt.Errorf("orientation %q: %w", o, common.ErrorInvalidInput)
	}

	classic := t == models.Template2024 && o == models.OrientationHorizontal

	l := models.CardLayout{
		Template:    t,
		Orientation: o,
		Geometry:    geo,
		FontFamily:  st.font,
		Version:     st.version,
		Caption:     captions[o],
		Title:       titleRepublica,
		Subtitle:    subtitle,
		LogoURL:     fixtures.LogoURL,
		PhotoURL:    f.PhotoURL,
		QRPayload:   qrPayload(f, st.version),
	}

	switch {
	case classic:
		l.Title = titleGobierno
		l.Footer = footer2024
		l.Blocks = []models.TextBlock{
			{Name: BlockFirstName, Value: f.FirstName, Style: StyleTitle, Emphasis: true},
			{Name: BlockLastName, Value: f.LastName, Style: StyleTitle, Emphasis: true},
			{Name: BlockRole, Value: f.Role, Style: StyleSubtitle},
			{Name: BlockDepartment, Value: f.Department, Style: StyleCaption},
			{Name: BlockNationalID, Label: labelCI, Value: f.NationalID, Style: StyleMono, Emphasis: true},
		}
	case o == models.OrientationHorizontal:
		l.Blocks = []models.TextBlock{
			{Name: BlockFirstName, Value: f.FirstName, Style: StyleTitle, Emphasis: true},
			{Name: BlockLastName, Value: f.LastName, Style: StyleSubtitle},
			{Name: BlockRole, Value: f.Role, Style: StyleBadge},
			{Name: BlockNationalID, Label: labelCedula, Value: f.NationalID, Style: StyleMono, Emphasis: true},
		}
	default:
		l.Blocks = []models.TextBlock{
			{Name: BlockFirstName, Value: f.FirstName, Style: StyleTitle, Emphasis: true},
			{Name: BlockLastName, Value: f.LastName, Style: StyleSubtitle},
			{Name: BlockRole, Value: f.Role, Style: StyleBadge},
			{Name: BlockDepartment, Value: f.Department, Style: StyleCaption},
			{Name: BlockNationalID, Label: labelCedula, Value: f.NationalID, Style: StyleMono, Emphasis: true},
		}
	}
	return l, nil
}

func qrPayload(f models.CardFields, version string) string {
	return fmt.Sprintf("TSS|%s|%s %s|%s", f.NationalID, f.FirstName, f.LastName, version)
}
