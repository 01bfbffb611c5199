package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
)

const (
	cardWidthHorizontal = 48
	cardWidthVertical   = 28
	progressBarWidth    = 30

	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0
)

var (
	colorPending  = lipgloss.Color("#F59E0B")
	colorVerified = lipgloss.Color("#10B981")
	colorPrinted  = lipgloss.Color("#3B82F6")
	colorRejected = lipgloss.Color("#EF4444")
	colorMuted    = lipgloss.Color("#6B7280")
	colorAccent   = lipgloss.Color("#7C3AED")

	statusColors = map[string]lipgloss.Color{
		"pending":  colorPending,
		"verified": colorVerified,
		"printed":  colorPrinted,
		"rejected": colorRejected,
	}

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	monoStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	okStyle      = lipgloss.NewStyle().Foreground(colorVerified)
	failStyle    = lipgloss.NewStyle().Foreground(colorRejected)
	cardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

type renderer struct {
	plain bool
	width int
}

func newRenderer(out io.Writer, plain bool) *renderer {
	width, tty := terminalWidth(out)
	return &renderer{plain: plain || !tty, width: width}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *renderer) badge(status, label string) string {
	if label == "" {
		label = status
	}
	if r.plain {
		return "[" + label + "]"
	}
	c, ok := statusColors[status]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("● " + label)
}

func (r *renderer) table(recs []*pb.Record) string {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, []string{"ID", "NAME", "CEDULA", "ROLE", "DEPARTMENT", "STATUS"})
	for _, rec := range recs {
		rows = append(rows, []string{rec.ID, rec.FullName(), rec.NationalID, rec.Role, rec.Department, rec.StatusLabel})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			padded := cell + strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
			switch {
			case i == 0:
				padded = r.style(headerStyle, padded)
			case j == len(row)-1:
				padded = r.badge(recs[i-1].Status, cell)
			}
			cells[j] = padded
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (r *renderer) stats(s pb.Stats) string {
	parts := []string{
		r.style(titleStyle, fmt.Sprintf("Total %d", s.Total)),
		r.badge("pending", fmt.Sprintf("Pending %d", s.Pending)),
		r.badge("verified", fmt.Sprintf("Verified %d", s.Verified)),
		r.badge("printed", fmt.Sprintf("Printed %d", s.Printed)),
		r.badge("rejected", fmt.Sprintf("Rejected %d", s.Rejected)),
	}
	return strings.Join(parts, "   ")
}

// cardSize returns the inner box size in cells for a card of the given
// physical aspect ratio.
func cardSize(l pb.CardLayout) (width, height int) {
	width = cardWidthHorizontal
	if l.Orientation == "vertical" {
		width = cardWidthVertical
	}
	ratio := l.AspectRatio
	if ratio <= 0 && l.HeightMM > 0 {
		ratio = float64(l.WidthMM) / float64(l.HeightMM)
	}
	if ratio <= 0 {
		return width, 0
	}
	return width, int(math.Round(float64(width) / ratio / cellAspect))
}

func (r *renderer) card(resp *pb.GetCardResponse) string {
	l := resp.Card

	lines := []string{
		r.style(mutedStyle, l.Title),
		r.style(titleStyle, l.Subtitle),
		"",
	}
	photo := "[sin foto]"
	if l.PhotoURL != "" {
		photo = "[foto]"
	}
	lines = append(lines, photo)

	for _, blk := range l.Blocks {
		text := blk.Value
		if blk.Label != "" {
			text = blk.Label + " " + text
		}
		switch {
		case blk.Style == "mono":
			text = r.style(monoStyle, text)
		case blk.Emphasis:
			text = r.style(titleStyle, text)
		case blk.Style == "caption" || blk.Style == "badge":
			text = r.style(mutedStyle, text)
		}
		lines = append(lines, text)
	}

	lines = append(lines, "", r.style(mutedStyle, "QR "+l.QRPayload))
	if l.Footer != "" {
		lines = append(lines, r.style(mutedStyle, l.Footer))
	}

	meta := fmt.Sprintf("%s · plantilla %s %s · %s", l.Caption, l.Template, l.Version, l.FontFamily)
	if resp.Overridden {
		meta += " · datos extraídos (sin guardar)"
	}
	if resp.Extracting {
		meta += " · extrayendo..."
	}

	body := strings.Join(lines, "\n")
	if r.plain {
		rule := strings.Repeat("-", cardWidthHorizontal)
		return strings.Join([]string{rule, body, rule, meta}, "\n")
	}

	width, height := cardSize(l)
	box := cardBoxStyle.Width(width).Height(height).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, box, mutedStyle.Render(meta))
}

func (r *renderer) progress(d *pb.IntakeDraft) string {
	p := min(max(d.Progress, 0), 100)
	filled := p * progressBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	if !r.plain {
		bar = okStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", progressBarWidth-filled))
	}
	return fmt.Sprintf("%s %3d%%", bar, p)
}

func (r *renderer) mark(ok bool, pending bool) string {
	switch {
	case pending:
		return r.style(mutedStyle, "…")
	case ok:
		return r.style(okStyle, "✓")
	default:
		return r.style(failStyle, "✗")
	}
}

func (r *renderer) draft(d *pb.IntakeDraft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cedula:     %s (%s)\n", orDash(d.NationalID), d.Validation)
	if d.InvalidReason != "" {
		fmt.Fprintf(&b, "            %s\n", r.style(failStyle, d.InvalidReason))
	}
	if m := d.Match; m != nil {
		active := "inactive"
		if m.Active {
			active = "active"
		}
		fmt.Fprintf(&b, "Match:      %s %s, %s (%s)\n", m.FirstName, m.LastName, m.Role, active)
	}

	fmt.Fprintf(&b, "Photo:      %s (%s)\n", orDash(d.PhotoName), d.Quality)
	if d.PhotoName != "" {
		fmt.Fprintf(&b, "            %s\n", r.progress(d))
	}
	for _, g := range d.Gates {
		line := fmt.Sprintf("  %s %s", r.mark(g.Passed, !g.Reached), g.Label)
		if g.Reason != "" {
			line += " " + r.style(failStyle, g.Reason)
		}
		b.WriteString(line + "\n")
	}
	if d.QualityReason != "" {
		fmt.Fprintf(&b, "            %s\n", r.style(failStyle, d.QualityReason))
	}

	fmt.Fprintf(&b, "Upload: %s  Submit: %s", r.mark(d.CanUpload, false), r.mark(d.CanSubmit, false))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
