package grpc

import (
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

func recordToPB(r *models.Record) *pb.Record {
	if r == nil {
		return nil
	}
	return &pb.Record{
		ID:          r.ID,
		NationalID:  r.NationalID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Role:        r.Role,
		Department:  r.Department,
		Status:      string(r.Status),
		StatusLabel: r.Status.Label(),
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.CreatedAt,
	}
}

func recordsToPB(list []*models.Record) []*pb.Record {
	out := make([]*pb.Record, 0, len(list))
	for _, r := range list {
		out = append(out, recordToPB(r))
	}
	return out
}

func statsToPB(s models.RosterStats) pb.Stats {
	return pb.Stats{
		Total:    s.Total,
		Pending:  s.Pending,
		Verified: s.Verified,
		Printed:  s.Printed,
		Rejected: s.Rejected,
	}
}

func layoutToPB(l models.CardLayout) pb.CardLayout {
	blocks := make([]pb.TextBlock, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		blocks = append(blocks, pb.TextBlock{
			Name:     b.Name,
			Label:    b.Label,
			Value:    b.Value,
			Style:    b.Style,
			Emphasis: b.Emphasis,
		})
	}
	return pb.CardLayout{
		Template:    string(l.Template),
		Orientation: string(l.Orientation),
		WidthMM:     l.Geometry.WidthMM,
		HeightMM:    l.Geometry.HeightMM,
		AspectRatio: l.Geometry.AspectRatio,
		FontFamily:  l.FontFamily,
		Version:     l.Version,
		Caption:     l.Caption,
		Title:       l.Title,
		Subtitle:    l.Subtitle,
		LogoURL:     l.LogoURL,
		PhotoURL:    l.PhotoURL,
		Blocks:      blocks,
		QRPayload:   l.QRPayload,
		Footer:      l.Footer,
	}
}

func draftToPB(d models.IntakeDraft) pb.IntakeDraft {
	out := pb.IntakeDraft{
		NationalID:    d.NationalID,
		Validation:    string(d.Validation),
		InvalidReason: d.InvalidReason,
		PhotoName:     d.PhotoName,
		Quality:       string(d.Quality),
		QualityReason: d.QualityReason,
		Progress:      d.Progress,
		Gates:         make([]pb.Gate, 0, len(d.Gates)),
		CanUpload:     d.CanUpload,
		CanSubmit:     d.CanSubmit,
	}
	if d.Match != nil {
		out.Match = &pb.IdentityMatch{
			RecordID:   d.Match.RecordID,
			FirstName:  d.Match.FirstName,
			LastName:   d.Match.LastName,
			Role:       d.Match.Role,
			Department: d.Match.Department,
			Active:     d.Match.Active,
		}
	}
	for _, g := range d.Gates {
		out.Gates = append(out.Gates, pb.Gate{
			Name:      string(g.Name),
			Label:     g.Label,
			Threshold: g.Threshold,
			Reached:   g.Reached,
			Passed:    g.Passed,
			Reason:    g.Reason,
		})
	}
	return out
}
