package cli

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/carnet/internal/filex"
	"github.com/dmitrijs2005/carnet/internal/netx"
)

const (
	viewDashboard = "dashboard"
	viewEditor    = "editor"
	viewUpload    = "upload"

	validationSearching = "searching"
	qualityAnalyzing    = "analyzing"
)

// enterUpload switches the session to the upload view unless it is there
// already; leaving and re-entering would discard the draft.
func (a *App) enterUpload(ctx context.Context) error {
	if a.view == viewUpload {
		return nil
	}
	return a.View(ctx, viewUpload)
}

func (a *App) Cedula(ctx context.Context, nationalID string) error {
	if err := a.enterUpload(ctx); err != nil {
		return err
	}
	d, err := a.api.SetNationalID(ctx, nationalID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.draft(d))
	return nil
}

func (a *App) Validate(ctx context.Context) error {
	if err := a.enterUpload(ctx); err != nil {
		return err
	}
	started, d, err := a.api.ValidateIdentity(ctx)
	if err != nil {
		return err
	}
	if !started {
		fmt.Fprintln(a.out, "Nothing to validate; enter a cedula first.")
		fmt.Fprintln(a.out, a.render.draft(d))
		return nil
	}
	fmt.Fprintln(a.out, "Looking up identity...")

	err = a.waitUntil(ctx, func(ctx context.Context) (bool, error) {
		next, err := a.api.GetIntake(ctx)
		if err != nil {
			return false, err
		}
		d = next
		return d.Validation != validationSearching, nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.draft(d))
	return nil
}

func (a *App) Photo(ctx context.Context, ref string) error {
	if err := a.enterUpload(ctx); err != nil {
		return err
	}

	data, contentType, name, err := a.loadPhoto(ctx, ref)
	if err != nil {
		return err
	}

	d, err := a.api.SubmitPhoto(ctx, name, contentType, data)
	if err != nil {
		return err
	}

	progress := -1
	err = a.waitUntil(ctx, func(ctx context.Context) (bool, error) {
		if d.Progress != progress {
			progress = d.Progress
			fmt.Fprintln(a.out, a.render.progress(d))
		}
		if d.Quality != qualityAnalyzing {
			return true, nil
		}
		next, err := a.api.GetIntake(ctx)
		if err != nil {
			return false, err
		}
		d = next
		return false, nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.draft(d))
	return nil
}

func (a *App) loadPhoto(ctx context.Context, ref string) (data []byte, contentType, name string, err error) {
	if netx.IsURL(ref) {
		data, contentType, err = netx.FetchPhoto(ctx, a.http, ref, filex.MaxPhotoBytes)
		if err != nil {
			return nil, "", "", err
		}
		name = ref
		if u, perr := url.Parse(ref); perr == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			name = path.Base(u.Path)
		}
		return data, contentType, name, nil
	}

	data, contentType, err = filex.ReadPhoto(ref)
	if err != nil {
		return nil, "", "", err
	}
	return data, contentType, filepath.Base(ref), nil
}

func (a *App) Intake(ctx context.Context) error {
	if err := a.enterUpload(ctx); err != nil {
		return err
	}
	d, err := a.api.GetIntake(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.draft(d))
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	rec, created, err := a.api.SubmitIntake(ctx)
	if err != nil {
		return err
	}
	verb := "Updated"
	if created {
		verb = "Created"
	}
	fmt.Fprintf(a.out, "%s record %s for %s (%s)\n", verb, rec.ID, rec.FullName(), a.render.badge(rec.Status, rec.StatusLabel))
	return a.View(ctx, viewDashboard)
}

var _ execIface = (*App)(nil)
