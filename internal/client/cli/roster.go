package cli

import (
	"context"
	"fmt"
)

func (a *App) List(ctx context.Context, query string) error {
	recs, err := a.api.ListRecords(ctx, query)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No records match.")
		return nil
	}
	fmt.Fprintln(a.out, a.render.table(recs))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.api.GetStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.stats(st))
	return nil
}

func (a *App) AutoMatch(ctx context.Context) error {
	started, err := a.api.RunAutoMatch(ctx)
	if err != nil {
		return err
	}
	if !started {
		fmt.Fprintln(a.out, "Auto-match is already running.")
		return nil
	}
	fmt.Fprintln(a.out, "Auto-match started...")

	err = a.waitUntil(ctx, func(ctx context.Context) (bool, error) {
		st, err := a.api.AutoMatchStatus(ctx)
		if err != nil {
			return false, err
		}
		if st.Running {
			return false, nil
		}
		if st.LastError != "" {
			return true, fmt.Errorf("auto-match failed: %s", st.LastError)
		}
		fmt.Fprintf(a.out, "Auto-match verified %d record(s).\n", st.LastVerified)
		return true, nil
	})
	if err != nil {
		return err
	}
	return a.Stats(ctx)
}

func (a *App) Status(ctx context.Context, id, status string) error {
	rec, err := a.api.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s is now %s\n", rec.ID, rec.FullName(), a.render.badge(rec.Status, rec.StatusLabel))
	return nil
}

func (a *App) Select(ctx context.Context, id string) error {
	rec, err := a.api.SelectRecord(ctx, id)
	if err != nil {
		return err
	}
	a.selected = rec.FullName()
	a.view = viewEditor
	return a.Card(ctx)
}

func (a *App) View(ctx context.Context, view string) error {
	if err := a.api.SetView(ctx, view); err != nil {
		return err
	}
	a.view = view
	fmt.Fprintf(a.out, "View: %s\n", view)
	return nil
}
