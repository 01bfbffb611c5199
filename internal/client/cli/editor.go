package cli

import (
	"context"
	"fmt"
	"strings"

	pb "github.com/dmitrijs2005/carnet/internal/proto"
)

func (a *App) Card(ctx context.Context) error {
	return a.showCard(ctx, "", "")
}

func (a *App) Template(ctx context.Context, template string) error {
	return a.showCard(ctx, template, "")
}

// Orient accepts h and v as shorthands.
func (a *App) Orient(ctx context.Context, orientation string) error {
	switch strings.ToLower(orientation) {
	case "h":
		orientation = "horizontal"
	case "v":
		orientation = "vertical"
	}
	return a.showCard(ctx, "", orientation)
}

func (a *App) showCard(ctx context.Context, template, orientation string) error {
	resp, err := a.api.GetCard(ctx, template, orientation)
	if err != nil {
		return err
	}
	a.printCard(resp)
	return nil
}

func (a *App) printCard(resp *pb.GetCardResponse) {
	fmt.Fprintln(a.out, a.render.card(resp))
	if resp.ExtractionError != "" {
		fmt.Fprintf(a.out, "Extraction failed: %s\n", resp.ExtractionError)
	}
}

func (a *App) Extract(ctx context.Context) error {
	started, err := a.api.ApplySmartExtraction(ctx)
	if err != nil {
		return err
	}
	if !started {
		fmt.Fprintln(a.out, "Extraction is already running.")
		return nil
	}
	fmt.Fprintln(a.out, "Extracting data from document...")

	var last *pb.GetCardResponse
	err = a.waitUntil(ctx, func(ctx context.Context) (bool, error) {
		resp, err := a.api.GetCard(ctx, "", "")
		if err != nil {
			return false, err
		}
		last = resp
		return !resp.Extracting, nil
	})
	if err != nil {
		return err
	}
	a.printCard(last)
	return nil
}
