package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/carnet/internal/client/client"
	"github.com/dmitrijs2005/carnet/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	api      API
	in       io.Reader
	out      io.Writer
	render   *renderer
	http     *http.Client
	selected string
	view     string

	mu   sync.Mutex
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewCarnetClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdout), nil
}

func newApp(c *config.Config, api API, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		in:     os.Stdin,
		out:    out,
		render: newRenderer(out, c.Plain),
		http:   &http.Client{Timeout: c.WaitTimeout},
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) Run(ctx context.Context) error {
	defer a.api.Close()

	if err := a.openSession(ctx); err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.api.CloseSession(cctx); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	a.Root(ctx)
	return nil
}

func (a *App) openSession(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.WaitTimeout)
	defer cancel()

	resp, err := a.api.OpenSession(ctx)
	if err != nil {
		a.setMode(ModeOffline)
		return fmt.Errorf("open session: %w", err)
	}
	a.setMode(ModeOnline)
	a.view = viewDashboard
	if resp.Selected != nil {
		a.selected = resp.Selected.FullName()
	}
	return nil
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}
