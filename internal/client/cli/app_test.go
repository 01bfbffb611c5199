package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/carnet/internal/client/config"
	"github.com/dmitrijs2005/carnet/internal/common"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-body")

// fakeAPI serves canned responses. Pollable states flip after the given
// number of reads.
type fakeAPI struct {
	mu sync.Mutex

	pingErr     error
	records     []*pb.Record
	stats       pb.Stats
	matchPolls  int
	matchResult pb.GetAutoMatchStatusResponse
	card        pb.GetCardResponse
	cardPolls   int
	draft       pb.IntakeDraft
	draftPolls  int
	draftFinal  pb.IntakeDraft
	views       []string
	photos      []string
	cardArgs    [][2]string
	closed      bool
	sessionOpen bool
	// existing makes SubmitIntake report an update
	existing bool
}

func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAPI) ListRecords(_ context.Context, q string) ([]*pb.Record, error) {
	if q == "nobody" {
		return nil, nil
	}
	return f.records, nil
}

func (f *fakeAPI) GetStats(context.Context) (pb.Stats, error) { return f.stats, nil }

func (f *fakeAPI) SetStatus(_ context.Context, id, status string) (*pb.Record, error) {
	if id == "missing" {
		return nil, common.ErrorNotFound
	}
	return &pb.Record{ID: id, FirstName: "Maria", LastName: "Rodriguez", Status: status, StatusLabel: "Verificado"}, nil
}

func (f *fakeAPI) RunAutoMatch(context.Context) (bool, error) {
	return f.matchPolls >= 0, nil
}

func (f *fakeAPI) AutoMatchStatus(context.Context) (*pb.GetAutoMatchStatusResponse, error) {
	if f.matchPolls > 0 {
		f.matchPolls--
		return &pb.GetAutoMatchStatusResponse{Running: true}, nil
	}
	res := f.matchResult
	return &res, nil
}

func (f *fakeAPI) OpenSession(context.Context) (*pb.OpenSessionResponse, error) {
	f.sessionOpen = true
	return &pb.OpenSessionResponse{SessionID: "s1", Selected: &pb.Record{ID: "1", FirstName: "Maria", LastName: "Rodriguez"}}, nil
}

func (f *fakeAPI) CloseSession(context.Context) error {
	f.sessionOpen = false
	return nil
}

func (f *fakeAPI) SelectRecord(_ context.Context, id string) (*pb.Record, error) {
	if id == "missing" {
		return nil, common.ErrorNotFound
	}
	return &pb.Record{ID: id, FirstName: "Carlos", LastName: "Mendoza"}, nil
}

func (f *fakeAPI) SetView(_ context.Context, view string) error {
	if view == "bogus" {
		return common.ErrorInvalidInput
	}
	f.views = append(f.views, view)
	return nil
}

func (f *fakeAPI) GetCard(_ context.Context, template, orientation string) (*pb.GetCardResponse, error) {
	f.cardArgs = append(f.cardArgs, [2]string{template, orientation})
	resp := f.card
	if f.cardPolls > 0 {
		f.cardPolls--
		resp.Extracting = true
	}
	if orientation != "" {
		resp.Card.Orientation = orientation
	}
	return &resp, nil
}

func (f *fakeAPI) ApplySmartExtraction(context.Context) (bool, error) {
	f.card.Overridden = true
	return true, nil
}

func (f *fakeAPI) SetNationalID(_ context.Context, id string) (*pb.IntakeDraft, error) {
	f.draft.NationalID = id
	f.draft.Validation = "idle"
	d := f.draft
	return &d, nil
}

func (f *fakeAPI) ValidateIdentity(context.Context) (bool, *pb.IntakeDraft, error) {
	if f.draft.NationalID == "" {
		d := f.draft
		return false, &d, nil
	}
	f.draft.Validation = "searching"
	d := f.draft
	return true, &d, nil
}

func (f *fakeAPI) SubmitPhoto(_ context.Context, name, contentType string, data []byte) (*pb.IntakeDraft, error) {
	f.photos = append(f.photos, name+"|"+contentType)
	f.draft.PhotoName = name
	f.draft.Quality = "analyzing"
	d := f.draft
	return &d, nil
}

func (f *fakeAPI) GetIntake(context.Context) (*pb.IntakeDraft, error) {
	if f.draftPolls > 0 {
		f.draftPolls--
		d := f.draft
		d.Progress += 25
		f.draft = d
		return &d, nil
	}
	d := f.draftFinal
	return &d, nil
}

func (f *fakeAPI) SubmitIntake(context.Context) (*pb.Record, bool, error) {
	if !f.draftFinal.CanSubmit {
		return nil, false, common.ErrorConflict
	}
	return &pb.Record{ID: "9", FirstName: "Ana", LastName: "Perez", Status: "pending", StatusLabel: "Pendiente"}, !f.existing, nil
}

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

func newTestApp(t *testing.T, api *fakeAPI) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PollInterval = time.Millisecond
	cfg.WaitTimeout = time.Second
	out := &bytes.Buffer{}
	return newApp(cfg, api, out), out
}

func TestApp_OpenSessionAndStatus(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api)

	require.NoError(t, a.openSession(context.Background()))
	assert.True(t, api.sessionOpen)
	assert.Equal(t, ModeOnline, a.mode())
	assert.Equal(t, "(Maria Rodriguez online)", a.getStatus())
	assert.Equal(t, viewDashboard, a.view)
}

func TestApp_CheckOnline(t *testing.T) {
	api := &fakeAPI{pingErr: errors.New("down")}
	a, _ := newTestApp(t, api)

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.mode())

	api.mu.Lock()
	api.pingErr = nil
	api.mu.Unlock()
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.mode())
}

func TestApp_StartOnlineStatusWatcherStops(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.mode() == ModeOnline }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestApp_RosterCommands(t *testing.T) {
	api := &fakeAPI{
		records: []*pb.Record{
			{ID: "1", FirstName: "Maria", LastName: "Rodriguez", NationalID: "V-12.345.678", Role: "Analista", Department: "Finanzas", Status: "pending", StatusLabel: "Pendiente"},
			{ID: "2", FirstName: "Carlos", LastName: "Mendoza", NationalID: "V-9.876.543", Role: "Gerente", Department: "RRHH", Status: "verified", StatusLabel: "Verificado"},
		},
		stats: pb.Stats{Total: 2, Pending: 1, Verified: 1},
	}
	a, out := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, a.List(ctx, ""))
	assert.Contains(t, out.String(), "Maria Rodriguez")
	assert.Contains(t, out.String(), "[Verificado]")

	out.Reset()
	require.NoError(t, a.List(ctx, "nobody"))
	assert.Contains(t, out.String(), "No records match.")

	out.Reset()
	require.NoError(t, a.Stats(ctx))
	assert.Contains(t, out.String(), "Total 2")
	assert.Contains(t, out.String(), "[Pending 1]")

	out.Reset()
	require.NoError(t, a.Status(ctx, "1", "verified"))
	assert.Contains(t, out.String(), "1 Maria Rodriguez is now [Verificado]")

	assert.ErrorIs(t, a.Status(ctx, "missing", "verified"), common.ErrorNotFound)
}

func TestApp_AutoMatchPollsUntilDone(t *testing.T) {
	api := &fakeAPI{
		matchPolls:  3,
		matchResult: pb.GetAutoMatchStatusResponse{LastVerified: 2},
		stats:       pb.Stats{Total: 5, Verified: 3},
	}
	a, out := newTestApp(t, api)

	require.NoError(t, a.AutoMatch(context.Background()))
	assert.Contains(t, out.String(), "Auto-match verified 2 record(s).")
	assert.Contains(t, out.String(), "Verified 3")
	assert.Equal(t, 0, api.matchPolls)
}

func TestApp_AutoMatchReportsFailure(t *testing.T) {
	api := &fakeAPI{matchResult: pb.GetAutoMatchStatusResponse{LastError: "store unavailable"}}
	a, _ := newTestApp(t, api)

	err := a.AutoMatch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestApp_AutoMatchTimesOut(t *testing.T) {
	api := &fakeAPI{matchPolls: 1 << 30}
	a, _ := newTestApp(t, api)
	a.config.WaitTimeout = 20 * time.Millisecond

	assert.ErrorIs(t, a.AutoMatch(context.Background()), ErrWaitTimeout)
}

func TestApp_AutoMatchAlreadyRunning(t *testing.T) {
	api := &fakeAPI{matchPolls: -1}
	a, out := newTestApp(t, api)

	require.NoError(t, a.AutoMatch(context.Background()))
	assert.Contains(t, out.String(), "already running")
}

func TestApp_EditorCommands(t *testing.T) {
	api := &fakeAPI{card: pb.GetCardResponse{
		Record: &pb.Record{ID: "2"},
		Card: pb.CardLayout{
			Template: "2025", Orientation: "horizontal", AspectRatio: 86.0 / 54.0,
			Caption: "Formato Horizontal (86x54mm)", Version: "v2.5", FontFamily: "sans",
			Title: "República Bolivariana de Venezuela", Subtitle: "Tesorería de Seguridad Social",
			Blocks: []pb.TextBlock{
				{Name: "first_name", Value: "Carlos", Emphasis: true},
				{Name: "national_id", Label: "Cédula de Identidad", Value: "V-9.876.543", Style: "mono"},
			},
			QRPayload: "TSS|V-9.876.543|Carlos Mendoza|v2.5",
		},
	}}
	a, out := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, a.Select(ctx, "2"))
	assert.Equal(t, "Carlos Mendoza", a.selected)
	assert.Equal(t, viewEditor, a.view)
	assert.Contains(t, out.String(), "Cédula de Identidad V-9.876.543")
	assert.Contains(t, out.String(), "QR TSS|V-9.876.543|Carlos Mendoza|v2.5")

	assert.ErrorIs(t, a.Select(ctx, "missing"), common.ErrorNotFound)

	require.NoError(t, a.Template(ctx, "2024"))
	require.NoError(t, a.Orient(ctx, "v"))
	require.NoError(t, a.Orient(ctx, "Horizontal"))
	assert.Equal(t, [][2]string{{"", ""}, {"2024", ""}, {"", "vertical"}, {"", "Horizontal"}}, api.cardArgs)

	out.Reset()
	api.cardPolls = 2
	require.NoError(t, a.Extract(ctx))
	assert.Contains(t, out.String(), "Extracting data from document...")
	assert.Contains(t, out.String(), "datos extraídos")
	assert.NotContains(t, out.String(), "extrayendo...")
}

func TestApp_ViewCommand(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api)

	require.NoError(t, a.View(context.Background(), "upload"))
	assert.Equal(t, viewUpload, a.view)
	assert.Contains(t, out.String(), "View: upload")

	assert.ErrorIs(t, a.View(context.Background(), "bogus"), common.ErrorInvalidInput)
	assert.Equal(t, viewUpload, a.view)
}

func TestApp_IntakeFlow(t *testing.T) {
	api := &fakeAPI{
		draftPolls: 4,
		draftFinal: pb.IntakeDraft{
			NationalID: "V-12.345.678", Validation: "valid",
			Match:     &pb.IdentityMatch{FirstName: "Ana", LastName: "Perez", Role: "Analista", Active: true},
			PhotoName: "face.png", Quality: "success", Progress: 100,
			Gates: []pb.Gate{
				{Name: "format", Label: "Formato", Reached: true, Passed: true},
				{Name: "centering", Label: "Centrado", Reached: true, Passed: true},
			},
			CanUpload: true, CanSubmit: true,
		},
	}
	a, out := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, a.Cedula(ctx, "V-12.345.678"))
	assert.Equal(t, []string{viewUpload}, api.views)
	assert.Contains(t, out.String(), "Cedula:     V-12.345.678 (idle)")

	out.Reset()
	api.draftPolls = 0
	require.NoError(t, a.Validate(ctx))
	assert.Contains(t, out.String(), "Match:      Ana Perez, Analista (active)")

	dir := t.TempDir()
	path := filepath.Join(dir, "face.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))

	out.Reset()
	api.draftPolls = 4
	require.NoError(t, a.Photo(ctx, path))
	assert.Equal(t, []string{"face.png|image/png"}, api.photos)
	assert.Contains(t, out.String(), "100%")
	assert.Contains(t, out.String(), "Photo:      face.png (success)")

	out.Reset()
	require.NoError(t, a.Intake(ctx))
	assert.Contains(t, out.String(), "Upload: ✓  Submit: ✓")
	// still in the upload view; no extra switch
	assert.Equal(t, []string{viewUpload}, api.views)

	out.Reset()
	require.NoError(t, a.Submit(ctx))
	assert.Contains(t, out.String(), "Created record 9 for Ana Perez ([Pendiente])")
	assert.Equal(t, []string{viewUpload, viewDashboard}, api.views)
}

func TestApp_ValidateWithoutCedula(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})

	require.NoError(t, a.Validate(context.Background()))
	assert.Contains(t, out.String(), "Nothing to validate")
}

func TestApp_SubmitUpdatesExisting(t *testing.T) {
	api := &fakeAPI{existing: true, draftFinal: pb.IntakeDraft{CanSubmit: true}}
	a, out := newTestApp(t, api)

	require.NoError(t, a.Submit(context.Background()))
	assert.Contains(t, out.String(), "Updated record 9 for Ana Perez ([Pendiente])")
	assert.NotContains(t, out.String(), "Created")
}

func TestApp_SubmitBlocked(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{})
	assert.ErrorIs(t, a.Submit(context.Background()), common.ErrorConflict)
}

func TestApp_PhotoFromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer ts.Close()

	api := &fakeAPI{draftFinal: pb.IntakeDraft{PhotoName: "portrait.jpg", Quality: "error", QualityReason: "face not centered"}}
	a, out := newTestApp(t, api)

	require.NoError(t, a.Photo(context.Background(), ts.URL+"/img/portrait.jpg"))
	assert.Equal(t, []string{"portrait.jpg|image/jpeg"}, api.photos)
	assert.Contains(t, out.String(), "face not centered")
}

func TestApp_PhotoMissingFile(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api)

	err := a.Photo(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Empty(t, api.photos)
}

func TestApp_RunClosesSession(t *testing.T) {
	capturePrint(t)
	api := &fakeAPI{}
	a, _ := newTestApp(t, api)
	a.in = strings.NewReader("stats\nexit\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Run(ctx))
	assert.False(t, api.sessionOpen)
	assert.True(t, api.closed)
}
