package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	fail  map[string]error
}

func (f *fakeExec) rec(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail[name]
}

func (f *fakeExec) List(_ context.Context, q string) error { return f.rec("list", q) }
func (f *fakeExec) Stats(context.Context) error            { return f.rec("stats") }
func (f *fakeExec) AutoMatch(context.Context) error        { return f.rec("automatch") }
func (f *fakeExec) Status(_ context.Context, id, st string) error {
	return f.rec("status", id, st)
}
func (f *fakeExec) Select(_ context.Context, id string) error  { return f.rec("select", id) }
func (f *fakeExec) View(_ context.Context, v string) error     { return f.rec("view", v) }
func (f *fakeExec) Card(context.Context) error                 { return f.rec("card") }
func (f *fakeExec) Template(_ context.Context, t string) error { return f.rec("template", t) }
func (f *fakeExec) Orient(_ context.Context, o string) error   { return f.rec("orient", o) }
func (f *fakeExec) Extract(context.Context) error              { return f.rec("extract") }
func (f *fakeExec) Cedula(_ context.Context, id string) error  { return f.rec("cedula", id) }
func (f *fakeExec) Validate(context.Context) error             { return f.rec("validate") }
func (f *fakeExec) Photo(_ context.Context, ref string) error  { return f.rec("photo", ref) }
func (f *fakeExec) Intake(context.Context) error               { return f.rec("intake") }
func (f *fakeExec) Submit(context.Context) error               { return f.rec("submit") }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"l maria rodriguez",
		"stats",
		"automatch",
		"status 3 verified",
		"select 2",
		"view upload",
		"card",
		"template 2025",
		"orient v",
		"extract",
		"cedula V-12.345.678",
		"validate",
		"photo face.png",
		"intake",
		"submit",
		"",
		"exit",
		"stats",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"list",
		"list maria rodriguez",
		"stats",
		"automatch",
		"status 3 verified",
		"select 2",
		"view upload",
		"card",
		"template 2025",
		"orient v",
		"extract",
		"cedula V-12.345.678",
		"validate",
		"photo face.png",
		"intake",
		"submit",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"status 3",
		"select",
		"view",
		"template",
		"orient",
		"photo",
		"frobnicate",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(online)" }, bufio.NewScanner(input))

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: status <id>")
	assert.Contains(t, joined, "Usage: select <id>")
	assert.Contains(t, joined, "Usage: photo <path|url>")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Contains(t, joined, "carnet (online)> ")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{fail: map[string]error{"submit": errors.New("photo required")}}
	input := strings.NewReader("submit\nstats\n")
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"submit", "stats"}, exec.calls)
	assert.Contains(t, strings.Join(*out, "\n"), "Error: photo required")
}
