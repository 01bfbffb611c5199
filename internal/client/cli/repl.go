package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Roster:   (l)ist [query], stats, automatch, status <id> <status>, select <id>
Views:    view <dashboard|editor|upload>
Editor:   card, template <2024|2025>, orient <h|v>, extract
Intake:   cedula <id>, validate, photo <path|url>, intake, submit
Other:    help, exit`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, query string) error
	Stats(ctx context.Context) error
	AutoMatch(ctx context.Context) error
	Status(ctx context.Context, id, status string) error
	Select(ctx context.Context, id string) error
	View(ctx context.Context, view string) error
	Card(ctx context.Context) error
	Template(ctx context.Context, template string) error
	Orient(ctx context.Context, orientation string) error
	Extract(ctx context.Context) error
	Cedula(ctx context.Context, nationalID string) error
	Validate(ctx context.Context) error
	Photo(ctx context.Context, ref string) error
	Intake(ctx context.Context) error
	Submit(ctx context.Context) error
}

// runREPL reads commands from scanner until EOF or exit. Command errors
// are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("carnet %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			err = a.List(ctx, strings.Join(args, " "))

		case "stats":
			err = a.Stats(ctx)

		case "automatch":
			err = a.AutoMatch(ctx)

		case "status":
			if len(args) != 2 {
				printlnFn("Usage: status <id> <pending|verified|printed|rejected>")
				continue
			}
			err = a.Status(ctx, args[0], args[1])

		case "select":
			if len(args) != 1 {
				printlnFn("Usage: select <id>")
				continue
			}
			err = a.Select(ctx, args[0])

		case "view":
			if len(args) != 1 {
				printlnFn("Usage: view <dashboard|editor|upload>")
				continue
			}
			err = a.View(ctx, args[0])

		case "card":
			err = a.Card(ctx)

		case "template":
			if len(args) != 1 {
				printlnFn("Usage: template <2024|2025>")
				continue
			}
			err = a.Template(ctx, args[0])

		case "orient":
			if len(args) != 1 {
				printlnFn("Usage: orient <h|v>")
				continue
			}
			err = a.Orient(ctx, args[0])

		case "extract":
			err = a.Extract(ctx)

		case "cedula":
			err = a.Cedula(ctx, strings.Join(args, " "))

		case "validate":
			err = a.Validate(ctx)

		case "photo":
			if len(args) != 1 {
				printlnFn("Usage: photo <path|url>")
				continue
			}
			err = a.Photo(ctx, args[0])

		case "intake":
			err = a.Intake(ctx)

		case "submit":
			err = a.Submit(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
