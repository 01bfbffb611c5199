// Package flagx lets several components share os.Args: each one filters out
// the flags it owns before handing them to its own flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Set lists the flags a component owns. Value flags consume the following
// argument unless it looks like a flag itself; Bool flags never do.
type Set struct {
	Value []string
	Bool  []string
}

// Filter returns the subset of args belonging to the set, in their
// original order. Both "-f value" and "-f=value" spellings are accepted.
// The result is never nil.
func (s Set) Filter(args []string) []string {
	kind := make(map[string]bool, len(s.Value)+len(s.Bool))
	for _, f := range s.Value {
		kind[f] = true
	}
	for _, f := range s.Bool {
		kind[f] = false
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		takesValue, ok := kind[name]
		if !ok {
			continue
		}
		out = append(out, arg)

		if inline || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// FilterArgs keeps only the value flags listed in allowedFlags.
func FilterArgs(args []string, allowedFlags []string) []string {
	return Set{Value: allowedFlags}.Filter(args)
}

// ConfigPath extracts the JSON config path passed with -c or -config.
// The last occurrence wins; an empty string means no file was given.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
