// Package flagx helps several independent flag sets share one command line.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of command-line arguments that belongs to the
// flags listed in allowed, together with their values. Everything else is
// dropped, so a flag.FlagSet can parse the result without tripping over flags
// owned by another parser.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -a localhost:8080
//  2. Flag and value joined with '=':        --config=conf.json
//  3. Flag with no value following it:       -v -a :8080
//
// Parameters:
//
//	args    : the command-line arguments, usually os.Args[1:]
//	allowed : flag names including their dashes, e.g. []string{"-c", "--config"}
//
// Returns:
//
//	A non-nil slice with the allowed flags in their original order. A value
//	given as a separate argument is kept only when it does not itself start
//	with a dash.
func FilterArgs(args []string, allowed []string) []string {
	// Lookup set of accepted flag names
	known := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		known[name] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		// "-flag=value": keep or drop the argument as a whole
		if name, _, found := strings.Cut(arg, "="); found {
			if _, ok := known[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := known[arg]; !ok {
			continue
		}
		out = append(out, arg)

		// "-flag value": the next argument is the value unless it is a flag
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given with -c, -config or
// --config.
//
// Only these flags are parsed and every other argument is ignored, so the
// caller can still parse its own flags from the same args afterwards. Parse
// errors are swallowed: a malformed config flag behaves as if it were absent.
//
// If none of the flags is present, an empty string is returned.
func ConfigPath(args []string) string {
	var path string
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))
	return path
}
