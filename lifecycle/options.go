// File: lifecycle/options.go
// CLI option parsing for the lifecycle coordinator. Accepts both
// "--flag value" and "--flag=value" forms, and the four-option
// short-form set shared by every application built on the framework.
// Recognised options (and their values) are stripped from argv so the
// remainder is passed through to application code untouched. The
// scanner is stateless per call, so parsing is idempotent on its own
// remainder.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import "strings"

// Options holds the values recognised from argv by parseOptions.
type Options struct {
	Name         string
	Daemonize    bool
	LoggingLevel string
	Help         bool
}

// parseOptions scans argv (argv[0] is the executable name and is always
// preserved) for the framework's common CLI options, returning the
// parsed Options and a new argv with recognised options and their
// arguments removed. Unknown options are left untouched.
func parseOptions(argv []string) (Options, []string) {
	var opts Options
	if len(argv) == 0 {
		return opts, argv
	}

	out := make([]string, 0, len(argv))
	out = append(out, argv[0])

	for i := 1; i < len(argv); i++ {
		arg := argv[i]

		name, inlineValue, hasInline := splitInline(arg)

		switch name {
		case "--name", "-n":
			if hasInline {
				opts.Name = inlineValue
			} else if i+1 < len(argv) {
				i++
				opts.Name = argv[i]
			}
		case "--daemonize", "-d":
			opts.Daemonize = true
		case "--logging_level", "-l":
			if hasInline {
				opts.LoggingLevel = inlineValue
			} else if i+1 < len(argv) {
				i++
				opts.LoggingLevel = argv[i]
			}
		case "--help", "-h":
			opts.Help = true
		default:
			out = append(out, arg)
		}
	}

	return opts, out
}

// splitInline separates a "--flag=value" argument into its flag name
// and value. For arguments without an '=', or not starting with '-',
// it returns the argument unchanged and hasInline false.
func splitInline(arg string) (name, value string, hasInline bool) {
	if !strings.HasPrefix(arg, "-") {
		return arg, "", false
	}
	if idx := strings.IndexByte(arg, '='); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

// Usage returns the framework's default usage text for the given
// executable name. Applications may override this by providing their
// own usage function to Coordinator.SetUsage before calling Init.
func Usage(executableName string) string {
	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(executableName)
	b.WriteString(" [OPTION]...\n\n")
	b.WriteString("  -n, --name SERVICE_NAME    set service name\n")
	b.WriteString("  -d, --daemonize            run in background\n")
	b.WriteString("  -l, --logging_level LEVEL  set log level (critical/error/warn/notice/info/debug)\n")
	b.WriteString("  -h, --help                 display this help and exit\n")
	return b.String()
}
