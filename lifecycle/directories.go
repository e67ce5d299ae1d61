// File: lifecycle/directories.go
// TREMA_HOME/TREMA_TMP resolution, done once at Init. A set value is
// made absolute; an unresolvable value falls back to a default ("/" for
// home, "/tmp" for tmp) with a notice-level log entry rather than
// failing. An unset TREMA_HOME also falls back to "/" with a notice; an
// unset TREMA_TMP defaults to <home>/tmp without a notice.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envHome = "TREMA_HOME"
	envTmp  = "TREMA_TMP"

	defaultHome = "/"
	defaultTmp  = "/tmp"
)

// resolveHome canonicalises TREMA_HOME to an absolute path, falling
// back to defaultHome and logging a notice if unset or unresolvable.
func resolveHome(logf func(format string, args ...any)) string {
	v, ok := os.LookupEnv(envHome)
	if !ok || v == "" {
		logf("notice: %s unset, falling back to %q", envHome, defaultHome)
		return defaultHome
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		logf("notice: %s=%q unresolvable (%v), falling back to %q", envHome, v, err, defaultHome)
		return defaultHome
	}
	return abs
}

// resolveTmp canonicalises TREMA_TMP to an absolute path. If unset, it
// defaults to joinTmp(home), the trailing-slash-aware join of home and
// "tmp": a home ending in "/" gets "tmp" appended directly ("/tmp")
// rather than doubling the separator ("//tmp").
func resolveTmp(home string, logf func(format string, args ...any)) string {
	v, ok := os.LookupEnv(envTmp)
	if !ok || v == "" {
		return joinTmp(home)
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		logf("notice: %s=%q unresolvable (%v), falling back to %q", envTmp, v, err, defaultTmp)
		return defaultTmp
	}
	return abs
}

// joinTmp joins a home directory with "tmp", avoiding a doubled
// separator when home already ends in "/".
func joinTmp(home string) string {
	if strings.HasSuffix(home, "/") {
		return home + "tmp"
	}
	return home + "/tmp"
}
