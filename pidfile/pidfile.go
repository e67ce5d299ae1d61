// File: pidfile/pidfile.go
// Package pidfile reads, writes, renames, and unlinks PID files. A PID
// file lives at <dir>/<name>.pid and contains the ASCII decimal
// process ID.
// Author: trema-go
// License: Apache-2.0
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Path returns the PID file path for name within dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".pid")
}

// Write records the current process's PID at <dir>/<name>.pid.
func Write(dir, name string) error {
	pid := os.Getpid()
	return os.WriteFile(Path(dir, name), []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// Unlink removes the PID file. A missing file is not an error: it means
// there is nothing to unlink, which is the common case on a second
// shutdown attempt.
func Unlink(dir, name string) error {
	err := os.Remove(Path(dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Rename moves the PID file from oldName to newName, used when
// set_name is called on an already-started process.
func Rename(dir, oldName, newName string) error {
	return os.Rename(Path(dir, oldName), Path(dir, newName))
}

// Read returns the PID recorded in <dir>/<name>.pid.
func Read(dir, name string) (int, error) {
	data, err := os.ReadFile(Path(dir, name))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pidfile: malformed pid file %s: %w", Path(dir, name), err)
	}
	return pid, nil
}
