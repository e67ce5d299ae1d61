// File: lifecycle/process.go
// Small process-level helpers used by the coordinator: executable
// basename extraction and daemonisation. Go has no fork(2), so
// daemonize re-execs the process with a detached, session-leading
// child the way the standard library's recommended pattern does,
// rather than attempting to emulate double-fork from within a single
// running process image.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

const daemonizedEnvVar = "TREMA_DAEMONIZED"

func basename(path string) string {
	return filepath.Base(path)
}

// daemonize detaches the process from its controlling terminal by
// re-executing itself in a new session with stdio redirected to
// /dev/null, then exits the parent. A child already carrying
// daemonizedEnvVar returns immediately without re-forking again.
func daemonize() error {
	if os.Getenv(daemonizedEnvVar) == "1" {
		return nil
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("daemonize: open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("daemonize: resolve executable: %w", err)
	}

	cmd := exec.Command(exePath, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonizedEnvVar+"=1")
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("daemonize: start detached child: %w", err)
	}

	os.Exit(0)
	return nil
}
