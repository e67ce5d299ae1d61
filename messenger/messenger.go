// File: messenger/messenger.go
// Package messenger is the framework's inter-process transport:
// init/start/flush/stop/finalize, plus dump start/stop. It carries no
// OpenFlow wire knowledge of its own; payloads cross it opaque. The
// framing layer is code.hybscloud.com/framer over a Unix domain socket
// listener rather than hand-rolled length-prefixing.
// Author: trema-go
// License: Apache-2.0
package messenger

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"code.hybscloud.com/framer"
	"code.hybscloud.com/iox"

	"github.com/trema-go/trema/buffer"
)

// DefaultDumpServiceName is the dump endpoint name used when a caller
// starts a dump without naming one explicitly.
const DefaultDumpServiceName = "trema_dump_service"

// ErrNotStarted is returned by Start when Init has not prepared a
// listening socket.
var ErrNotStarted = errors.New("messenger: not started")

// Handler receives inbound message payloads delivered by the run loop.
type Handler func(*buffer.Buffer)

// Messenger listens on a Unix domain socket under the temp directory
// and frames every inbound/outbound message with framer, delivering
// payloads to the application as buffer.Buffer instances.
type Messenger struct {
	mu sync.Mutex

	serviceName string
	socketPath  string
	listener    net.Listener
	handler     Handler

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	dumpEnabled     bool
	dumpServiceName string
	dumpConn        net.Conn
}

// New constructs a Messenger bound to <tmpDir>/<serviceName>.sock.
func New(serviceName, tmpDir string) *Messenger {
	return &Messenger{
		serviceName: serviceName,
		socketPath:  socketPath(tmpDir, serviceName),
	}
}

func socketPath(tmpDir, serviceName string) string {
	return filepath.Join(tmpDir, serviceName+".sock")
}

// SocketPathForTest exposes the socket path computation for tests that
// need to dial the listener directly.
func SocketPathForTest(tmpDir, serviceName string) string {
	return socketPath(tmpDir, serviceName)
}

// Init prepares the listening socket but does not yet accept
// connections; it mirrors the collaborator's init/start split so the
// coordinator can initialise subsystems in order before entering the
// blocking run loop.
func (m *Messenger) Init(handler Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	os.Remove(m.socketPath)
	ln, err := net.Listen("unix", m.socketPath)
	if err != nil {
		return fmt.Errorf("messenger: listen %s: %w", m.socketPath, err)
	}
	m.listener = ln
	m.handler = handler
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	return nil
}

// Start runs the accept loop until Stop is called or the listener is
// closed, blocking the calling goroutine. This is the collaborator's
// "run loop" that the lifecycle coordinator's Start blocks on.
func (m *Messenger) Start() error {
	m.mu.Lock()
	if m.listener == nil {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.started = true
	ln := m.listener
	stopCh := m.stopCh
	m.mu.Unlock()

	defer close(m.doneCh)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stopCh:
				return nil
			default:
				return fmt.Errorf("messenger: accept: %w", err)
			}
		}
		go m.serve(conn)
	}
}

func (m *Messenger) serve(conn net.Conn) {
	defer conn.Close()
	reader := framer.NewReader(conn)
	buf := make([]byte, 64*1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			b, allocErr := buffer.NewWithCapacity(n)
			if allocErr == nil {
				payload, _ := b.Append(n)
				copy(payload, buf[:n])
				m.mu.Lock()
				h := m.handler
				m.mu.Unlock()
				if h != nil {
					h(b)
				}
				if m.dumpEnabledLocked() {
					m.mirrorDump(b.Data())
				}
			}
		}
		if err != nil {
			// iox's control-flow signals mean the frame isn't complete
			// yet, not that the connection failed.
			if errors.Is(err, iox.ErrWouldBlock) || errors.Is(err, iox.ErrMore) {
				continue
			}
			return
		}
	}
}

func (m *Messenger) dumpEnabledLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dumpEnabled
}

// mirrorDump writes a copy of a payload, as one framed message, to the
// dump connection, if one is active. Failures are silently dropped: dump mirroring is a
// diagnostic aid, not a delivery guarantee.
func (m *Messenger) mirrorDump(payload []byte) {
	m.mu.Lock()
	conn := m.dumpConn
	m.mu.Unlock()
	if conn == nil {
		return
	}
	w := framer.NewWriter(conn)
	_, _ = w.Write(payload)
}

// Send transmits a buffer's payload as one framed message over conn.
func (m *Messenger) Send(conn net.Conn, b *buffer.Buffer) error {
	w := framer.NewWriter(conn)
	_, err := w.Write(b.Data())
	return err
}

// Flush is a no-op placeholder for draining any buffered outbound
// writes; the framer writer used here writes synchronously per
// message, so there is nothing to flush beyond what net.Conn already
// guarantees.
func (m *Messenger) Flush() error { return nil }

// Stop causes the accept loop to exit on its next iteration.
func (m *Messenger) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	close(m.stopCh)
	if m.listener != nil {
		m.listener.Close()
	}
	return nil
}

// Finalize releases the listening socket and removes the socket file.
func (m *Messenger) Finalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener != nil {
		m.listener.Close()
		m.listener = nil
	}
	if m.dumpConn != nil {
		m.dumpConn.Close()
		m.dumpConn = nil
	}
	os.Remove(m.socketPath)
	m.started = false
	return nil
}

// DumpEnabled reports whether dump delivery is currently active.
func (m *Messenger) DumpEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dumpEnabled
}

// StartDump begins mirroring a copy of every inbound message to the
// named dump service socket, <tmpDir>/<dumpServiceName>.sock;
// dumpServiceName defaults to DefaultDumpServiceName when empty. If no
// dump service is listening there, dump is still marked enabled but
// nothing is mirrored.
func (m *Messenger) StartDump(tmpDir, dumpServiceName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dumpEnabled {
		return nil
	}
	if dumpServiceName == "" {
		dumpServiceName = DefaultDumpServiceName
	}
	m.dumpServiceName = dumpServiceName
	if conn, err := net.Dial("unix", socketPath(tmpDir, dumpServiceName)); err == nil {
		m.dumpConn = conn
	}
	m.dumpEnabled = true
	return nil
}

// StopDump disables dump mirroring.
func (m *Messenger) StopDump() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dumpEnabled = false
	if m.dumpConn != nil {
		m.dumpConn.Close()
		m.dumpConn = nil
	}
	return nil
}
