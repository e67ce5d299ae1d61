// File: lifecycle/coordinator.go
// Package lifecycle implements the application lifecycle coordinator:
// a process-wide singleton that parses arguments, resolves
// directories, wires signals, and drives the ordered
// init/start/stop/finalize of the messenger, stat, and timer
// subsystems. The framework owns the process's signal handlers and
// PID file, so all of that state lives in one Coordinator value
// rather than scattered globals.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"fmt"
	"os"
	"sync"

	"github.com/trema-go/trema/config"
	"github.com/trema-go/trema/logger"
	"github.com/trema-go/trema/messenger"
	"github.com/trema-go/trema/ofapi"
	"github.com/trema-go/trema/pidfile"
	"github.com/trema-go/trema/stat"
	"github.com/trema-go/trema/timer"
)

// Coordinator holds the process-wide lifecycle state. All mutation is
// serialised by mu; sync.Mutex is not reentrant, so no method calls
// another locking method while it holds mu.
type Coordinator struct {
	mu sync.Mutex

	initialized    bool
	started        bool
	runAsDaemon    bool
	name           string
	executableName string
	home           string
	tmp            string

	usage func(executableName string) string

	log *logger.Logger
	st  *stat.Sink
	tm  *timer.Timer
	msg *messenger.Messenger
	ofa ofapi.Collaborator

	settings *config.Store

	stopSignals func()
	handler     messenger.Handler
}

// Settings exposes the coordinator's live configuration store, so
// operators or adjacent subsystems can read or subscribe to changes
// in the resolved name/home/tmp/daemon state without reaching into
// the coordinator's own lock.
func (c *Coordinator) Settings() *config.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// New constructs an uninitialised Coordinator. ofa may be nil, in
// which case ofapi.Noop{} is used.
func New(ofa ofapi.Collaborator) *Coordinator {
	if ofa == nil {
		ofa = ofapi.Noop{}
	}
	return &Coordinator{
		ofa:      ofa,
		usage:    Usage,
		settings: config.NewStore(),
	}
}

// SetUsage overrides the usage text printed by -h/--help.
func (c *Coordinator) SetUsage(fn func(executableName string) string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = fn
}

// OnMessage registers the application callback the messenger delivers
// inbound buffer.Buffer payloads to. It must be called before Init;
// the handler is wired into the messenger at Init time, matching the
// source's expectation that an application registers its OpenFlow
// message handlers before entering the run loop.
func (c *Coordinator) OnMessage(handler messenger.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Logger returns the coordinator's logger, or nil before Init completes.
// Applications use it from message handlers registered via OnMessage to
// log without standing up a second logger.Logger of their own.
func (c *Coordinator) Logger() *logger.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

// ExecutableName returns the basename argv[0] was resolved to at Init.
func (c *Coordinator) ExecutableName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executableName
}

// Init may be called exactly once while uninitialised. It parses argv
// (stripping recognised options), initialises logging, resolves home
// and temp directories (dying if the temp directory does not exist),
// installs signal handlers, and initialises messenger/stat/timer in
// that fixed order. It returns the application's remaining argv.
func (c *Coordinator) Init(argv []string) ([]string, error) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil, ErrAlreadyRunning
	}

	opts, rest := parseOptions(argv)
	executableName := executableBasename(argv)
	usageFn := c.usage
	c.mu.Unlock()

	if opts.Help {
		fmt.Println(usageFn(executableName))
		os.Exit(0)
	}

	name := opts.Name
	if name == "" {
		name = executableName
	}

	log := logger.New()
	if err := log.Init(name, opts.Daemonize); err != nil {
		return nil, fmt.Errorf("lifecycle: init logging: %w", err)
	}
	if opts.LoggingLevel != "" {
		if err := log.SetLevel(opts.LoggingLevel); err != nil {
			return nil, fmt.Errorf("lifecycle: %w", err)
		}
	}

	home := resolveHome(log.Notice)
	tmp := resolveTmp(home, log.Notice)
	if info, err := os.Stat(tmp); err != nil || !info.IsDir() {
		log.Critical("temp directory %s does not exist", tmp)
		fatal("temp directory %s does not exist", tmp)
		return nil, nil // unreachable: fatal aborts the process (or panics in tests)
	}

	c.mu.Lock()
	c.name = name
	c.executableName = executableName
	c.runAsDaemon = opts.Daemonize
	c.home = home
	c.tmp = tmp
	c.log = log
	settings := c.settings
	c.mu.Unlock()

	settings.Set(map[string]any{
		"name":          name,
		"home":          home,
		"tmp":           tmp,
		"run_as_daemon": opts.Daemonize,
	})

	stopSignals := c.installSignals()

	msg := messenger.New(name, tmp)
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if err := msg.Init(handler); err != nil {
		stopSignals()
		return nil, fmt.Errorf("lifecycle: init messenger: %w", err)
	}
	st := stat.Init()
	tm := timer.Init()

	c.mu.Lock()
	c.stopSignals = stopSignals
	c.st = st
	c.tm = tm
	c.msg = msg
	c.initialized = true
	c.mu.Unlock()

	return rest, nil
}

// Start daemonises if requested, writes the PID file, marks the
// coordinator started, and blocks in the messenger's run loop until
// Stop is called or the run loop exits, at which point it invokes
// Finalize.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	name, tmp, daemon, msg := c.name, c.tmp, c.runAsDaemon, c.msg
	c.mu.Unlock()

	if daemon {
		if err := daemonize(); err != nil {
			return fmt.Errorf("lifecycle: daemonize: %w", err)
		}
	}

	if err := pidfile.Write(tmp, name); err != nil {
		return fmt.Errorf("lifecycle: write pid file: %w", err)
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()

	err := msg.Start()

	_ = c.Finalize()
	return err
}

// Stop signals the messenger to exit its run loop. Safe to call from
// a signal handler goroutine.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	msg := c.msg
	c.mu.Unlock()
	if msg == nil {
		return nil
	}
	return msg.Stop()
}

// Flush pushes any buffered outbound messenger writes, distinct from
// Stop: it does not end the run loop, it only asks the messenger to
// drain what it is currently holding.
func (c *Coordinator) Flush() error {
	c.mu.Lock()
	msg := c.msg
	c.mu.Unlock()
	if msg == nil {
		return ErrNotInitialized
	}
	return msg.Flush()
}

// Finalize tears down subsystems in this order: the OpenFlow
// application interface (if initialised), messenger, stat, timer; it
// then unlinks the PID file and clears initialized.
func (c *Coordinator) Finalize() error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	ofa, msg, st, tm := c.ofa, c.msg, c.st, c.tm
	name, tmp := c.name, c.tmp
	stopSignals := c.stopSignals
	c.mu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if ofa != nil && ofa.IsInitialized() {
		record(ofa.Finalize())
	}
	if msg != nil {
		record(msg.Finalize())
	}
	if st != nil {
		record(st.Finalize())
	}
	if tm != nil {
		record(tm.Finalize())
	}
	record(pidfile.Unlink(tmp, name))

	if stopSignals != nil {
		stopSignals()
	}

	c.mu.Lock()
	c.initialized = false
	c.started = false
	c.name = ""
	c.home = ""
	c.tmp = ""
	c.mu.Unlock()

	return firstErr
}

// SetName replaces the service name. If the process has already
// started, the PID file is renamed from the old to the new name
// atomically; if logging has started, the logger is reinitialised
// with the new identifier. Calling SetName before the coordinator has
// started does not touch any PID file.
func (c *Coordinator) SetName(name string) error {
	c.mu.Lock()
	oldName, started, tmp, log := c.name, c.started, c.tmp, c.log
	c.mu.Unlock()

	if oldName == name {
		return nil
	}

	if started {
		if err := pidfile.Rename(tmp, oldName, name); err != nil {
			return fmt.Errorf("lifecycle: rename pid file: %w", err)
		}
	}
	if log != nil && log.Started() {
		if err := log.Init(name, false); err != nil {
			return fmt.Errorf("lifecycle: reinit logging: %w", err)
		}
	}

	c.mu.Lock()
	c.name = name
	settings := c.settings
	c.mu.Unlock()
	if settings != nil {
		settings.Set(map[string]any{"name": name})
	}
	return nil
}

// GetHome returns the resolved home directory.
func (c *Coordinator) GetHome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.home
}

// GetTmp returns the resolved temp directory.
func (c *Coordinator) GetTmp() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tmp
}

// ProcessFromName reads the PID file for name in the temp directory.
func (c *Coordinator) ProcessFromName(name string) (int, error) {
	c.mu.Lock()
	tmp := c.tmp
	c.mu.Unlock()
	return pidfile.Read(tmp, name)
}

func (c *Coordinator) armStatDump() {
	c.mu.Lock()
	st, tm := c.st, c.tm
	c.mu.Unlock()
	if st == nil || tm == nil {
		return
	}
	tm.SetExternalCallback(func() { st.Dump() })
}

func (c *Coordinator) toggleMessengerDump() {
	c.mu.Lock()
	msg, tmp := c.msg, c.tmp
	c.mu.Unlock()
	if msg == nil {
		return
	}
	if msg.DumpEnabled() {
		_ = msg.StopDump()
		return
	}
	_ = msg.StartDump(tmp, messenger.DefaultDumpServiceName)
}

func executableBasename(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return basename(argv[0])
}
