package lifecycle

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.hybscloud.com/framer"

	"github.com/trema-go/trema/buffer"
)

func TestInitStartStopFinalize(t *testing.T) {
	tmp := t.TempDir()
	unsetEnvForTest(t, envHome)
	t.Setenv(envTmp, tmp)

	c := New(nil)
	rest, err := c.Init([]string{"testapp", "-n", "svc1", "positional"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(rest) != 2 || rest[1] != "positional" {
		t.Errorf("rest = %v, want [testapp positional]", rest)
	}
	if c.GetTmp() != tmp {
		t.Errorf("GetTmp() = %q, want %q", c.GetTmp(), tmp)
	}

	done := make(chan error, 1)
	go func() { done <- c.Start() }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(tmp, "svc1.pid")); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for pid file")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	if _, err := os.Stat(filepath.Join(tmp, "svc1.pid")); !os.IsNotExist(err) {
		t.Error("pid file should be unlinked after Finalize")
	}
}

func TestOnMessageHandlerReceivesDeliveredBuffer(t *testing.T) {
	tmp := t.TempDir()
	unsetEnvForTest(t, envHome)
	t.Setenv(envTmp, tmp)

	received := make(chan []byte, 1)
	c := New(nil)
	c.OnMessage(func(b *buffer.Buffer) {
		received <- append([]byte(nil), b.Data()...)
	})

	if _, err := c.Init([]string{"testapp", "-n", "svc2"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer c.Finalize()

	if c.Logger() == nil {
		t.Fatal("Logger() should be non-nil after Init")
	}

	done := make(chan error, 1)
	go func() { done <- c.Start() }()
	defer func() {
		c.Stop()
		<-done
	}()

	deadline := time.Now().Add(2 * time.Second)
	sockPath := filepath.Join(tmp, "svc2.sock")
	for {
		if _, err := os.Stat(sockPath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for messenger socket")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial messenger socket: %v", err)
	}
	defer conn.Close()
	if _, err := framer.NewWriter(conn).Write([]byte("ping")); err != nil {
		t.Fatalf("write framed message: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != "ping" {
			t.Errorf("handler received %q, want %q", got, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler delivery")
	}
}

func TestInitFailsOnMissingTmpDir(t *testing.T) {
	unsetEnvForTest(t, envHome)
	t.Setenv(envTmp, filepath.Join(t.TempDir(), "does-not-exist"))

	original := dieFunc
	dieFunc = func(format string, args ...any) { panic(fmt.Sprintf(format, args...)) }
	defer func() { dieFunc = original }()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Init to abort fatally for missing temp directory")
		}
	}()

	c := New(nil)
	_, _ = c.Init([]string{"testapp"})
	t.Fatal("unreachable")
}

func TestSetNameBeforeStartIsIdempotentUpdate(t *testing.T) {
	tmp := t.TempDir()
	unsetEnvForTest(t, envHome)
	t.Setenv(envTmp, tmp)

	c := New(nil)
	if _, err := c.Init([]string{"testapp", "-n", "one"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer c.Finalize()

	if err := c.SetName("two"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "one.pid")); !os.IsNotExist(err) {
		t.Error("no pid file should exist before Start")
	}
}
