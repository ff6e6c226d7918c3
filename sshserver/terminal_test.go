package sshserver

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/eventbus"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

type pipeTerminal struct {
	io.Reader
	io.Writer
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func countLines(sess *terminal.Session, content string) int {
	n := 0
	for _, line := range sess.Lines() {
		if line.Content == content {
			n++
		}
	}
	return n
}

func startUI(t *testing.T) (*terminal.Session, *io.PipeWriter, <-chan error) {
	t.Helper()
	bus := eventbus.New(nil)
	sess, err := terminal.NewSession(terminal.SessionOptions{ID: "ui", Sink: bus})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(sess.Close)
	events, unsubscribe := bus.Subscribe("ui")
	t.Cleanup(unsubscribe)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	keysR, keysW := io.Pipe()
	t.Cleanup(func() { _ = keysW.Close() })

	done := make(chan error, 1)
	go func() {
		done <- Attach(ctx, pipeTerminal{Reader: keysR, Writer: io.Discard}, AttachOptions{
			Session: sess,
			Profile: content.DefaultProfile(),
			Events:  events,
			Width:   100,
			Height:  30,
		}, nil)
	}()
	if err := sess.Boot(ctx); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return sess, keysW, done
}

func TestTerminalUIRunsCommandsAndNavigates(t *testing.T) {
	sess, keys, _ := startUI(t)

	if _, err := io.WriteString(keys, "whoami\r"); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return countLines(sess, "$ whoami") == 1 && countLines(sess, "Current user: visitor") == 1
	})

	if _, err := io.WriteString(keys, "ab\t\r"); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	waitFor(t, time.Second, func() bool { return sess.Navigator().Current() == schema.SectionAbout })
	if countLines(sess, "$ about") != 1 {
		t.Fatalf("expected tab completion to submit about, got %+v", sess.Lines())
	}
}

func TestTerminalUIHistoryRecall(t *testing.T) {
	sess, keys, _ := startUI(t)

	if _, err := io.WriteString(keys, "pwd\r"); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	waitFor(t, time.Second, func() bool { return countLines(sess, "$ pwd") == 1 })
	waitFor(t, time.Second, func() bool {
		return len(sess.Lines()) > 0 && sess.Lines()[len(sess.Lines())-1].Kind == schema.LineOutput
	})

	if _, err := io.WriteString(keys, "\x1b[A\r"); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	waitFor(t, time.Second, func() bool { return countLines(sess, "$ pwd") == 2 })
}

func TestTerminalUIQuitsOnCtrlC(t *testing.T) {
	_, keys, done := startUI(t)
	if _, err := io.WriteString(keys, "\x03"); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected UI to exit on Ctrl+C")
	}
}

func TestTerminalUIExitsWhenSessionCloses(t *testing.T) {
	sess, _, done := startUI(t)
	sess.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected UI to exit when the session closes")
	}
}

func TestAttachRequiresSession(t *testing.T) {
	err := Attach(context.Background(), pipeTerminal{Reader: strings.NewReader(""), Writer: io.Discard}, AttachOptions{}, nil)
	if err == nil {
		t.Fatalf("expected error without a session")
	}
}
