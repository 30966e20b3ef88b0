package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
)

// blockingExecutor parks every Execute call until released, so tests can
// hold a run in flight deliberately.
type blockingExecutor struct {
	started chan struct{}
	release chan struct{}
	reqs    []executor.Request
	mu      sync.Mutex
}

func newBlockingExecutor() *blockingExecutor {
	return &blockingExecutor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (e *blockingExecutor) Execute(ctx context.Context, req executor.Request) (json.RawMessage, error) {
	e.mu.Lock()
	e.reqs = append(e.reqs, req)
	e.mu.Unlock()
	e.started <- struct{}{}
	<-e.release
	return json.RawMessage(`{"output":"ok\n"}`), nil
}

// stubExecutor answers immediately.
type stubExecutor struct {
	result json.RawMessage
	err    error
	last   executor.Request
}

func (e *stubExecutor) Execute(ctx context.Context, req executor.Request) (json.RawMessage, error) {
	e.last = req
	return e.result, e.err
}

func TestRun_MapsLanguageAndStdin(t *testing.T) {
	s := newSession("s1")
	s.EditActive("print(input())")
	s.SetStdin("  41\n")

	exec := &stubExecutor{result: json.RawMessage(`{"output":"41\n"}`)}
	out, err := s.Run(context.Background(), exec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if exec.last.Language != "python3" || exec.last.VersionIndex != "3" {
		t.Errorf("provider mapping = %q/%q, want python3/3", exec.last.Language, exec.last.VersionIndex)
	}
	if exec.last.Code != "print(input())" {
		t.Errorf("Code = %q", exec.last.Code)
	}
	if exec.last.Stdin != "41" {
		t.Errorf("Stdin = %q, want trimmed %q", exec.last.Stdin, "41")
	}
	if string(out) != `{"output":"41\n"}` {
		t.Errorf("output = %s", out)
	}

	snap := s.Snapshot()
	if string(snap.LastOutput) != `{"output":"41\n"}` {
		t.Error("run result should replace the output pane")
	}
}

func TestRun_SerializedPerSession(t *testing.T) {
	s := newSession("s1")
	exec := newBlockingExecutor()

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), exec)
		done <- err
	}()
	<-exec.started // first run is now in flight

	// A second run on the same session must be refused, not queued.
	_, err := s.Run(context.Background(), exec)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("overlapping run: want ErrConflict, got %v", err)
	}

	close(exec.release)
	if err := <-done; err != nil {
		t.Fatalf("first run error = %v", err)
	}

	// With the first run finished, the affordance re-enables.
	exec2 := &stubExecutor{result: json.RawMessage(`{}`)}
	if _, err := s.Run(context.Background(), exec2); err != nil {
		t.Errorf("run after completion should succeed, got %v", err)
	}
}

func TestRun_FailureReenablesAndRecordsError(t *testing.T) {
	s := newSession("s1")
	exec := &stubExecutor{err: apperror.ExecutionFailed("provider down")}

	if _, err := s.Run(context.Background(), exec); err == nil {
		t.Fatal("Run() should propagate the executor error")
	}

	snap := s.Snapshot()
	if snap.Running {
		t.Error("failed run must clear the in-flight flag")
	}
	if snap.LastError == "" {
		t.Error("failed run should record the error for the output pane")
	}
	if snap.LastOutput != nil {
		t.Error("failed run should clear the previous output")
	}

	// And the session can run again immediately.
	ok := &stubExecutor{result: json.RawMessage(`{}`)}
	if _, err := s.Run(context.Background(), ok); err != nil {
		t.Errorf("run after failure should succeed, got %v", err)
	}
}

func TestExportActive_IsOneWay(t *testing.T) {
	s := newSession("s1")
	s.EditActive("print('v1')")

	exp, err := s.ExportActive()
	if err != nil {
		t.Fatalf("ExportActive() error = %v", err)
	}
	if exp.Filename != "main.py" || exp.Language != "python3" || exp.Content != "print('v1')" {
		t.Errorf("export = %+v", exp)
	}

	// The buffer stays mutable after a save — no binding, no dirty flag.
	s.EditActive("print('v2')")
	f, _ := s.Snapshot().State.ActiveFile()
	if f.Content != "print('v2')" {
		t.Error("buffer should remain editable after export")
	}
}

func TestDownload_AddsExtensionAndReindents(t *testing.T) {
	s := newSession("s1")
	s.EditActive("def f():\nreturn 1")

	name, content, err := s.Download()
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if name != "main.py" {
		t.Errorf("filename = %q", name)
	}
	if content != "def f():\n    return 1" {
		t.Errorf("content = %q, want reindented body", content)
	}
}

func TestManager_CreateGetAndSweep(t *testing.T) {
	m := NewManagerWithTTL(50 * time.Millisecond)

	stale := m.Create()
	if _, ok := m.Get(stale.ID); !ok {
		t.Fatal("Get() should find a freshly created session")
	}
	if _, ok := m.Get("no-such-id"); ok {
		t.Fatal("Get() should miss unknown IDs")
	}

	time.Sleep(60 * time.Millisecond)
	fresh := m.Create() // sweep happens here

	if _, ok := m.Get(stale.ID); ok {
		t.Error("idle session should have been swept")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session must survive the sweep")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager()
	a := m.Create()
	b := m.Create()

	a.EditActive("a's code")
	exec := newBlockingExecutor()
	done := make(chan struct{})
	go func() {
		a.Run(context.Background(), exec)
		close(done)
	}()
	<-exec.started

	// A run in flight on session a must not block session b at all.
	if _, err := b.Run(context.Background(), &stubExecutor{result: json.RawMessage(`{}`)}); err != nil {
		t.Errorf("session b run failed while a was busy: %v", err)
	}
	fb, _ := b.Snapshot().State.ActiveFile()
	if fb.Content == "a's code" {
		t.Error("sessions must not share file state")
	}

	close(exec.release)
	<-done
}
