package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
	"github.com/Manav-Sonawane/CodeCloud/internal/language"
)

// Session owns one editing session's current state snapshot.
//
// All access goes through its mutex, so concurrent HTTP requests for the
// same session serialize cleanly. Between sessions there is no shared state
// at all. Run is special: the network call happens outside the lock (a slow
// provider must not freeze unrelated transitions), and the running flag
// guarantees at most one run in flight per session.
type Session struct {
	ID string

	mu         sync.Mutex
	state      State
	running    bool
	lastOutput json.RawMessage
	lastError  string
	lastActive time.Time
}

// newSession is called by the Manager; sessions always live in a registry.
func newSession(id string) *Session {
	return &Session{
		ID:         id,
		state:      NewState(),
		lastActive: time.Now(),
	}
}

// Snapshot returns the current state plus the output pane contents.
type Snapshot struct {
	ID         string          `json:"id"`
	State      State           `json:"state"`
	Running    bool            `json:"running"`
	LastOutput json.RawMessage `json:"lastOutput,omitempty"`
	LastError  string          `json:"lastError,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.ID,
		State:      s.state,
		Running:    s.running,
		LastOutput: s.lastOutput,
		LastError:  s.lastError,
	}
}

// apply runs a pure transition under the lock and returns the new snapshot.
func (s *Session) apply(transition func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = transition(s.state)
	return s.state
}

func (s *Session) applyErr(transition func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	next, err := transition(s.state)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// touch records activity for idle eviction. Callers hold the lock.
func (s *Session) touch() {
	s.lastActive = time.Now()
}

func (s *Session) NewFile() State {
	return s.apply(State.NewFile)
}

func (s *Session) SwitchFile(name string) State {
	return s.apply(func(st State) State { return st.SwitchFile(name) })
}

func (s *Session) CloseFile(name string) State {
	return s.apply(func(st State) State { return st.CloseFile(name) })
}

func (s *Session) EditActive(content string) State {
	return s.apply(func(st State) State { return st.EditActive(content) })
}

func (s *Session) SetLanguage(tag string) (State, error) {
	return s.applyErr(func(st State) (State, error) { return st.SetLanguage(tag) })
}

func (s *Session) SetActiveFileLanguage(tag string) (State, error) {
	return s.applyErr(func(st State) (State, error) { return st.SetActiveFileLanguage(tag) })
}

func (s *Session) SetStdin(stdin string) State {
	return s.apply(func(st State) State { return st.SetStdin(stdin) })
}

// Run executes the active file through the gateway.
//
// The active file's language tag is mapped to the provider identifier and
// version index through the language table; the session stdin buffer rides
// along. A second Run while one is in flight fails with ErrConflict — the
// run affordance stays disabled until the provider answers or errors out.
// Success and failure both re-enable it and replace the output pane.
func (s *Session) Run(ctx context.Context, exec executor.Executor) (json.RawMessage, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, &apperror.AppError{Err: apperror.ErrConflict, Message: "a run is already in progress"}
	}

	s.touch()
	file, ok := s.state.ActiveFile()
	if !ok {
		s.mu.Unlock()
		return nil, apperror.ValidationFailed("file", "session has no active file")
	}
	cfg, ok := language.Lookup(file.Language)
	if !ok {
		s.mu.Unlock()
		return nil, apperror.ValidationFailed("language", "active file has an unsupported language")
	}

	req := executor.Request{
		Language:     cfg.ProviderLang,
		VersionIndex: cfg.VersionIndex,
		Code:         file.Content,
		Stdin:        strings.TrimSpace(s.state.Stdin),
	}
	s.running = true
	s.mu.Unlock()

	// Network round trip happens without the lock; other transitions on
	// this session stay responsive while the provider works.
	result, err := exec.Execute(ctx, req)

	s.mu.Lock()
	s.running = false
	if err != nil {
		s.lastOutput = nil
		s.lastError = err.Error()
	} else {
		s.lastOutput = result
		s.lastError = ""
	}
	s.mu.Unlock()

	return result, err
}

// Export describes the active file for a save: the snippet store receives
// exactly these fields. Saving does not mark or bind the buffer — it remains
// an independent, mutable editing surface afterwards.
type Export struct {
	Filename string
	Language string
	Content  string
}

func (s *Session) ExportActive() (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	file, ok := s.state.ActiveFile()
	if !ok {
		return Export{}, apperror.ValidationFailed("file", "session has no active file")
	}
	return Export{Filename: file.Name, Language: file.Language, Content: file.Content}, nil
}

// Download returns the active file's name and its reindented content.
// A name without an extension gets one derived from the file's language.
func (s *Session) Download() (filename, content string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	file, ok := s.state.ActiveFile()
	if !ok {
		return "", "", apperror.ValidationFailed("file", "session has no active file")
	}

	filename = file.Name
	if !strings.Contains(filename, ".") {
		if cfg, ok := language.Lookup(file.Language); ok {
			filename += cfg.Extension
		} else {
			filename += ".txt"
		}
	}

	return filename, Reindent(file.Content, file.Language), nil
}

// idleSince reports the last activity time for eviction sweeps.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
