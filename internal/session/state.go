// Package session models the editor session: a set of open files, one active
// selection, a session-level language choice for new files, and the
// orchestration of run, save, and download against the rest of the system.
//
// The state itself is a plain value transformed by pure transition methods —
// each returns a new snapshot and never mutates its receiver. That keeps the
// transition logic trivially testable; Session (session.go) owns the current
// snapshot, serializes access, and handles the two operations that suspend on
// the network (run and save).
package session

import (
	"fmt"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/language"
)

// File is one in-memory editing buffer. Nothing here is persisted — a file
// only reaches the database when the user explicitly saves it as a snippet.
type File struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// State is one snapshot of a session's editing state.
//
// Invariants, maintained by every transition:
//   - Files is never empty
//   - Active always names an existing file
//   - Language is always a supported tag
type State struct {
	Files    []File `json:"files"`
	Active   string `json:"active"`   // name of the active file
	Language string `json:"language"` // language new files are created with
	Stdin    string `json:"stdin"`

	// nextID only ever grows, so generated names can never collide with a
	// name handed out earlier in the session — even after closes.
	nextID int
}

// NewState returns the initial snapshot: a single active file seeded with the
// default language's template, empty stdin.
func NewState() State {
	cfg, _ := language.Lookup(language.DefaultTag)
	name := "main" + cfg.Extension
	return State{
		Files: []File{{
			ID:       1,
			Name:     name,
			Content:  cfg.Template,
			Language: language.DefaultTag,
		}},
		Active:   name,
		Language: language.DefaultTag,
		nextID:   1,
	}
}

// clone deep-copies the snapshot so transitions can build the successor
// without touching the original.
func (s State) clone() State {
	out := s
	out.Files = make([]File, len(s.Files))
	copy(out.Files, s.Files)
	return out
}

// ActiveFile returns the currently active file.
// The bool is false only for a zero-value State that never went through
// NewState.
func (s State) ActiveFile() (File, bool) {
	for _, f := range s.Files {
		if f.Name == s.Active {
			return f, true
		}
	}
	return File{}, false
}

func (s State) hasFile(name string) bool {
	for _, f := range s.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// NewFile appends a file seeded with the selected language's template and
// makes it active. The generated name is "main<N><ext>" where N comes from
// the monotonic counter; taken names are skipped.
func (s State) NewFile() State {
	out := s.clone()
	cfg, _ := language.Lookup(out.Language)

	var name string
	for {
		out.nextID++
		name = fmt.Sprintf("main%d%s", out.nextID, cfg.Extension)
		if !out.hasFile(name) {
			break
		}
	}

	out.Files = append(out.Files, File{
		ID:       out.nextID,
		Name:     name,
		Content:  cfg.Template,
		Language: out.Language,
	})
	out.Active = name
	return out
}

// SwitchFile makes the named file active. Unknown names are a no-op.
func (s State) SwitchFile(name string) State {
	if !s.hasFile(name) || s.Active == name {
		return s
	}
	out := s.clone()
	out.Active = name
	return out
}

// CloseFile removes the named file. Closing the last remaining file is
// refused (no-op): a session always has at least one open buffer. When the
// active file closes, the first file in remaining creation order takes over.
func (s State) CloseFile(name string) State {
	if len(s.Files) <= 1 || !s.hasFile(name) {
		return s
	}

	out := s.clone()
	files := out.Files[:0]
	for _, f := range out.Files {
		if f.Name != name {
			files = append(files, f)
		}
	}
	out.Files = files
	if out.Active == name {
		out.Active = out.Files[0].Name
	}
	return out
}

// EditActive replaces the active file's content. Identity and language are
// untouched.
func (s State) EditActive(content string) State {
	out := s.clone()
	for i := range out.Files {
		if out.Files[i].Name == out.Active {
			out.Files[i].Content = content
			break
		}
	}
	return out
}

// SetLanguage changes the session-level language used for new files. It does
// not retag any open file.
func (s State) SetLanguage(tag string) (State, error) {
	if !language.Supported(tag) {
		return s, apperror.ValidationFailed("language", fmt.Sprintf("unsupported language %q", tag))
	}
	out := s.clone()
	out.Language = tag
	return out, nil
}

// SetActiveFileLanguage retags the active file (and thereby the editing
// surface's highlighting mode). Its content is preserved verbatim.
func (s State) SetActiveFileLanguage(tag string) (State, error) {
	if !language.Supported(tag) {
		return s, apperror.ValidationFailed("language", fmt.Sprintf("unsupported language %q", tag))
	}
	out := s.clone()
	for i := range out.Files {
		if out.Files[i].Name == out.Active {
			out.Files[i].Language = tag
			break
		}
	}
	return out, nil
}

// SetStdin replaces the session-level stdin buffer used by runs.
func (s State) SetStdin(stdin string) State {
	out := s.clone()
	out.Stdin = stdin
	return out
}
