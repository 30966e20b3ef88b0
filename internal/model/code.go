package model

import "time"

// Code is a saved snippet: a named, language-tagged source text owned by
// exactly one user. Rows are insert-only — every save creates a new snippet,
// there is no update-in-place.
//
// IDs are the database's AUTOINCREMENT integers (unlike users, which use xid
// strings). Save responses expose the ID as a plain number and the frontend
// treats it as one, so we keep the integer rather than forcing a string key.
type Code struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Filename  string    `json:"filename"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// CodeMeta is the listing projection of a Code: everything except the source
// text, which can be large and is never needed to render the saved-files list.
type CodeMeta struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}
