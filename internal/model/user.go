// Package model defines the data structures shared across the application.
package model

import "time"

// User represents a registered account.
//
// The primary sign-up path is email + password; GitHubID is set only for
// accounts created (or linked) through the optional GitHub OAuth flow, so it
// is nullable. PasswordHash carries the bcrypt output and must never appear
// in a JSON response — hence the `json:"-"` tag.
//
// The profile fields (age, gender, job role, institution, phone) are optional
// registration extras. They are pointers so "not provided" is distinguishable
// from a zero value, and they serialize as null rather than 0/"".
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     *int64    `json:"githubId,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	JobRole      *string   `json:"jobRole,omitempty"`
	Institution  *string   `json:"institution,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
