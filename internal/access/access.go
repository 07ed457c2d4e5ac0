// Package access resolves a submitted access code to a role and gates
// actions per role. Codes are low-value shared classroom secrets, so
// comparison is plain string equality after normalization — no hashing,
// no constant-time requirement.
package access

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleEditor  Role = "editor"
)

var (
	// ErrInvalidCode means the submitted code matched no configured secret.
	ErrInvalidCode = errors.New("invalid access code")
	// ErrUnauthorized means the code was valid but the role may not perform
	// the requested action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured means the student secret is unset. This is a
	// deployment error, kept distinct from ErrInvalidCode so the UI never
	// blames the user for it.
	ErrNotConfigured = errors.New("access codes not configured")
)

type Config struct {
	StudentCode string
	EditorCode  string // optional
}

// Resolve normalizes both sides by trim + uppercase and returns the role
// for the code. The editor secret is checked first so an editor code that
// collides with student configuration still resolves to editor.
func Resolve(cfg Config, code string) (Role, error) {
	c := normalize(code)
	if cfg.EditorCode != "" && c == normalize(cfg.EditorCode) {
		return RoleEditor, nil
	}
	if normalize(cfg.StudentCode) == "" {
		return "", ErrNotConfigured
	}
	if c == normalize(cfg.StudentCode) {
		return RoleStudent, nil
	}
	return "", ErrInvalidCode
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
