package domain

import "strings"

type User struct {
	ID           int64
	Username     string // normalised, unique
	Email        string // normalised, unique
	PasswordHash string // argon2id PHC, or legacy bcrypt
	Active       bool
}

// NormalizeUsername is the canonical form usernames are stored and looked
// up in. It is idempotent.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
