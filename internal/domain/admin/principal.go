// Package admin describes who may change fixtures and trigger syncs.
package admin

import (
	"context"
	"strings"
)

// Principal is a verified Google account.
type Principal struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Verifier turns a bearer token into an allowed admin principal.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (Principal, error)
}

// Allowlist matches emails case-insensitively.
type Allowlist struct {
	emails map[string]struct{}
}

func NewAllowlist(emails []string) Allowlist {
	out := Allowlist{emails: make(map[string]struct{}, len(emails))}
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			out.emails[email] = struct{}{}
		}
	}
	return out
}

func (a Allowlist) Allows(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (a Allowlist) Len() int {
	return len(a.emails)
}
