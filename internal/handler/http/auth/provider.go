package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"

	authservice "tnsystems-site/internal/service/auth"
)

// EnvProvider authenticates the site's two fixed accounts from the
// environment: ADMIN_USER/ADMIN_USER_PASSWORD and the optional
// EDITOR_USER/EDITOR_USER_PASSWORD.
type EnvProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

func NewEnvProvider(minPasswordLength int, weakPasswords []string) *EnvProvider {
	return &EnvProvider{minPasswordLength: minPasswordLength, weakPasswords: weakPasswords}
}

type account struct {
	user, pass, role string
}

func (p *EnvProvider) accounts() []account {
	accs := []account{{os.Getenv("ADMIN_USER"), os.Getenv("ADMIN_USER_PASSWORD"), RoleAdmin}}
	if editor := os.Getenv("EDITOR_USER"); editor != "" {
		accs = append(accs, account{editor, os.Getenv("EDITOR_USER_PASSWORD"), RoleEditor})
	}
	return accs
}

func (p *EnvProvider) Verify(_ context.Context, creds authservice.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return errors.New("credentials must not be empty")
	}
	if len(creds.Password) < p.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}
	lower := strings.ToLower(creds.Password)
	for _, weak := range p.weakPasswords {
		if lower == weak || strings.HasPrefix(lower, weak) {
			return errors.New("weak password detected")
		}
	}

	// Compare against every account so timing does not reveal which user exists.
	matched := 0
	for _, a := range p.accounts() {
		if a.user == "" || a.pass == "" {
			continue
		}
		u := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.user))
		pw := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.pass))
		matched |= u & pw
	}
	if matched != 1 {
		return errors.New("invalid credentials")
	}
	return nil
}

// Role maps an authenticated username to its role.
func (p *EnvProvider) Role(_ context.Context, username string) (string, error) {
	if username == "" {
		return "", errors.New("username must not be empty")
	}
	for _, a := range p.accounts() {
		if a.user != "" && subtle.ConstantTimeCompare([]byte(username), []byte(a.user)) == 1 {
			return a.role, nil
		}
	}
	return "", errors.New("user not found")
}

func (p *EnvProvider) Name() string {
	return "env"
}
