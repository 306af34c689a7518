package config

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// CredentialEnvVar is the environment variable holding the provider API key.
const CredentialEnvVar = "OPENWEATHER_API_KEY"

// ErrMissingCredential is returned by every lookup while no API key is
// configured.
var ErrMissingCredential = errors.New("missing credential: " + CredentialEnvVar + " is not set")

// Credential is the process-wide provider secret. The value is read once on
// first use; a missing value stays missing until the process restarts.
type Credential struct {
	once   sync.Once
	lookup func() string
	value  string
}

// NewCredential returns a credential read from the given environment variable.
func NewCredential(envVar string) *Credential {
	return &Credential{lookup: func() string { return os.Getenv(envVar) }}
}

// StaticCredential returns a credential with a fixed value.
func StaticCredential(value string) *Credential {
	return &Credential{lookup: func() string { return value }}
}

// Value returns the secret, or ErrMissingCredential when it is empty.
func (c *Credential) Value() (string, error) {
	c.once.Do(func() {
		c.value = strings.TrimSpace(c.lookup())
	})
	if c.value == "" {
		return "", ErrMissingCredential
	}
	return c.value, nil
}
