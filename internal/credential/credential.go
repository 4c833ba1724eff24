// Package credential isolates PIN comparison behind a narrow interface so the
// account never handles the stored secret directly.
package credential

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SchemePlaintext compares PINs as exact strings.
	SchemePlaintext = "plaintext"
	// SchemeBcrypt stores only a bcrypt hash of the PIN.
	SchemeBcrypt = "bcrypt"
)

// ErrUnknownScheme is returned by New for an unsupported scheme name.
var ErrUnknownScheme = errors.New("unknown credential scheme")

// Verifier checks candidate PINs against the stored credential and replaces it.
type Verifier interface {
	Match(candidate string) bool
	Replace(secret string) error
}

// New builds a verifier for the named scheme seeded with the initial PIN.
func New(scheme, initial string) (Verifier, error) {
	switch scheme {
	case "", SchemePlaintext:
		return NewPlaintext(initial), nil
	case SchemeBcrypt:
		return NewBcrypt(initial, bcrypt.DefaultCost)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// Plaintext holds the PIN as-is. Matching is exact and case-sensitive.
type Plaintext struct {
	secret string
}

// NewPlaintext returns a plaintext verifier for secret.
func NewPlaintext(secret string) *Plaintext {
	return &Plaintext{secret: secret}
}

func (p *Plaintext) Match(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(p.secret), []byte(candidate)) == 1
}

// Replace always succeeds; any string, including empty, is accepted.
func (p *Plaintext) Replace(secret string) error {
	p.secret = secret
	return nil
}

// Bcrypt keeps a bcrypt hash of the PIN.
type Bcrypt struct {
	hash []byte
	cost int
}

// NewBcrypt hashes secret at the given cost.
func NewBcrypt(secret string, cost int) (*Bcrypt, error) {
	b := &Bcrypt{cost: cost}
	if err := b.Replace(secret); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bcrypt) Match(candidate string) bool {
	return bcrypt.CompareHashAndPassword(b.hash, []byte(candidate)) == nil
}

// Replace fails only when bcrypt cannot hash the input, e.g. beyond 72 bytes.
func (b *Bcrypt) Replace(secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	b.hash = hash
	return nil
}
