// Package gate implements the maintainer switch: a single shared secret that
// turns the editing mode on. It is a mode switch, not a security boundary.
package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// DefaultSecret is used when no secret is configured.
const DefaultSecret = "admin"

// ErrWrongSecret is returned when the entered secret does not match.
var ErrWrongSecret = errors.New("wrong maintainer secret")

// Prompt asks the user for the secret. ok is false when the user cancels.
type Prompt func() (secret string, ok bool)

// Cost is the bcrypt cost used to hash the configured secret.
var Cost = bcrypt.DefaultCost

// Gate compares input against the configured secret. Only the bcrypt hash
// of the secret is kept in memory.
type Gate struct {
	hash []byte
}

// New creates a gate for secret, or DefaultSecret when empty.
func New(secret string) *Gate {
	if secret == "" {
		secret = DefaultSecret
	}
	// bcrypt only reads 72 bytes; the digest keeps long secrets distinct.
	hash, err := bcrypt.GenerateFromPassword(digest(secret), Cost)
	if err != nil {
		// Only a broken random source gets here. A nil hash never matches.
		return &Gate{}
	}
	return &Gate{hash: hash}
}

// Check reports whether input matches the secret.
func (g *Gate) Check(input string) bool {
	if g.hash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, digest(input)) == nil
}

func digest(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return []byte(hex.EncodeToString(sum[:]))
}

// Toggle returns the mode after a maintainer-toggle request.
// Maintainer drops to Guest without asking. Guest prompts for the secret:
// a match grants Maintainer, a mismatch fails with ErrWrongSecret and a
// cancelled prompt leaves the mode unchanged.
func (g *Gate) Toggle(current core.Mode, prompt Prompt) (core.Mode, error) {
	if current == core.Maintainer {
		return core.Guest, nil
	}
	if prompt == nil {
		return current, nil
	}
	secret, ok := prompt()
	if !ok {
		return current, nil
	}
	if !g.Check(secret) {
		return current, ErrWrongSecret
	}
	return core.Maintainer, nil
}
