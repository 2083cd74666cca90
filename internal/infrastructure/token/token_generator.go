package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenRandomBytes = 32

// TokenLength is the length of a generated token in characters.
const TokenLength = tokenRandomBytes * 2

type TokenGenerator interface {
	Generate() (string, error)
	Validate(token string) bool
}

type tokenGenerator struct{}

func NewTokenGenerator() TokenGenerator {
	return &tokenGenerator{}
}

func (g *tokenGenerator) Generate() (string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}

// Validate reports whether token has the shape of a generated token. It says
// nothing about whether the token is known to any store.
func (g *tokenGenerator) Validate(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
