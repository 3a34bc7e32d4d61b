package shortcode

import (
	"context"
	"fmt"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/jaevor/go-nanoid"
)

// Alphabet is the 62-character space short codes are drawn from.
// 62^8 for the default length makes collisions astronomically rare.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const DefaultLength = 8

// maxAttempts caps collision re-draws so a pathologically full
// registry fails loudly instead of looping forever.
const maxAttempts = 20

// CodeChecker answers whether a code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, shortCode string) (bool, error)
}

// Generator produces registry-unique alphanumeric short codes from a
// cryptographically strong random source.
type Generator struct {
	newCode func() string
	checker CodeChecker
	length  int
}

func NewGenerator(length int, checker CodeChecker) (*Generator, error) {
	if length <= 0 {
		length = DefaultLength
	}
	newCode, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("failed to init code generator: %w", err)
	}
	return &Generator{
		newCode: newCode,
		checker: checker,
		length:  length,
	}, nil
}

func (g *Generator) Length() int {
	return g.length
}

// Generate draws codes until one is free in the registry.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := g.newCode()
		taken, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}
