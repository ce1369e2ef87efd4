package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

var errUnknownToken = errors.New("unknown bearer token")

// StaticVerifier resolves bearer tokens from a fixed token to user table.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	copied := make(map[string]string, len(tokens))
	for token, user := range tokens {
		token = strings.TrimSpace(token)
		user = strings.TrimSpace(user)
		if token == "" || user == "" {
			continue
		}
		copied[token] = user
	}
	return &StaticVerifier{tokens: copied}
}

func (v *StaticVerifier) Verify(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "verify token", errUnknownToken)
	}
	for known, user := range v.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return user, nil
		}
	}
	return "", domain.WrapError(domain.ErrUnauthorized, "verify token", errUnknownToken)
}
