package auth

import "errors"

var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier resolves a bearer token to a user id. Registration, login and
// session issuance live in the external identity provider; the HTTP layer
// only ever needs the current user.
type Verifier interface {
	VerifyToken(token string) (int64, error)
}

// StaticVerifier resolves tokens from a fixed table, typically loaded from
// the configuration file.
type StaticVerifier struct {
	tokens map[string]int64
}

func NewStaticVerifier(tokens map[string]int64) *StaticVerifier {
	if tokens == nil {
		tokens = map[string]int64{}
	}
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) VerifyToken(token string) (int64, error) {
	userId, ok := v.tokens[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	return userId, nil
}

var _ Verifier = (*StaticVerifier)(nil)
