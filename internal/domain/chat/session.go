package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"obrolan/chat-client/internal/utils/platformerrors"
)

// Session is the bearer credential plus user identity required by every
// gateway call. It is passed explicitly; there is no ambient session store.
type Session struct {
	AccessToken string
	UserID      string
}

// Valid reports whether the session can authenticate a gateway call.
func (s *Session) Valid() bool {
	return s != nil && strings.TrimSpace(s.AccessToken) != "" && strings.TrimSpace(s.UserID) != ""
}

// ErrNoSession signals the caller should redirect to the login flow rather
// than surface an in-page error.
var ErrNoSession = errors.New("no session")

// RequireSession converts a missing or incomplete session into the
// unauthorized error the state machine treats as a redirect.
func RequireSession(ctx context.Context, session *Session) error {
	if !session.Valid() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "user not authenticated", ErrNoSession)
	}
	return nil
}

// SessionFromToken builds a Session from a bearer token, deriving the user
// id from the token's subject claim. The token is not verified here; the
// data gateway is the authority on its validity.
func SessionFromToken(accessToken string) (*Session, error) {
	accessToken = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(accessToken), "Bearer "))
	if accessToken == "" {
		return nil, ErrNoSession
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token has no subject claim")
	}

	return &Session{AccessToken: accessToken, UserID: subject}, nil
}
