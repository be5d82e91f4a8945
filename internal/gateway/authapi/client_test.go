package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/infrastructure/logger"
	"obrolan/chat-client/internal/utils/platformerrors"
)

func accessToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

type profileRecorder struct {
	profiles []chat.Profile
}

func (r *profileRecorder) CreateProfile(ctx context.Context, session *chat.Session, profile *chat.Profile) error {
	r.profiles = append(r.profiles, *profile)
	return nil
}

func TestSignIn(t *testing.T) {
	token := accessToken(t, "user-42")
	var gotPath, gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		json.NewEncoder(w).Encode(TokenSet{AccessToken: token, TokenType: "bearer"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", server.Client(), logger.GetLogger())
	session, err := client.SignIn(context.Background(), "u@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-42", session.UserID)
	assert.Equal(t, token, session.AccessToken)
	assert.Equal(t, "/auth/v1/token?grant_type=password", gotPath)
	assert.Equal(t, "anon-key", gotAPIKey)
}

func TestSignInRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", server.Client(), logger.GetLogger())
	_, err := client.SignIn(context.Background(), "u@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeUnauthorized))
}

func TestSignUpWithImmediateSession(t *testing.T) {
	token := accessToken(t, "user-7")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]string{"id": "user-7"},
			"session": TokenSet{AccessToken: token},
		})
	}))
	defer server.Close()

	profiles := &profileRecorder{}
	client := NewClient(server.URL, "anon-key", server.Client(), logger.GetLogger())
	session, err := client.SignUp(context.Background(), SignUpInput{
		Email:    "u@example.com",
		Password: "secret",
		Username: "u",
		FullName: "U Example",
	}, profiles)
	require.NoError(t, err)
	assert.Equal(t, "user-7", session.UserID)

	require.Len(t, profiles.profiles, 1)
	assert.Equal(t, "user-7", profiles.profiles[0].ID)
	assert.Equal(t, "u", profiles.profiles[0].Username)
}

func TestSignUpFallsBackToPasswordGrant(t *testing.T) {
	token := accessToken(t, "user-9")
	var grantCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/signup":
			// email-confirmation configs return a user but no session
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "user-9"}})
		case "/auth/v1/token":
			grantCalled = true
			json.NewEncoder(w).Encode(TokenSet{AccessToken: token})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", server.Client(), logger.GetLogger())
	session, err := client.SignUp(context.Background(), SignUpInput{
		Email:    "u@example.com",
		Password: "secret",
		Username: "u",
	}, nil)
	require.NoError(t, err)
	assert.True(t, grantCalled)
	assert.Equal(t, "user-9", session.UserID)
}

func TestSignOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", server.Client(), logger.GetLogger())
	err := client.SignOut(context.Background(), &chat.Session{AccessToken: "tok", UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)

	// No session, nothing to revoke.
	assert.NoError(t, client.SignOut(context.Background(), nil))
}
