// Package authapi wraps the data gateway's token-issuing endpoints:
// password-grant sign in, signup, and logout.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/utils/platformerrors"
)

// Client wraps interactions with the auth API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs an auth client.
func NewClient(baseURL, apiKey string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// TokenSet bundles token information returned by the auth API.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

type signupResponse struct {
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
	Session *TokenSet `json:"session"`
}

// SignUpInput describes a registration request.
type SignUpInput struct {
	Email    string
	Password string
	Username string
	FullName string
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("apikey", c.apiKey)
	// The anon key authenticates unauthenticated calls to the token endpoint.
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode auth response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// SignIn exchanges credentials for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*chat.Session, error) {
	tokens, err := c.passwordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.sessionFromTokens(ctx, tokens)
}

func (c *Client) passwordGrant(ctx context.Context, email, password string) (*TokenSet, error) {
	var tokens TokenSet
	status, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "sign in")
	}
	if status < 200 || status >= 300 || tokens.AccessToken == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("sign in rejected with status %d", status), nil)
	}
	return &tokens, nil
}

// SignUp registers a user. Some gateway configurations return no session
// from signup (email confirmation flows); in that case a follow-up password
// grant obtains the tokens. The profiles row is written once a session exists.
func (c *Client) SignUp(ctx context.Context, input SignUpInput, profiles ProfileWriter) (*chat.Session, error) {
	var result signupResponse
	status, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", map[string]any{
		"email":    input.Email,
		"password": input.Password,
		"options": map[string]any{
			"data": map[string]string{
				"username":  input.Username,
				"full_name": input.FullName,
			},
		},
	}, &result)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "sign up")
	}
	if status < 200 || status >= 300 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeRemote,
			fmt.Sprintf("sign up rejected with status %d", status), nil)
	}

	var session *chat.Session
	if result.Session != nil && result.Session.AccessToken != "" {
		session, err = c.sessionFromTokens(ctx, result.Session)
	} else {
		c.logger.Warn().Str("email", input.Email).Msg("signup returned no session, retrying with password grant")
		session, err = c.SignIn(ctx, input.Email, input.Password)
	}
	if err != nil {
		return nil, err
	}

	if profiles != nil {
		profile := &chat.Profile{
			ID:       session.UserID,
			Email:    input.Email,
			Username: input.Username,
			FullName: input.FullName,
		}
		if err := profiles.CreateProfile(ctx, session, profile); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "store profile")
		}
	}

	return session, nil
}

// SignOut revokes the session server-side. The caller clears its own
// stored token and user id regardless of the outcome.
func (c *Client) SignOut(ctx context.Context, session *chat.Session) error {
	if !session.Valid() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "sign out")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) sessionFromTokens(ctx context.Context, tokens *TokenSet) (*chat.Session, error) {
	session, err := chat.SessionFromToken(tokens.AccessToken)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeUnauthorized, "access token is not a readable JWT", err)
	}
	return session, nil
}

// ProfileWriter is the slice of the data gateway signup needs.
type ProfileWriter interface {
	CreateProfile(ctx context.Context, session *chat.Session, profile *chat.Profile) error
}

// ProfileStore additionally reads the profile row for the account view.
type ProfileStore interface {
	ProfileWriter
	GetProfile(ctx context.Context, session *chat.Session, userID string) (*chat.Profile, error)
}
