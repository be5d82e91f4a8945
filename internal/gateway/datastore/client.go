// Package datastore adapts the hosted REST data gateway: row-level CRUD on
// the chats and messages tables exposed by a PostgREST-style API.
package datastore

import (
	"context"
	"fmt"
	"net/http"

	"resty.dev/v3"

	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/utils/httpclients"
	"obrolan/chat-client/internal/utils/platformerrors"
)

const (
	restPrefix = "/rest/v1"

	// Prefer asks the gateway to return the mutated row.
	preferHeader         = "Prefer"
	preferRepresentation = "return=representation"
)

// Client talks to the data gateway. The anon API key authenticates the
// client itself; each call additionally carries the session's bearer
// token, which the gateway's row-level policies require.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// NewClient constructs a data gateway client.
func NewClient(baseURL, apiKey string) *Client {
	client := httpclients.NewClient("DataGatewayClient")
	client.SetBaseURL(baseURL)
	return &Client{http: client, baseURL: baseURL, apiKey: apiKey}
}

var _ chat.DataGateway = (*Client)(nil)

// request builds an authenticated request. Callers guard with
// RequireSession, so the session always carries a token here.
func (c *Client) request(ctx context.Context, session *chat.Session) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetHeader("Authorization", "Bearer "+session.AccessToken).
		SetHeader("Content-Type", "application/json")
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	errorType := platformerrors.ErrorTypeRemote
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		errorType = platformerrors.ErrorTypeUnauthorized
	case http.StatusNotFound:
		errorType = platformerrors.ErrorTypeNotFound
	}
	return platformerrors.NewError(ctx, platformerrors.LayerGateway, errorType,
		fmt.Sprintf("%s: data gateway returned %d", message, resp.StatusCode()), nil)
}

// CreateConversation inserts a chats row. The gateway accepts the
// client-generated id and returns the stored row.
func (c *Client) CreateConversation(ctx context.Context, session *chat.Session, conv *chat.Conversation) (*chat.Conversation, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Conversation
	resp, err := c.request(ctx, session).
		SetHeader(preferHeader, preferRepresentation).
		SetBody(map[string]any{
			"id":      conv.ID,
			"user_id": conv.UserID,
			"alias":   conv.Alias,
			"pinned":  conv.Pinned,
		}).
		SetResult(&rows).
		Post(restPrefix + "/chats")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "create conversation")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "create conversation")
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeRemote, "create conversation: gateway returned no row", nil)
	}
	return &rows[0], nil
}

// GetConversation fetches one chats row by id.
func (c *Client) GetConversation(ctx context.Context, session *chat.Session, chatID string) (*chat.Conversation, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Conversation
	resp, err := c.request(ctx, session).
		SetQueryParam("id", "eq."+chatID).
		SetResult(&rows).
		Get(restPrefix + "/chats")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "get conversation")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "get conversation")
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeNotFound, "conversation not found", nil)
	}
	return &rows[0], nil
}

// ListConversations fetches the owner's chats, newest first. Pinned-first
// presentation ordering is applied by chat.SortConversations.
func (c *Client) ListConversations(ctx context.Context, session *chat.Session, userID string) ([]chat.Conversation, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Conversation
	resp, err := c.request(ctx, session).
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("order", "created_at.desc").
		SetResult(&rows).
		Get(restPrefix + "/chats")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "list conversations")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "list conversations")
	}
	return rows, nil
}

// TogglePin updates the pinned flag and returns the mutated row.
func (c *Client) TogglePin(ctx context.Context, session *chat.Session, chatID string, pinned bool) (*chat.Conversation, error) {
	return c.patchConversation(ctx, session, chatID, map[string]any{"pinned": pinned}, "toggle pin")
}

// RenameConversation updates the display alias and returns the mutated row.
func (c *Client) RenameConversation(ctx context.Context, session *chat.Session, chatID, alias string) (*chat.Conversation, error) {
	return c.patchConversation(ctx, session, chatID, map[string]any{"alias": alias}, "rename conversation")
}

func (c *Client) patchConversation(ctx context.Context, session *chat.Session, chatID string, body map[string]any, op string) (*chat.Conversation, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Conversation
	resp, err := c.request(ctx, session).
		SetHeader(preferHeader, preferRepresentation).
		SetQueryParam("id", "eq."+chatID).
		SetBody(body).
		SetResult(&rows).
		Patch(restPrefix + "/chats")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, op)
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, op)
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeNotFound, op+": conversation not found", nil)
	}
	return &rows[0], nil
}

// DeleteConversation removes a chats row. Passthrough; messages cascade on
// the gateway side.
func (c *Client) DeleteConversation(ctx context.Context, session *chat.Session, chatID string) error {
	if err := chat.RequireSession(ctx, session); err != nil {
		return err
	}

	resp, err := c.request(ctx, session).
		SetQueryParam("id", "eq."+chatID).
		Delete(restPrefix + "/chats")
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "delete conversation")
	}
	if resp.IsError() {
		return c.errorFromResponse(ctx, resp, "delete conversation")
	}
	return nil
}

// AppendMessage inserts a messages row. The gateway assigns the id and the
// authoritative per-conversation sequence.
func (c *Client) AppendMessage(ctx context.Context, session *chat.Session, chatID string, role chat.Role, content string) (*chat.Message, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}
	if !chat.ValidateRole(string(role)) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeValidation, fmt.Sprintf("invalid message role %q", role), nil)
	}

	var rows []chat.Message
	resp, err := c.request(ctx, session).
		SetHeader(preferHeader, preferRepresentation).
		SetBody(map[string]any{
			"chat_id": chatID,
			"role":    role,
			"content": content,
		}).
		SetResult(&rows).
		Post(restPrefix + "/messages")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "append message")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "append message")
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeRemote, "append message: gateway returned no row", nil)
	}
	return &rows[0], nil
}

// ListMessages fetches a conversation's messages ordered by the
// authoritative sequence, ascending. An empty list is valid.
func (c *Client) ListMessages(ctx context.Context, session *chat.Session, chatID string) ([]chat.Message, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Message
	resp, err := c.request(ctx, session).
		SetQueryParam("chat_id", "eq."+chatID).
		SetQueryParam("order", "sequence.asc").
		SetResult(&rows).
		Get(restPrefix + "/messages")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "list messages")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "list messages")
	}
	return rows, nil
}

// GetProfile fetches the profiles row for a user.
func (c *Client) GetProfile(ctx context.Context, session *chat.Session, userID string) (*chat.Profile, error) {
	if err := chat.RequireSession(ctx, session); err != nil {
		return nil, err
	}

	var rows []chat.Profile
	resp, err := c.request(ctx, session).
		SetQueryParam("id", "eq."+userID).
		SetResult(&rows).
		Get(restPrefix + "/profiles")
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "get profile")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "get profile")
	}
	if len(rows) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeNotFound, "profile not found", nil)
	}
	return &rows[0], nil
}

// CreateProfile inserts the profiles row written at signup.
func (c *Client) CreateProfile(ctx context.Context, session *chat.Session, profile *chat.Profile) error {
	if err := chat.RequireSession(ctx, session); err != nil {
		return err
	}

	resp, err := c.request(ctx, session).
		SetBody(profile).
		Post(restPrefix + "/profiles")
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "create profile")
	}
	if resp.IsError() {
		return c.errorFromResponse(ctx, resp, "create profile")
	}
	return nil
}
