package completionhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/infrastructure/logger"
)

type stubCompletion struct {
	reply   string
	err     error
	history []chat.Turn
}

func (s *stubCompletion) RequestCompletion(ctx context.Context, history []chat.Turn) (string, error) {
	s.history = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompletion) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	return "", errors.New("not used")
}

func newRouter(compl *stubCompletion) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat-completion", NewCompletionHandler(compl, logger.GetLogger()).ChatCompletion)
	return router
}

func post(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/chat-completion", &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestChatCompletion(t *testing.T) {
	compl := &stubCompletion{reply: "Hi there"}
	router := newRouter(compl)

	resp := post(t, router, gin.H{"messages": []chat.Turn{
		{Role: chat.RoleUser, Content: "Hello"},
	}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"response":"Hi there"}`, resp.Body.String())
	require.Len(t, compl.history, 1)
	assert.Equal(t, "Hello", compl.history[0].Content)
}

func TestChatCompletionRejectsEmptyMessages(t *testing.T) {
	router := newRouter(&stubCompletion{})

	resp := post(t, router, gin.H{"messages": []chat.Turn{}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestChatCompletionRejectsUnknownRole(t *testing.T) {
	router := newRouter(&stubCompletion{})

	resp := post(t, router, gin.H{"messages": []chat.Turn{
		{Role: "moderator", Content: "Hello"},
	}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestChatCompletionSurfacesGatewayFailure(t *testing.T) {
	router := newRouter(&stubCompletion{err: errors.New("all credentials exhausted")})

	resp := post(t, router, gin.H{"messages": []chat.Turn{
		{Role: chat.RoleUser, Content: "Hello"},
	}})
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch response"}`, resp.Body.String())
}
