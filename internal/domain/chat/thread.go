package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/infrastructure/logger"
	"obrolan/chat-client/internal/utils/idgen"
	"obrolan/chat-client/internal/utils/platformerrors"
	"obrolan/chat-client/internal/utils/stringutils"
)

// Status is the submission lifecycle state of a thread.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSubmitted Status = "submitted"
	StatusStreaming Status = "streaming"
)

// Snapshot is the observable state handed to the presentation layer.
type Snapshot struct {
	ChatID   string
	Status   Status
	Messages []Message
	Input    string
	Err      string
}

// Listener receives state change notifications. Implemented by the
// presentation layer; may be nil. Callbacks run under the thread's lock and
// must not call back into the thread.
type Listener interface {
	ThreadChanged(Snapshot)
}

// ThreadConfig carries the collaborators and policy for one thread.
type ThreadConfig struct {
	Data         DataGateway
	Completion   CompletionGateway
	Session      *Session
	ChatID       string // empty for a not-yet-created conversation
	DefaultTitle string
	TitleMaxLen  int
	Listener     Listener
}

// Thread owns the message list and submission lifecycle for one
// conversation view. All state changes happen under its lock; gateway calls
// run outside it so a long completion never blocks observers.
type Thread struct {
	mu       sync.Mutex
	data     DataGateway
	compl    CompletionGateway
	session  *Session
	listener Listener
	log      zerolog.Logger

	chatID       string
	defaultTitle string
	titleMaxLen  int

	messages []Message
	input    string
	status   Status
	lastErr  string

	// epoch invalidates in-flight continuations after Cancel
	epoch uint64
}

const (
	defaultTitleMaxLen   = 30
	defaultFallbackTitle = "New Conversation"
)

// NewThread builds a thread for an existing or not-yet-created conversation.
func NewThread(cfg ThreadConfig) *Thread {
	title := cfg.DefaultTitle
	if title == "" {
		title = defaultFallbackTitle
	}
	maxLen := cfg.TitleMaxLen
	if maxLen <= 0 {
		maxLen = defaultTitleMaxLen
	}
	return &Thread{
		data:         cfg.Data,
		compl:        cfg.Completion,
		session:      cfg.Session,
		listener:     cfg.Listener,
		log:          logger.GetLogger(),
		chatID:       cfg.ChatID,
		defaultTitle: title,
		titleMaxLen:  maxLen,
		status:       StatusIdle,
	}
}

// Snapshot returns a copy of the observable state.
func (t *Thread) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Thread) snapshotLocked() Snapshot {
	messages := make([]Message, len(t.messages))
	copy(messages, t.messages)
	return Snapshot{
		ChatID:   t.chatID,
		Status:   t.status,
		Messages: messages,
		Input:    t.input,
		Err:      t.lastErr,
	}
}

func (t *Thread) notifyLocked() {
	if t.listener != nil {
		t.listener.ThreadChanged(t.snapshotLocked())
	}
}

// SetInput updates the input buffer.
func (t *Thread) SetInput(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = text
}

// ChatID returns the conversation id, empty before the first submission of
// a new conversation.
func (t *Thread) ChatID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.chatID
}

// LoadHistory replaces the local list with the gateway's authoritative
// ordered list. Called on view mount.
func (t *Thread) LoadHistory(ctx context.Context) error {
	if err := RequireSession(ctx, t.session); err != nil {
		return err
	}
	t.mu.Lock()
	chatID := t.chatID
	t.mu.Unlock()
	if chatID == "" {
		return nil
	}

	list, err := t.data.ListMessages(ctx, t.session, chatID)
	if err != nil {
		t.surfaceError(err)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = list
	t.notifyLocked()
	return nil
}

// Cancel force-returns the thread to idle from submitted or streaming.
// In-flight gateway calls are not aborted, but their results are discarded
// when they resolve against a newer epoch.
func (t *Thread) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusIdle {
		return
	}
	t.epoch++
	t.status = StatusIdle
	t.notifyLocked()
}

// Submit runs one full submission cycle against an existing conversation:
// optimistic insert, user-message persistence, completion, assistant
// persistence, reconciliation. Empty input and re-entrant submits are
// no-ops. All failures are surfaced and return the thread to idle; none are
// fatal.
func (t *Thread) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := RequireSession(ctx, t.session); err != nil {
		t.surfaceError(err)
		return err
	}

	t.mu.Lock()
	if t.status != StatusIdle {
		t.mu.Unlock()
		t.log.Debug().Str("chat_id", t.chatID).Msg("submit ignored, submission in flight")
		return nil
	}
	if t.chatID == "" {
		t.mu.Unlock()
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "thread has no conversation, use Start", nil)
	}
	epoch := t.epoch
	chatID := t.chatID
	pending := NewPendingMessage(chatID, text, len(t.messages))
	t.messages = append(t.messages, pending)
	t.input = ""
	t.lastErr = ""
	t.status = StatusSubmitted
	t.notifyLocked()
	t.mu.Unlock()

	return t.runSubmission(ctx, epoch, chatID, pending)
}

// runSubmission executes the strictly ordered persistence and completion
// steps shared by Submit and Start.
func (t *Thread) runSubmission(ctx context.Context, epoch uint64, chatID string, pending Message) error {
	// Persist the user message. Completion is gated on success: an
	// unconfirmed message never reaches the model.
	if _, err := t.data.AppendMessage(ctx, t.session, chatID, RoleUser, pending.Content); err != nil {
		t.failSubmission(epoch, err)
		return err
	}

	if !t.advance(epoch, StatusStreaming) {
		return nil
	}

	history := History(t.messagesCopy())
	reply, err := t.compl.RequestCompletion(ctx, history)
	if err != nil {
		t.failSubmission(epoch, err)
		return err
	}

	// A cancel during the completion invalidates the reply entirely: it
	// must not reach the store either.
	if t.stale(epoch) {
		return nil
	}

	assistant, err := t.data.AppendMessage(ctx, t.session, chatID, RoleAssistant, reply)
	if err != nil {
		t.failSubmission(epoch, err)
		return err
	}

	t.reconcile(ctx, epoch, chatID, pending, *assistant)
	return nil
}

// reconcile replaces the local list with the gateway's authoritative rows.
// When the re-fetch fails it falls back to a synthesized list so the UI
// never regresses to empty.
func (t *Thread) reconcile(ctx context.Context, epoch uint64, chatID string, pending, assistant Message) {
	list, err := t.data.ListMessages(ctx, t.session, chatID)
	if err != nil || len(list) == 0 {
		if err != nil {
			t.log.Warn().Err(err).Str("chat_id", chatID).Msg("reconcile fetch failed, using synthesized list")
		}
		list = []Message{pending, assistant}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if epoch != t.epoch {
		return
	}
	t.messages = list
	t.status = StatusIdle
	t.notifyLocked()
}

// failSubmission surfaces a gateway error and returns to idle. The
// optimistic insert stays in place so the user can see what was attempted.
func (t *Thread) failSubmission(epoch uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if epoch != t.epoch {
		return
	}
	t.lastErr = surfaceMessage(err)
	t.status = StatusIdle
	t.log.Warn().Err(err).Str("chat_id", t.chatID).Msg("submission failed")
	t.notifyLocked()
}

func (t *Thread) surfaceError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastErr = surfaceMessage(err)
	t.notifyLocked()
}

// stale reports whether the thread was canceled since the submission with
// the given epoch began.
func (t *Thread) stale(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return epoch != t.epoch
}

// advance moves to the next status unless the epoch moved on.
func (t *Thread) advance(epoch uint64, next Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if epoch != t.epoch {
		return false
	}
	t.status = next
	t.notifyLocked()
	return true
}

func (t *Thread) messagesCopy() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	messages := make([]Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}

func surfaceMessage(err error) string {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Surface()
	}
	return err.Error()
}

// Start runs the first submission of a new conversation: it synthesizes the
// conversation id, derives a title from the completion gateway (falling back
// to the default title on any failure), creates the conversation record and
// its first message, then runs the same completion and reconcile steps as
// Submit. Returns the new conversation id for navigation.
func (t *Thread) Start(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if err := RequireSession(ctx, t.session); err != nil {
		t.surfaceError(err)
		return "", err
	}

	t.mu.Lock()
	if t.status != StatusIdle {
		t.mu.Unlock()
		return "", nil
	}
	if t.chatID != "" {
		t.mu.Unlock()
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "thread already has a conversation, use Submit", nil)
	}
	epoch := t.epoch
	t.input = ""
	t.lastErr = ""
	t.status = StatusSubmitted
	t.notifyLocked()
	t.mu.Unlock()

	chatID, err := idgen.GenerateSecureID("chat", 16)
	if err != nil {
		wrapped := platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate conversation id")
		t.failSubmission(epoch, wrapped)
		return "", wrapped
	}

	// Title generation must not block conversation creation.
	alias := t.deriveTitle(ctx, text)

	conv := &Conversation{ID: chatID, Alias: alias, UserID: t.session.UserID}
	created, err := t.data.CreateConversation(ctx, t.session, conv)
	if err != nil {
		t.failSubmission(epoch, err)
		return "", err
	}

	t.mu.Lock()
	if epoch != t.epoch {
		t.mu.Unlock()
		return "", nil
	}
	t.chatID = created.ID
	pending := NewPendingMessage(created.ID, text, len(t.messages))
	t.messages = append(t.messages, pending)
	t.notifyLocked()
	t.mu.Unlock()

	if err := t.runSubmission(ctx, epoch, created.ID, pending); err != nil {
		return created.ID, err
	}
	return created.ID, nil
}

func (t *Thread) deriveTitle(ctx context.Context, firstMessage string) string {
	raw, err := t.compl.GenerateTitle(ctx, firstMessage)
	if err != nil {
		t.log.Warn().Err(err).Msg("title generation failed, using default title")
		return t.defaultTitle
	}
	title := stringutils.GenerateTitle(raw, t.titleMaxLen)
	if title == "" {
		return t.defaultTitle
	}
	return title
}
