// Package chat holds the conversation state of the assistant and drives the
// request lifecycle: submit, receive, reset.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
)

// Completer produces a reply for userText on top of history
type Completer interface {
	Complete(ctx context.Context, history []models.Message, userText string) models.CompletionResult
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, history []models.Message, userText string) models.CompletionResult

// Complete calls f
func (f CompleterFunc) Complete(ctx context.Context, history []models.Message, userText string) models.CompletionResult {
	return f(ctx, history, userText)
}

// State is a point-in-time copy of the session
type State struct {
	Messages   []models.Message
	DraftInput string
	IsLoading  bool
}

// ShowQuestions reports whether the canned questions are the current view
func (s State) ShowQuestions() bool {
	return len(s.Messages) == 0
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithFormatter sets the transform applied to raw successful replies
func WithFormatter(f markup.Formatter) Option {
	return func(s *Session) {
		if f != nil {
			s.formatter = f
		}
	}
}

// OnChange registers fn to be called with a snapshot after every mutation.
// fn runs outside the session lock and may read the session.
func OnChange(fn func(State)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// Session is the conversation state store. At most one completion is in flight.
type Session struct {
	completer Completer
	formatter markup.Formatter
	logger    zerolog.Logger
	onChange  func(State)

	mu         sync.Mutex
	messages   []models.Message
	draft      string
	loading    bool
	generation uint64
	inflight   *Call
	closed     bool
}

// NewSession creates an empty session backed by completer
func NewSession(completer Completer, opts ...Option) *Session {
	s := &Session{
		completer: completer,
		formatter: markup.Format,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitUserMessage appends text as a user message and starts a completion.
// It returns nil without touching state when text is blank, a completion is
// already in flight, or the session is closed.
func (s *Session) SubmitUserMessage(ctx context.Context, text string) *Call {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.loading || s.closed {
		s.mu.Unlock()
		return nil
	}

	history := append([]models.Message(nil), s.messages...)
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: text})
	s.draft = ""
	s.loading = true
	s.generation++

	callCtx, cancel := context.WithCancel(ctx)
	call := newCall(s.generation, cancel, s.abandon)
	s.inflight = call
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().
		Str("call_id", call.ID).
		Uint64("generation", call.generation).
		Int("history", len(history)).
		Msg("completion started")
	s.notify(state)

	go s.run(callCtx, call, history, text)

	return call
}

func (s *Session) run(ctx context.Context, call *Call, history []models.Message, text string) {
	result := s.completer.Complete(ctx, history, text)

	s.mu.Lock()
	current := s.inflight == call && call.generation == s.generation
	if !current {
		s.mu.Unlock()
		s.logger.Debug().Str("call_id", call.ID).Msg("discarding stale completion")
		call.resolve(result, true)
		return
	}
	s.inflight = nil
	s.receiveLocked(result)
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().
		Str("call_id", call.ID).
		Bool("success", result.IsSuccess()).
		Msg("completion received")
	s.notify(state)
	call.resolve(result, false)
}

// ReceiveResult appends the assistant message for result and clears loading.
// A call still in flight is superseded and its result discarded.
func (s *Session) ReceiveResult(result models.CompletionResult) {
	s.mu.Lock()
	if s.inflight != nil {
		s.dropInflightLocked()
	}
	s.receiveLocked(result)
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) receiveLocked(result models.CompletionResult) {
	if result.IsSuccess() {
		content := result.Text
		if !result.Formatted() {
			content = s.formatter(content)
		}
		s.messages = append(s.messages, models.Message{
			Role:      models.RoleAssistant,
			Content:   content,
			Formatted: true,
		})
	} else {
		s.logger.Warn().Str("reason", result.Message).Msg("completion failed")
		s.messages = append(s.messages, models.Message{
			Role:    models.RoleAssistant,
			Content: models.ErrorMessagePrefix + result.Message,
		})
	}
	s.loading = false
}

// Reset clears the conversation and the draft. A completion in flight is
// cancelled and its result discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.inflight != nil {
		s.logger.Debug().Str("call_id", s.inflight.ID).Msg("reset cancels completion")
		s.dropInflightLocked()
	}
	s.messages = nil
	s.draft = ""
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// SetDraftInput replaces the pending input text
func (s *Session) SetDraftInput(text string) {
	s.mu.Lock()
	s.draft = text
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// Close cancels any in-flight completion. Later submissions are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.inflight != nil {
		s.dropInflightLocked()
	}
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// abandon is invoked by Call.Cancel
func (s *Session) abandon(call *Call) {
	s.mu.Lock()
	if s.inflight != call {
		s.mu.Unlock()
		return
	}
	s.dropInflightLocked()
	s.loading = false
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// dropInflightLocked detaches the in-flight call so its result is discarded
func (s *Session) dropInflightLocked() {
	s.generation++
	s.inflight.cancel()
	s.inflight = nil
}

// Messages returns a copy of the conversation
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// DraftInput returns the pending input text
func (s *Session) DraftInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// IsLoading reports whether a completion is in flight
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ShowQuestions reports whether the conversation is empty
func (s *Session) ShowQuestions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages) == 0
}

// Snapshot returns a copy of the whole state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{
		Messages:   append([]models.Message(nil), s.messages...),
		DraftInput: s.draft,
		IsLoading:  s.loading,
	}
}

func (s *Session) notify(state State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
