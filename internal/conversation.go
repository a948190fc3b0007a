package internal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ConversationState is the request state of a ConversationController
type ConversationState int

const (
	StateIdle ConversationState = iota
	StateAwaitingResponse
)

func (s ConversationState) String() string {
	if s == StateAwaitingResponse {
		return "awaitingResponse"
	}
	return "idle"
}

// Default conversation copy
const (
	DefaultGreeting        = "Hi! I'm Imran's AI assistant. I can tell you about his skills, experience, and availability. What would you like to know?"
	DefaultFallbackMessage = "I'm having trouble connecting right now. Please try again or contact Imran directly through the contact details on the website."
)

// ConversationController owns the live transcript and at most one in-flight
// assistant request. Successful exchanges are appended to the LogStore.
type ConversationController struct {
	mu         sync.Mutex
	assistant  Assistant
	store      *LogStore
	greeting   string
	fallback   string
	transcript []Message
	state      ConversationState
	generation int
	sessionID  string
	now        func() time.Time
}

// NewConversationController wires a controller to its assistant and log.
// Empty greeting or fallback fall back to the defaults.
func NewConversationController(assistant Assistant, store *LogStore, greeting, fallback string) *ConversationController {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	if fallback == "" {
		fallback = DefaultFallbackMessage
	}
	return &ConversationController{
		assistant: assistant,
		store:     store,
		greeting:  greeting,
		fallback:  fallback,
		state:     StateIdle,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// Open seeds the greeting when the transcript is empty
func (c *ConversationController) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.transcript) == 0 {
		c.transcript = append(c.transcript, Message{Role: RoleAssistant, Content: c.greeting})
		LogDebug("Conversation %s opened", c.sessionID)
	}
}

// Reset dismisses the conversation and drops the transcript. A request
// still in flight keeps the controller awaiting until it returns; its reply
// is not applied to the new transcript.
func (c *ConversationController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = nil
	c.generation++
	c.sessionID = uuid.NewString()
}

// Send submits userText. It reports false, doing nothing, when the text is
// blank or a request is already in flight. Otherwise it blocks until the
// assistant answers and returns the assistant message it appended, which is
// the fallback message when the request failed.
func (c *ConversationController) Send(ctx context.Context, userText string) (Message, bool) {
	question := strings.TrimSpace(userText)

	c.mu.Lock()
	if question == "" || c.state == StateAwaitingResponse {
		c.mu.Unlock()
		return Message{}, false
	}
	history := make([]Message, 0, len(c.transcript)+1)
	history = append(history, c.transcript...)
	history = append(history, Message{Role: RoleUser, Content: question})
	c.transcript = append(c.transcript, Message{Role: RoleUser, Content: question})
	c.state = StateAwaitingResponse
	generation := c.generation
	c.mu.Unlock()

	// The lock is not held across the request
	answer, err := c.assistant.Complete(ctx, history)

	var reply Message
	if err != nil {
		LogError("Chat error: %v", err)
		reply = Message{Role: RoleAssistant, Content: c.fallback}
	} else {
		reply = Message{Role: RoleAssistant, Content: answer}
		c.logExchange(question, answer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	if generation != c.generation {
		LogDebug("Dropping reply for a dismissed conversation")
		return reply, true
	}
	c.transcript = append(c.transcript, reply)
	return reply, true
}

// logExchange persists a completed exchange. Write failures are logged and
// never interrupt the conversation.
func (c *ConversationController) logExchange(question, answer string) {
	if c.store == nil {
		return
	}
	entry := NewQuestionLogEntry(c.now(), question, answer)
	if err := c.store.Append(entry); err != nil {
		LogError("Failed to log question: %v", err)
		return
	}
	LogDebug("Question logged at %s", entry.Timestamp.Format(time.RFC3339Nano))
}

// Transcript returns a copy of the current transcript
func (c *ConversationController) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// State returns the current request state
func (c *ConversationController) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID identifies this transcript locally. It is never sent to the
// assistant endpoint.
func (c *ConversationController) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}
