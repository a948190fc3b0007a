package internal

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestController(stub *StubAssistant) (*ConversationController, *LogStore) {
	store := NewLogStore(NewMemorySlot())
	c := NewConversationController(stub, store, "Hello!", "Sorry, try later.")
	c.now = func() time.Time { return testEpoch }
	return c, store
}

func TestConversationController_Open(t *testing.T) {
	c, _ := newTestController(&StubAssistant{})

	c.Open()
	c.Open()

	want := []Message{{Role: RoleAssistant, Content: "Hello!"}}
	if got := c.Transcript(); !reflect.DeepEqual(got, want) {
		t.Errorf("Transcript() = %+v, want %+v", got, want)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestConversationController_DefaultCopy(t *testing.T) {
	c := NewConversationController(&StubAssistant{}, nil, "", "")
	c.Open()
	if got := c.Transcript()[0].Content; got != DefaultGreeting {
		t.Errorf("greeting = %q, want DefaultGreeting", got)
	}
}

func TestConversationController_SendSuccess(t *testing.T) {
	stub := &StubAssistant{Replies: []string{"Imran knows React."}}
	c, store := newTestController(stub)
	c.Open()

	reply, ok := c.Send(context.Background(), "  What does Imran know?  ")
	if !ok {
		t.Fatal("Send() = false, want true")
	}
	if reply.Role != RoleAssistant || reply.Content != "Imran knows React." {
		t.Errorf("reply = %+v", reply)
	}

	wantTranscript := []Message{
		{Role: RoleAssistant, Content: "Hello!"},
		{Role: RoleUser, Content: "What does Imran know?"},
		{Role: RoleAssistant, Content: "Imran knows React."},
	}
	if got := c.Transcript(); !reflect.DeepEqual(got, wantTranscript) {
		t.Errorf("Transcript() = %+v, want %+v", got, wantTranscript)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}

	logged := store.LoadAll()
	if len(logged) != 1 {
		t.Fatalf("logged %d entries, want 1", len(logged))
	}
	want := NewQuestionLogEntry(testEpoch, "What does Imran know?", "Imran knows React.")
	if !reflect.DeepEqual(logged[0], want) {
		t.Errorf("logged entry = %+v, want %+v", logged[0], want)
	}
}

func TestConversationController_HistoryIncludesTranscript(t *testing.T) {
	stub := &StubAssistant{Replies: []string{"first answer", "second answer"}}
	c, _ := newTestController(stub)
	c.Open()

	c.Send(context.Background(), "first")
	c.Send(context.Background(), "second")

	if stub.CallCount() != 2 {
		t.Fatalf("CallCount() = %d, want 2", stub.CallCount())
	}
	want := []Message{
		{Role: RoleAssistant, Content: "Hello!"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "first answer"},
		{Role: RoleUser, Content: "second"},
	}
	if got := stub.Calls[1]; !reflect.DeepEqual(got, want) {
		t.Errorf("history = %+v, want %+v", got, want)
	}
}

func TestConversationController_IgnoresBlankInput(t *testing.T) {
	tests := []string{"", "   ", "\n\t"}

	for _, input := range tests {
		stub := &StubAssistant{}
		c, store := newTestController(stub)

		if _, ok := c.Send(context.Background(), input); ok {
			t.Errorf("Send(%q) = true, want false", input)
		}
		if stub.CallCount() != 0 {
			t.Errorf("Send(%q) issued %d requests", input, stub.CallCount())
		}
		if len(c.Transcript()) != 0 || store.Len() != 0 {
			t.Errorf("Send(%q) changed state", input)
		}
	}
}

func TestConversationController_FailureUsesFallback(t *testing.T) {
	failures := []error{
		errors.New("connection refused"),
		&AssistantError{StatusCode: 500, Body: "internal"},
		ErrMalformedResponse,
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			stub := &StubAssistant{Errs: []error{failure}}
			c, store := newTestController(stub)

			reply, ok := c.Send(context.Background(), "Are you available?")
			if !ok {
				t.Fatal("Send() = false, want true")
			}
			if reply.Content != "Sorry, try later." {
				t.Errorf("reply = %q, want fallback", reply.Content)
			}

			transcript := c.Transcript()
			if len(transcript) != 2 || transcript[1] != reply {
				t.Errorf("Transcript() = %+v, want user message then fallback", transcript)
			}
			if store.Len() != 0 {
				t.Errorf("failed exchange was logged")
			}
			if c.State() != StateIdle {
				t.Errorf("State() = %v, want idle", c.State())
			}
		})
	}
}

func TestConversationController_SendWhileAwaiting(t *testing.T) {
	stub := &StubAssistant{
		Replies: []string{"done"},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	c, store := newTestController(stub)

	result := make(chan Message, 1)
	go func() {
		reply, _ := c.Send(context.Background(), "first")
		result <- reply
	}()
	<-stub.Started

	if c.State() != StateAwaitingResponse {
		t.Errorf("State() = %v, want awaitingResponse", c.State())
	}
	if _, ok := c.Send(context.Background(), "second"); ok {
		t.Error("Send() while awaiting = true, want false")
	}
	if len(c.Transcript()) != 1 {
		t.Errorf("Transcript() = %+v, want only the first question", c.Transcript())
	}

	close(stub.Release)
	if reply := <-result; reply.Content != "done" {
		t.Errorf("reply = %q, want done", reply.Content)
	}
	if stub.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1", stub.CallCount())
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestConversationController_ResetDropsInFlightReply(t *testing.T) {
	stub := &StubAssistant{
		Replies: []string{"late answer"},
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
	c, store := newTestController(stub)
	c.Open()
	firstSession := c.SessionID()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Send(context.Background(), "question")
	}()
	<-stub.Started

	c.Reset()
	if c.State() != StateAwaitingResponse {
		t.Errorf("State() after Reset() = %v, want awaitingResponse until the request returns", c.State())
	}
	if c.SessionID() == firstSession {
		t.Error("Reset() should start a new session id")
	}

	close(stub.Release)
	<-done

	if got := c.Transcript(); len(got) != 0 {
		t.Errorf("Transcript() = %+v, want the stale reply dropped", got)
	}
	// The exchange itself completed, so it is still logged
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
	if c.State() != StateIdle {
		t.Errorf("State() after the stale reply = %v, want idle", c.State())
	}
}

func TestConversationController_ResetKeepsSingleRequest(t *testing.T) {
	stub := &StubAssistant{
		Replies: []string{"first answer", "second answer"},
		Started: make(chan struct{}, 2),
		Release: make(chan struct{}, 2),
	}
	c, _ := newTestController(stub)
	c.Open()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Send(context.Background(), "first")
	}()
	<-stub.Started

	c.Reset()
	c.Open()
	if _, ok := c.Send(context.Background(), "second"); ok {
		t.Error("Send() while the dismissed request is outstanding should be ignored")
	}
	if got := stub.CallCount(); got != 1 {
		t.Fatalf("CallCount() = %d, want 1 outbound request", got)
	}
	want := []Message{{Role: RoleAssistant, Content: "Hello!"}}
	if got := c.Transcript(); !reflect.DeepEqual(got, want) {
		t.Errorf("Transcript() = %+v, want only the greeting", got)
	}

	stub.Release <- struct{}{}
	<-done

	stub.Release <- struct{}{}
	reply, ok := c.Send(context.Background(), "second")
	if !ok || reply.Content != "second answer" {
		t.Fatalf("Send() after the stale reply = %+v, %v", reply, ok)
	}
	if got := stub.CallCount(); got != 2 {
		t.Errorf("CallCount() = %d, want 2", got)
	}
	if got := c.Transcript(); len(got) != 3 || got[1].Content != "second" {
		t.Errorf("Transcript() = %+v, want greeting, second, answer", got)
	}
}

func TestConversationController_StoreFailureKeepsReply(t *testing.T) {
	stub := &StubAssistant{Replies: []string{"still shown"}}
	store := NewLogStore(failingSlot{NewMemorySlot()})
	c := NewConversationController(stub, store, "", "")

	reply, ok := c.Send(context.Background(), "hi")
	if !ok || reply.Content != "still shown" {
		t.Fatalf("Send() = %+v, %v", reply, ok)
	}
	if got := c.Transcript(); len(got) != 2 || got[1].Content != "still shown" {
		t.Errorf("Transcript() = %+v", got)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestConversationController_ContextCancelled(t *testing.T) {
	stub := &StubAssistant{Release: make(chan struct{})}
	c, store := newTestController(stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, ok := c.Send(ctx, "hi")
	if !ok || reply.Content != "Sorry, try later." {
		t.Errorf("Send() = %+v, %v; want fallback", reply, ok)
	}
	if store.Len() != 0 {
		t.Error("cancelled exchange was logged")
	}
}

func TestConversationState_String(t *testing.T) {
	if StateIdle.String() != "idle" || StateAwaitingResponse.String() != "awaitingResponse" {
		t.Errorf("String() = %q, %q", StateIdle, StateAwaitingResponse)
	}
}
