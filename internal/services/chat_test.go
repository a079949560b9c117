package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/noteable-backend/internal/clients/openai"
	"github.com/yungbote/noteable-backend/internal/rag"
)

type recordingAIClient struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []openai.CompletionRequest
}

func (c *recordingAIClient) Complete(_ context.Context, req openai.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	return c.reply, c.err
}

func (c *recordingAIClient) Transcribe(context.Context, []byte, string) (string, error) {
	return "", nil
}

func TestChatAskGroundsReplyInNotes(t *testing.T) {
	f := newNoteFixture(t)
	if _, err := f.svc.Create(context.Background(), CreateNoteInput{Content: "Meeting with John about the project"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ai := &recordingAIClient{reply: "You planned that with John."}
	chat := NewChatService(nopLogger(), ai, f.svc, rag.NewSearcher(nil))

	reply, results, err := chat.Ask(context.Background(), "what did I plan about the project?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "You planned that with John." {
		t.Fatalf("reply = %q", reply)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want the matching note", len(results))
	}

	if len(ai.reqs) != 1 {
		t.Fatalf("completion calls = %d, want 1", len(ai.reqs))
	}
	req := ai.reqs[0]
	if req.System != chatSystemPrompt {
		t.Fatalf("system prompt = %q", req.System)
	}
	if req.MaxTokens != 800 || req.Temperature != 0.7 {
		t.Fatalf("params = %d/%v, want 800/0.7", req.MaxTokens, req.Temperature)
	}
	if !strings.Contains(req.User, "what did I plan about the project?") {
		t.Fatalf("user prompt missing question: %q", req.User)
	}
	if !strings.Contains(req.User, "Meeting with John about the project") {
		t.Fatalf("user prompt missing retrieved note: %q", req.User)
	}

	history := chat.History()
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want 2", len(history))
	}
	if !history[0].IsUser || history[1].IsUser {
		t.Fatalf("history roles wrong: %+v", history)
	}
}

func TestChatAskFallbackReplyOnCompletionError(t *testing.T) {
	f := newNoteFixture(t)
	ai := &recordingAIClient{err: &openai.APIError{StatusCode: 500, Body: "boom"}}
	chat := NewChatService(nopLogger(), ai, f.svc, rag.NewSearcher(nil))

	reply, _, err := chat.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask must not surface completion errors, got %v", err)
	}
	if reply != chatFallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}

	history := chat.History()
	if len(history) != 2 || history[1].Text != chatFallbackReply {
		t.Fatalf("history = %+v", history)
	}
}

func TestChatAskWithoutMatchingContext(t *testing.T) {
	f := newNoteFixture(t)
	ai := &recordingAIClient{reply: "general answer"}
	chat := NewChatService(nopLogger(), ai, f.svc, rag.NewSearcher(nil))

	if _, _, err := chat.Ask(context.Background(), "unrelated question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	// No corpus hits: the prompt is just the question, no context block.
	if got := ai.reqs[0].User; got != "unrelated question" {
		t.Fatalf("user prompt = %q, want bare question", got)
	}
}

func TestChatHistoryReturnsCopy(t *testing.T) {
	f := newNoteFixture(t)
	chat := NewChatService(nopLogger(), &recordingAIClient{reply: "ok"}, f.svc, rag.NewSearcher(nil))

	if _, _, err := chat.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	history := chat.History()
	history[0].Text = "mutated"
	if chat.History()[0].Text != "q" {
		t.Fatalf("History must return a copy")
	}
}
