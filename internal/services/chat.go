package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/noteable-backend/internal/clients/openai"
	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/rag"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/types"
)

const chatSystemPrompt = `You are an intelligent AI assistant helping the user based on their notes. You have access to relevant context from the user's earlier notes.

Use that context to give more relevant and personal answers. If the context contains relevant information, refer to it. If not, answer from general knowledge.

Always be concrete, useful and personal.`

// chatFallbackReply is returned whenever the completion call fails; the
// chat never surfaces an error to the user.
const chatFallbackReply = "Sorry, I could not answer your question right now. Please try again later."

// ChatService answers questions grounded in the user's notes: the query
// is ranked against the corpus and the top results become the prompt
// context (the RAG step).
type ChatService interface {
	Ask(ctx context.Context, question string) (string, []types.RelevanceResult, error)
	History() []types.ChatMessage
}

type chatService struct {
	log      *logger.Logger
	ai       openai.Client
	notes    NoteService
	searcher *rag.Searcher

	mu      sync.Mutex
	history []types.ChatMessage
}

func NewChatService(baseLog *logger.Logger, ai openai.Client, notes NoteService, searcher *rag.Searcher) ChatService {
	return &chatService{
		log:      baseLog.With("service", "ChatService"),
		ai:       ai,
		notes:    notes,
		searcher: searcher,
	}
}

func (s *chatService) Ask(ctx context.Context, question string) (string, []types.RelevanceResult, error) {
	s.appendMessage(question, true)

	corpus, err := s.notes.List(ctx, repos.NoteListFilter{})
	if err != nil {
		s.log.Warn("Could not load corpus for chat, answering without context", "error", err)
		corpus = nil
	}
	results := s.searcher.Search(question, corpus)
	contextString := rag.BuildContext(results)

	reply, err := s.ai.Complete(ctx, openai.CompletionRequest{
		System:      chatSystemPrompt,
		User:        question + contextString,
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Warn("Chat completion failed, returning fallback reply", "error", err)
		reply = chatFallbackReply
	}

	s.appendMessage(reply, false)
	return reply, results, nil
}

func (s *chatService) History() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *chatService) appendMessage(text string, isUser bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: time.Now(),
	})
}
