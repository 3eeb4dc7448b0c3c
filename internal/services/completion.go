package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// CompletionService wraps the hosted chat-completion API with fixed
// generation settings and a bound on in-flight requests.
type CompletionService struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	callTimeout time.Duration
	rateChan    chan struct{} // Concurrency slots
}

func NewCompletionService(apiKey, model string, temperature float32, maxTokens, concurrentReqs int) *CompletionService {
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &CompletionService{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		callTimeout: 60 * time.Second,
		rateChan:    rateChan,
	}
}

// acquireRate blocks until a slot is available
func (s *CompletionService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for completion slot")
	}
}

func (s *CompletionService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Complete sends the ordered message list and returns the first choice's
// text. An empty string return means the provider produced no content;
// the caller decides the fallback.
func (s *CompletionService) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
