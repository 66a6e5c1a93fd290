package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Usecase runs the chat pipeline for one incoming activity: verify the
// caller, retrieve grounding context, generate an answer, then deliver it
// back into the conversation out-of-band. Stages run strictly in order,
// at most once each; a stage failure ends that request and nothing else.
type Usecase struct {
	verifier TokenVerifier
	embedder EmbeddingConnector
	index    VectorIndexConnector
	llm      LLMConnector
	tokens   TokenProvider
	channel  ChannelConnector

	promptTemplate string
	maxTokens      int

	// inferenceSlots bounds concurrent generations to the capacity of the
	// model backend. Requests over capacity queue here instead of
	// exhausting the accelerator.
	inferenceSlots *semaphore.Weighted

	logger *zap.Logger
}

func NewUsecase(
	verifier TokenVerifier,
	embedder EmbeddingConnector,
	index VectorIndexConnector,
	llm LLMConnector,
	tokens TokenProvider,
	channel ChannelConnector,
	promptTemplate string,
	maxTokens int,
	maxConcurrentInference int64,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		verifier:       verifier,
		embedder:       embedder,
		index:          index,
		llm:            llm,
		tokens:         tokens,
		channel:        channel,
		promptTemplate: promptTemplate,
		maxTokens:      maxTokens,
		inferenceSlots: semaphore.NewWeighted(maxConcurrentInference),
		logger:         logger,
	}
}

// Authenticate verifies the inbound bearer token. A false result means the
// pipeline never starts for this request.
func (u *Usecase) Authenticate(ctx context.Context, token string) bool {
	return u.verifier.Verify(ctx, token)
}

// Process runs retrieval, generation, outbound authorization and delivery
// for an already-authenticated activity. The returned error is terminal
// for this request only; the caller logs it and moves on.
func (u *Usecase) Process(ctx context.Context, activity *entity.Activity) error {
	vector, err := u.embedder.Embed(ctx, activity.Text)
	if err != nil {
		return entity.NewRetrievalError(err)
	}

	retrieved, err := u.index.NearestOne(ctx, vector)
	if err != nil {
		return entity.NewRetrievalError(err)
	}

	prompt := BuildPrompt(u.promptTemplate, retrieved.Text, activity.Text)

	answer, err := u.generate(ctx, prompt)
	if err != nil {
		return entity.NewGenerationError(err)
	}

	ctxzap.Info(ctx, "answer generated",
		zap.Int("context_length", len(retrieved.Text)),
		zap.Int("answer_length", len(answer)),
	)

	token, err := u.tokens.Token(ctx)
	if err != nil {
		// Answer is computed but cannot be delivered without a token.
		var stageErr *entity.StageError
		if errors.As(err, &stageErr) {
			return stageErr
		}
		return entity.NewAuthProviderError(err)
	}

	if err := u.channel.Send(ctx, activity, token, answer); err != nil {
		return entity.NewDeliveryError(err)
	}

	return nil
}

func (u *Usecase) generate(ctx context.Context, prompt string) (string, error) {
	if err := u.inferenceSlots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire inference slot: %w", err)
	}
	defer u.inferenceSlots.Release(1)

	return u.llm.Complete(ctx, prompt, u.maxTokens)
}
