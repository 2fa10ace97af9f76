// Package gemini implements the embedding capability on the Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentgraph/internal/ai"
	"github.com/spigell/talentgraph/internal/utils"
)

const (
	defaultModel      = "text-embedding-004"
	defaultMaxRetries = 3
	batchSize         = 100
	baseDelay         = time.Second
	maxRetryDelay     = 30 * time.Second
	maxLogLength      = 300
)

var (
	wait = utils.WaitFor

	retryAfter = regexp.MustCompile(`retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

var _ ai.Embedder = (*Embedder)(nil)

type embedBackend interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder turns skill names into embedding vectors.
type Embedder struct {
	models     embedBackend
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, model, maxRetries, logger), nil
}

func newEmbedder(models embedBackend, model string, maxRetries int, logger *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{models: models, model: model, maxRetries: maxRetries, logger: logger}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

// EmbedTexts returns one vector per text, in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	var lastErr error
	for attempt := range e.maxRetries {
		resp, err := e.models.EmbedContent(ctx, e.model, contents, nil)
		if err == nil {
			return vectorsOf(resp, len(texts))
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries-1 {
			break
		}

		e.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.String("error", utils.TruncateForLog(err.Error(), maxLogLength)),
		)
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

func vectorsOf(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != want {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", got, want)
	}

	vectors := make([][]float32, 0, want)
	for _, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, errors.New("gemini api returned an empty embedding")
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}

// retryDelay decides whether err is temporary and how long to wait. Quota
// errors asking for a longer pause than maxRetryDelay are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if m := retryAfter.FindStringSubmatch(strings.ToLower(apiErr.Message)); m != nil {
			seconds, _ := strconv.ParseFloat(m[1], 64)
			delay := time.Duration(seconds * float64(time.Second))
			if delay > maxRetryDelay {
				return 0, false
			}
			return delay, true
		}
		return utils.Backoff(attempt, baseDelay, maxRetryDelay), true
	case apiErr.Code >= http.StatusInternalServerError:
		return utils.Backoff(attempt, baseDelay, maxRetryDelay), true
	default:
		return 0, false
	}
}
