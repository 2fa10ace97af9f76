package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

type fakeModels struct {
	mu    sync.Mutex
	calls []embedCall
	queue []fakeResponse
}

type embedCall struct {
	model string
	texts []string
}

func (f *fakeModels) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := embedCall{model: model}
	for _, c := range contents {
		call.texts = append(call.texts, c.Parts[0].Text)
	}
	f.calls = append(f.calls, call)

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func embeddings(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func noWait(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &waits
}

func TestEmbedderReturnsVectorsInOrder(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(embeddings([]float32{1, 0}, []float32{0, 1}), nil)

	e := newEmbedder(models, "", 0, zap.NewNop())
	vectors, err := e.EmbedTexts(context.Background(), []string{"go", "rust"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
	if models.calls[0].model != defaultModel {
		t.Fatalf("expected default model, got %q", models.calls[0].model)
	}
	if got := models.calls[0].texts; len(got) != 2 || got[0] != "go" || got[1] != "rust" {
		t.Fatalf("unexpected texts: %v", got)
	}
}

func TestEmbedderRetriesOnTemporaryError(t *testing.T) {
	waits := noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(embeddings([]float32{1}), nil)

	e := newEmbedder(models, "embedding-001", 2, zap.NewNop())
	vectors, err := e.EmbedTexts(context.Background(), []string{"go"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
	if len(*waits) != 1 || (*waits)[0] != baseDelay {
		t.Fatalf("unexpected waits: %v", *waits)
	}
}

func TestEmbedderStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	e := newEmbedder(models, "embedding-001", 2, zap.NewNop())
	if _, err := e.EmbedTexts(context.Background(), []string{"go"}); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestEmbedderDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	e := newEmbedder(models, "embedding-001", 3, zap.NewNop())
	if _, err := e.EmbedTexts(context.Background(), []string{"go"}); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestEmbedderDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	e := newEmbedder(models, "embedding-001", 3, zap.NewNop())
	if _, err := e.EmbedTexts(context.Background(), []string{"go"}); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestEmbedderBatchesLargeInputs(t *testing.T) {
	models := &fakeModels{}
	texts := make([]string, batchSize+1)
	first := make([][]float32, batchSize)
	for i := range texts {
		texts[i] = "skill"
	}
	for i := range first {
		first[i] = []float32{1}
	}
	models.enqueue(embeddings(first...), nil)
	models.enqueue(embeddings([]float32{2}), nil)

	vectors, err := newEmbedder(models, "", 1, nil).EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vectors) != batchSize+1 || vectors[batchSize][0] != 2 {
		t.Fatalf("unexpected vectors: %d", len(vectors))
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestEmbedderRejectsMismatchedResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(embeddings([]float32{1}), nil)

	if _, err := newEmbedder(models, "", 1, nil).EmbedTexts(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error for missing embeddings")
	}
}
