package embedder

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
	Task  string   `json:"task"`
}

// embeddingServer answers with vectors whose first element is the input
// length, returned in reverse order to exercise index handling
func embeddingServer(t *testing.T, dim int, status *atomic.Int32, calls *atomic.Int32, seen chan<- apiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if code := status.Load(); code != 0 {
			w.WriteHeader(int(code))
			_, _ = w.Write([]byte(`{"error":"nope"}`))
			return
		}

		var req apiRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if seen != nil {
			seen <- req
		}

		data := make([]map[string]interface{}, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(len(req.Input[i]))
			data = append(data, map[string]interface{}{"index": i, "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"model": req.Model, "data": data})
	}))
}

func testProvider(t *testing.T, url string, cache *Cache) *HTTPProvider {
	t.Helper()
	ep := Endpoints[ProviderJina]
	ep.URL = url
	ep.Dimension = 4
	p, err := NewHTTPProvider(ep, "test-key", cache)
	require.NoError(t, err)
	p.retry = RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return p
}

func TestHTTPProvider_Batch(t *testing.T) {
	var status, calls atomic.Int32
	seen := make(chan apiRequest, 4)
	server := embeddingServer(t, 4, &status, &calls, seen)
	defer server.Close()

	p := testProvider(t, server.URL, NewCache(10))
	defer p.Close()

	resp, err := p.GenerateBatch(context.Background(), BatchEmbeddingRequest{
		Texts:   []string{"a", "bbb"},
		Purpose: PurposeDocument,
	})
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 2)
	assert.Equal(t, float32(1), resp.Embeddings[0].Vector[0], "results follow request order")
	assert.Equal(t, float32(3), resp.Embeddings[1].Vector[0])
	assert.Equal(t, ProviderJina, resp.Provider)

	req := <-seen
	assert.Equal(t, "retrieval.passage", req.Task)
	assert.Equal(t, "jina-embeddings-v3", req.Model)

	// cached texts are not sent again
	resp, err = p.GenerateBatch(context.Background(), BatchEmbeddingRequest{
		Texts:   []string{"a", "cc"},
		Purpose: PurposeDocument,
	})
	require.NoError(t, err)
	assert.Equal(t, float32(2), resp.Embeddings[1].Vector[0])
	req = <-seen
	assert.Equal(t, []string{"cc"}, req.Input)
	assert.Equal(t, int32(2), calls.Load())

	emb, err := p.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "a", Purpose: PurposeQuery})
	require.NoError(t, err)
	assert.Equal(t, float32(1), emb.Vector[0])
	req = <-seen
	assert.Equal(t, "retrieval.query", req.Task, "query purpose is a separate cache entry")
}

func TestHTTPProvider_Errors(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var status, calls atomic.Int32
		status.Store(http.StatusUnauthorized)
		server := embeddingServer(t, 4, &status, &calls, nil)
		defer server.Close()

		_, err := testProvider(t, server.URL, nil).GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "x"})
		assert.ErrorIs(t, err, ErrProviderFailed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server error is retried", func(t *testing.T) {
		var status, calls atomic.Int32
		status.Store(http.StatusServiceUnavailable)
		server := embeddingServer(t, 4, &status, &calls, nil)
		defer server.Close()

		_, err := testProvider(t, server.URL, nil).GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "x"})
		assert.ErrorIs(t, err, ErrProviderFailed)
		assert.Equal(t, int32(MaxRetries), calls.Load())
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		var status, calls atomic.Int32
		server := embeddingServer(t, 8, &status, &calls, nil)
		defer server.Close()

		_, err := testProvider(t, server.URL, nil).GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "x"})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(EnvOpenAIAPIKey, "")
		_, err := NewHTTPProvider(Endpoints[ProviderOpenAI], "", nil)
		assert.ErrorIs(t, err, ErrNoProviderEnabled)
	})
}

func TestLocalProvider(t *testing.T) {
	p, err := NewLocalProvider(NewCache(10))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "AWP Asiimov"})
	require.NoError(t, err)
	assert.Len(t, a.Vector, LocalDimension)
	assert.InDelta(t, 1.0, norm(a.Vector), 1e-5)

	b, _ := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "awp asiimov"})
	assert.Equal(t, a.Vector, b.Vector, "case is ignored")

	typo, _ := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "awp asimov"})
	other, _ := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "karambit doppler"})
	assert.Greater(t, dot(a.Vector, typo.Vector), dot(a.Vector, other.Vector))

	resp, err := p.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, resp.Embeddings, 2)
	assert.Equal(t, LocalModel, resp.Model)

	_, err = p.GenerateEmbedding(ctx, EmbeddingRequest{})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestNormalizeVector(t *testing.T) {
	got := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, NormalizeVector(zero))
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
