package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognikit/internal/retry"
)

const analysisBody = `{
	"tags":[{"name":"outdoor","confidence":0.99},{"name":"building","confidence":0.95}],
	"categories":[{"name":"building_","score":0.65}],
	"description":{"captions":[{"text":"a large building","confidence":0.92}]},
	"faces":[{"age":30,"gender":"Female","faceRectangle":{"left":10,"top":20,"width":50,"height":50}}],
	"color":{"dominantColors":["Grey","White"],"dominantColorForeground":"Grey",
		"dominantColorBackground":"White","accentColor":"3A6A8C","isBWImg":false},
	"adult":{"isAdultContent":false,"isRacyContent":false,"isGoryContent":false,
		"adultScore":0.01,"racyScore":0.02,"goreScore":0.01}
}`

func fastRetry(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithRetry(fastRetry(1))}, opts...)
	client, err := New(srv.URL, "test-key", opts...)
	require.NoError(t, err)
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = New("https://example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAnalyzeURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vision/v3.2/analyze", r.URL.Path)
		assert.Equal(t, visualFeatures, r.URL.Query().Get("visualFeatures"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com/image.jpg", body["url"])

		w.Write([]byte(analysisBody))
	}))

	analysis, err := client.AnalyzeURL(context.Background(), "https://example.com/image.jpg")
	require.NoError(t, err)

	caption, confidence := analysis.Caption()
	assert.Equal(t, "a large building", caption)
	assert.InDelta(t, 0.92, confidence, 1e-9)
	require.Len(t, analysis.Tags, 2)
	assert.Equal(t, "outdoor", analysis.Tags[0].Name)
	require.Len(t, analysis.Faces, 1)
	assert.Equal(t, 30, analysis.Faces[0].Age)
	assert.Equal(t, []string{"Grey", "White"}, analysis.Color.DominantColors)
	assert.False(t, analysis.Flagged())
}

func TestAnalyzeURLEmpty(t *testing.T) {
	client, err := New("https://example.com", "key")
	require.NoError(t, err)

	_, err = client.AnalyzeURL(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestAnalyzeFile(t *testing.T) {
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	path := filepath.Join(t.TempDir(), "test.jpg")
	require.NoError(t, os.WriteFile(path, imageData, 0o644))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, imageData, got)
		w.Write([]byte(analysisBody))
	}))

	analysis, err := client.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	caption, _ := analysis.Caption()
	assert.Equal(t, "a large building", caption)
}

func TestAnalyzeFileMissing(t *testing.T) {
	client, err := New("https://example.com", "key")
	require.NoError(t, err)

	_, err = client.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestFlagged(t *testing.T) {
	var a Analysis
	assert.False(t, a.Flagged())
	a.Adult.IsRacyContent = true
	assert.True(t, a.Flagged())
}

func TestAPIErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"InvalidImageUrl","message":"image url is not accessible"}}`))
	}), WithRetry(fastRetry(5)))

	_, err := client.AnalyzeURL(context.Background(), "https://example.com/missing.jpg")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "InvalidImageUrl", apiErr.Code)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRateLimitRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(analysisBody))
	}), WithRetry(fastRetry(3)))

	_, err := client.AnalyzeURL(context.Background(), "https://example.com/image.jpg")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}
