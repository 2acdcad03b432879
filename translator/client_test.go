package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognikit/internal/retry"
)

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
	client, err := New(srv.URL, "test-key", "westus2", opts...)
	require.NoError(t, err)
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "key", "region")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = New("https://example.com", "", "region")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = New("https://example.com", "key", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTranslateQueryAndHeaders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "westus2", r.Header.Get("Ocp-Apim-Subscription-Region"))
		assert.NotEmpty(t, r.Header.Get("X-ClientTraceId"))

		query := r.URL.Query()
		assert.Equal(t, "3.0", query.Get("api-version"))
		assert.Equal(t, []string{"es", "fr"}, query["to"])
		assert.Equal(t, "true", query.Get("includeAlignment"))

		var body []struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "Hello", body[0].Text)

		w.Write([]byte(`[{
			"detectedLanguage":{"language":"en","score":1.0},
			"translations":[
				{"text":"Hola","to":"es"},
				{"text":"Bonjour","to":"fr"}
			]
		}]`))
	}))

	results, err := client.Translate(context.Background(), []string{"Hello"}, []string{"es", "fr"},
		Options{IncludeAlignment: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].DetectedLanguage)
	assert.Equal(t, "en", results[0].DetectedLanguage.Language)
	require.Len(t, results[0].Translations, 2)
	assert.Equal(t, "Hola", results[0].Translations[0].Text)
	assert.Equal(t, "fr", results[0].Translations[1].To)
}

func TestTranslateHTMLTextType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "html", r.URL.Query().Get("textType"))
		w.Write([]byte(`[{"translations":[{"text":"<p>Hola</p>","to":"es"}]}]`))
	}))

	results, err := client.Translate(context.Background(), []string{"<p>Hello</p>"}, []string{"es"},
		Options{TextType: "html"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hola</p>", results[0].Translations[0].Text)
}

func TestTranslateValidation(t *testing.T) {
	client, err := New("https://example.com", "key", "region")
	require.NoError(t, err)

	_, err = client.Translate(context.Background(), nil, []string{"es"}, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = client.Translate(context.Background(), []string{" "}, []string{"es"}, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = client.Translate(context.Background(), []string{"Hello"}, nil, Options{})
	assert.ErrorIs(t, err, ErrNoTargetLanguage)
}

func TestDetect(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detect", r.URL.Path)
		w.Write([]byte(`[
			{"language":"en","score":0.98,"alternatives":[{"language":"nl","score":0.02}]},
			{"language":"fr","score":1.0}
		]`))
	}))

	detections, err := client.Detect(context.Background(), []string{"Hello", "Bonjour"})
	require.NoError(t, err)
	require.Len(t, detections, 2)
	assert.Equal(t, "en", detections[0].Language)
	require.Len(t, detections[0].Alternatives, 1)
	assert.Equal(t, "nl", detections[0].Alternatives[0].Language)
	assert.Equal(t, "fr", detections[1].Language)
}

func TestTransliterate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transliterate", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "ja", query.Get("language"))
		assert.Equal(t, "Jpan", query.Get("fromScript"))
		assert.Equal(t, "Latn", query.Get("toScript"))
		w.Write([]byte(`[{"text":"konnichiha","script":"Latn"}]`))
	}))

	results, err := client.Transliterate(context.Background(), []string{"こんにちは"}, "ja", "Jpan", "Latn")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "konnichiha", results[0].Text)
}

func TestLanguages(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/languages", r.URL.Path)
		assert.Equal(t, "translation", r.URL.Query().Get("scope"))
		w.Write([]byte(`{"translation":{
			"en":{"name":"English","nativeName":"English","dir":"ltr"},
			"es":{"name":"Spanish","nativeName":"Español","dir":"ltr"}
		}}`))
	}))

	languages, err := client.Languages(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, languages, 2)
	assert.Equal(t, "Spanish", languages["es"].Name)
}

func TestAPIErrorDecoding(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400036,"message":"The target language is not valid."}}`))
	}))

	_, err := client.Translate(context.Background(), []string{"Hello"}, []string{"zz-invalid"}, Options{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 400036, apiErr.Code)
	assert.Equal(t, "The target language is not valid.", apiErr.Message)
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"translations":[{"text":"Hola","to":"es"}]}]`))
	}), WithRetry(fastRetry(3)))

	results, err := client.Translate(context.Background(), []string{"Hello"}, []string{"es"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Hola", results[0].Translations[0].Text)
	assert.EqualValues(t, 2, calls.Load())
}
