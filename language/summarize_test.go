package language

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobServer fakes the async jobs API: the POST answers with an
// Operation-Location, the first poll reports running, the second reports
// the terminal payload.
func jobServer(t *testing.T, checkSubmit func(t *testing.T, body []byte), terminal string) *Client {
	t.Helper()

	var polls atomic.Int64
	mux := http.NewServeMux()
	var srv *httptest.Server

	handleSubmit := func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		if checkSubmit != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			checkSubmit(t, body)
		}
		w.Header().Set("Operation-Location", srv.URL+"/jobs/abc123")
		w.WriteHeader(http.StatusAccepted)
	}
	mux.HandleFunc("/language/analyze-text/jobs", handleSubmit)
	mux.HandleFunc("/language/analyze-conversations/jobs", handleSubmit)
	mux.HandleFunc("/jobs/abc123", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		if polls.Add(1) == 1 {
			w.Write([]byte(`{"status":"running","tasks":{"items":[]}}`))
			return
		}
		w.Write([]byte(terminal))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "test-key",
		WithRetry(fastRetry(1)),
		WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	return client
}

func TestExtractiveSummarize(t *testing.T) {
	client := jobServer(t, func(t *testing.T, body []byte) {
		var req analyzeJobRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Tasks, 1)
		assert.Equal(t, "ExtractiveSummarization", req.Tasks[0].Kind)
		params := req.Tasks[0].Parameters.(map[string]any)
		assert.EqualValues(t, 2, params["sentenceCount"])
		assert.Equal(t, "Rank", params["sortBy"])
	}, `{"status":"succeeded","tasks":{"items":[{
		"kind":"ExtractiveSummarizationLROResults","status":"succeeded",
		"results":{"documents":[{"id":"1","sentences":[
			{"text":"First key sentence.","rankScore":0.98,"offset":0,"length":19},
			{"text":"Second key sentence.","rankScore":0.82,"offset":40,"length":20}
		]}],"errors":[]}
	}]}}`)

	text := "A long document about something important."
	result, err := client.ExtractiveSummarize(context.Background(), text, 2, "")
	require.NoError(t, err)
	assert.Equal(t, Extractive, result.Type)
	assert.Equal(t, "First key sentence. Second key sentence.", result.Text)
	require.Len(t, result.Sentences, 2)
	assert.InDelta(t, 0.98, result.Sentences[0].RankScore, 1e-9)
	assert.Equal(t, len(text), result.CharacterCount)
}

func TestExtractiveSummarizeValidation(t *testing.T) {
	client, err := New("https://example.com", "key")
	require.NoError(t, err)

	_, err = client.ExtractiveSummarize(context.Background(), "", 3, SortByRank)
	assert.ErrorIs(t, err, ErrEmptyInput)

	for _, count := range []int{0, -1, 21, 100} {
		_, err = client.ExtractiveSummarize(context.Background(), "some text", count, SortByRank)
		assert.ErrorIs(t, err, ErrSentenceCount, "count %d", count)
	}
}

func TestAbstractiveSummarize(t *testing.T) {
	client := jobServer(t, func(t *testing.T, body []byte) {
		var req analyzeJobRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Tasks, 1)
		assert.Equal(t, "AbstractiveSummarization", req.Tasks[0].Kind)
		params := req.Tasks[0].Parameters.(map[string]any)
		assert.Equal(t, "short", params["summaryLength"])
	}, `{"status":"succeeded","tasks":{"items":[{
		"kind":"AbstractiveSummarizationLROResults","status":"succeeded",
		"results":{"documents":[{"id":"1","summaries":[
			{"text":"A concise retelling of the document."}
		]}],"errors":[]}
	}]}}`)

	result, err := client.AbstractiveSummarize(context.Background(), "A long document.", LengthShort)
	require.NoError(t, err)
	assert.Equal(t, Abstractive, result.Type)
	assert.Equal(t, "A concise retelling of the document.", result.Text)
}

func TestAbstractiveSummarizeValidation(t *testing.T) {
	client, err := New("https://example.com", "key")
	require.NoError(t, err)

	_, err = client.AbstractiveSummarize(context.Background(), "text", "gigantic")
	assert.ErrorIs(t, err, ErrSummaryLength)
}

func TestSummarizeJobFailure(t *testing.T) {
	client := jobServer(t, nil, `{"status":"failed","tasks":{"items":[]}}`)

	_, err := client.ExtractiveSummarize(context.Background(), "some text", 3, SortByRank)
	assert.ErrorIs(t, err, ErrJobFailed)
}

func TestSummarizeConversation(t *testing.T) {
	client := jobServer(t, func(t *testing.T, body []byte) {
		var req conversationJobRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.AnalysisInput.Conversations, 1)
		conv := req.AnalysisInput.Conversations[0]
		assert.Equal(t, "text", conv.Modality)
		require.Len(t, conv.ConversationItems, 2)
		assert.Equal(t, "Agent", conv.ConversationItems[0].Role)
		// one task per default aspect
		require.Len(t, req.Tasks, 3)
		assert.Equal(t, "issue_task", req.Tasks[0].TaskName)
	}, `{"status":"succeeded","tasks":{"items":[
		{"kind":"conversationalSummarizationResults","status":"succeeded",
		 "results":{"conversations":[{"summaries":[{"aspect":"issue","text":"Customer cannot log in."}]}]}},
		{"kind":"conversationalSummarizationResults","status":"succeeded",
		 "results":{"conversations":[{"summaries":[{"aspect":"resolution","text":"Password was reset."}]}]}},
		{"kind":"conversationalSummarizationResults","status":"succeeded",
		 "results":{"conversations":[{"summaries":[{"aspect":"recap","text":"Login issue resolved."}]}]}}
	]}}`)

	summary, err := client.SummarizeConversation(context.Background(), []ConversationItem{
		{Text: "How can I help you?", Role: "Agent", ParticipantID: "Agent_1"},
		{Text: "I cannot log in to my account.", Role: "Customer", ParticipantID: "Customer_1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Customer cannot log in.", summary.Issue)
	assert.Equal(t, "Password was reset.", summary.Resolution)
	assert.Equal(t, "Login issue resolved.", summary.Recap)
}

func TestSummarizeConversationEmpty(t *testing.T) {
	client, err := New("https://example.com", "key")
	require.NoError(t, err)

	_, err = client.SummarizeConversation(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBatchSummarizeDefaults(t *testing.T) {
	client := jobServer(t, func(t *testing.T, body []byte) {
		var req analyzeJobRequest
		require.NoError(t, json.Unmarshal(body, &req))
		params := req.Tasks[0].Parameters.(map[string]any)
		assert.EqualValues(t, 3, params["sentenceCount"])
	}, `{"status":"succeeded","tasks":{"items":[{
		"kind":"ExtractiveSummarizationLROResults","status":"succeeded",
		"results":{"documents":[{"id":"1","sentences":[
			{"text":"The summary.","rankScore":0.9,"offset":0,"length":12}
		]}],"errors":[]}
	}]}}`)

	results, err := client.BatchSummarize(context.Background(), []string{"one document"}, BatchSummaryOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The summary.", results[0].Text)
}
