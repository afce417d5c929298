package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tranaapp/trana/internal/errors"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/test-connection", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "API connection successful"})
	})
	mux.HandleFunc("/api/suggestions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Ingredients string `json:"ingredients"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch req.Ingredients {
		case "nothing":
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "suggestions": []any{}})
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Gemini quota exceeded"})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"suggestions": []map[string]string{
					{"title": "<b>Banana Bread</b>", "description": "Use  overripe\nbananas &amp; flour."},
					{"title": "Smoothie", "description": "Blend it."},
				},
			})
		}
	})
	mux.HandleFunc("/api/learn", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Topic string `json:"topic"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Topic == "football" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "error",
				"message": "Please enter topics related to food waste, sustainability or cooking.",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"content": map[string]any{
				"title":        "Composting Basics",
				"introduction": "Composting turns scraps into soil.",
				"content":      "<p>Start with a bin.</p>",
				"tips":         []string{"Balance greens and browns"},
				"actionSteps":  []string{"Buy a bin"},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTestConnection(t *testing.T) {
	server := newBackend(t)
	msg, err := New(server.URL).TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "API connection successful", msg)
}

func TestSuggestions(t *testing.T) {
	server := newBackend(t)
	c := New(server.URL+"/", WithRateLimit(600))

	got, err := c.Suggestions(context.Background(), "bananas, flour")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Banana Bread", got[0].Title)
	assert.Equal(t, "Use overripe bananas & flour.", got[0].Description)
}

func TestSuggestionsErrors(t *testing.T) {
	server := newBackend(t)
	c := New(server.URL)

	_, err := c.Suggestions(context.Background(), "nothing")
	assert.ErrorIs(t, err, apperrors.ErrService)

	_, err = c.Suggestions(context.Background(), "boom")
	require.ErrorIs(t, err, apperrors.ErrService)
	var se *apperrors.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "Gemini quota exceeded", se.Message)
	assert.True(t, apperrors.Retryable(err))
}

func TestNetworkFailureIsRetryable(t *testing.T) {
	server := newBackend(t)
	url := server.URL
	server.Close()

	_, err := New(url).TestConnection(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrService)
	assert.True(t, apperrors.Retryable(err))
}

func TestLearnContent(t *testing.T) {
	server := newBackend(t)
	c := New(server.URL, WithToken("secret-token"))

	lc, err := c.LearnContent(context.Background(), "composting")
	require.NoError(t, err)
	assert.Equal(t, "Composting Basics", lc.Title)
	assert.Equal(t, "Start with a bin.", lc.Content)
	assert.Equal(t, []string{"Buy a bin"}, lc.ActionSteps)

	_, err = c.LearnContent(context.Background(), "football")
	require.ErrorIs(t, err, apperrors.ErrService)
	assert.False(t, apperrors.Retryable(err), "off-topic rejection should not be retryable")

	_, err = New(server.URL).LearnContent(context.Background(), "composting")
	assert.ErrorIs(t, err, apperrors.ErrService)
}

func TestCancelledContext(t *testing.T) {
	server := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(server.URL, WithRateLimit(1)).TestConnection(ctx)
	assert.ErrorIs(t, err, apperrors.ErrService)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain", PlainText("  plain "))
	assert.Equal(t, "Tips and tricks", PlainText("<ul><li>Tips</li> <li>and tricks</li></ul>"))
	assert.Equal(t, "fish & chips", PlainText("fish &amp; chips"))
}
