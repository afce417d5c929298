package suggest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tranaapp/trana/internal/cli"
	"github.com/tranaapp/trana/internal/config"
	"github.com/tranaapp/trana/internal/storage"
	"github.com/tranaapp/trana/internal/storage/factory"
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
		json.NewDecoder(r.Body).Decode(&req)
		if req.Ingredients == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "quota exceeded"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"suggestions": []map[string]string{
				{"title": "Bread Pudding", "description": "Bake stale bread with custard."},
				{"title": "Croutons", "description": "Toast cubes with oil."},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Notifier = "console"
	cfg.APIBaseURL = newBackend(t).URL

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:       storage.NewMemoryStore(),
		DSN:         factory.MemoryDSN,
		Config:      cfg,
		SettingsDir: t.TempDir(),
		Out:         out,
	}, out
}

func TestSuggestAndSave(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&SuggestCmd{Ingredients: []string{"stale", "bread"}}).Run(ctx); err != nil {
		t.Fatalf("SuggestCmd.Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Ideas for stale bread:", "1. Bread Pudding", "2. Croutons", "Badge unlocked"} {
		if !strings.Contains(got, want) {
			t.Errorf("suggest output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&SuggestSaveCmd{Entry: 1, Number: 2}).Run(ctx); err != nil {
		t.Fatalf("SuggestSaveCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), `✓ Saved "Croutons"`) {
		t.Errorf("save output = %q", out.String())
	}

	// The saved suggestion is now the newest entry.
	if err := (&SuggestSaveCmd{Entry: 2, Number: 3}).Run(ctx); err == nil {
		t.Error("SuggestSaveCmd.Run() expected error for an out of range suggestion")
	}

	out.Reset()
	if err := (&SuggestHistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("SuggestHistoryCmd.Run() error = %v", err)
	}
	got = out.String()
	for _, want := range []string{"1. ★ Croutons (from stale bread)", "2. stale bread - 2 idea(s)", "Generated: 1  Saved: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("history output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&SuggestShowCmd{Entry: 2}).Run(ctx); err != nil {
		t.Fatalf("SuggestShowCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Toast cubes with oil.") {
		t.Errorf("show output = %q", out.String())
	}
}

func TestSuggestErrors(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&SuggestCmd{Ingredients: []string{"  "}}).Run(ctx); err == nil {
		t.Error("SuggestCmd.Run() expected error for blank ingredients")
	}
	if err := (&SuggestCmd{Ingredients: []string{"boom"}}).Run(ctx); err == nil {
		t.Error("SuggestCmd.Run() expected error from a failing backend")
	}
	if err := (&SuggestShowCmd{Entry: 1}).Run(ctx); err == nil {
		t.Error("SuggestShowCmd.Run() expected error with empty history")
	}

	out.Reset()
	if err := (&SuggestHistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("SuggestHistoryCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No suggestions yet.") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestSuggestPingCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&SuggestPingCmd{}).Run(ctx); err != nil {
		t.Fatalf("SuggestPingCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "✓ API connection successful") {
		t.Errorf("ping output = %q", out.String())
	}
}
