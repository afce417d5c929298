package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/tranaapp/trana/internal/constants"
)

type fakeProcess struct {
	pid        int
	executable string
}

func (p *fakeProcess) Pid() int           { return p.pid }
func (p *fakeProcess) PPid() int          { return 0 }
func (p *fakeProcess) Executable() string { return p.executable }

// newTestTray returns a tray rooted at a temp config dir whose process
// lookup reports exe for every pid.
func newTestTray(t *testing.T, exe string) (*Tray, string) {
	t.Helper()
	base := t.TempDir()
	tray := NewTray()
	tray.configDir = func() (string, error) { return base, nil }
	tray.backoff = time.Millisecond
	tray.findProcess = func(pid int) (ps.Process, error) {
		if exe == "" {
			return nil, nil
		}
		return &fakeProcess{pid: pid, executable: exe}, nil
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return tray, dir
}

func writeLock(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTrayLockDir(t *testing.T) {
	tray, dir := newTestTray(t, "trana-tray")

	got, err := tray.lockDir()
	if err != nil || got != dir {
		t.Errorf("lockDir() = %q, %v, want %q", got, err, dir)
	}

	custom := "/custom/trana/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	if got, _ := tray.lockDir(); got != custom {
		t.Errorf("lockDir() = %q, want %q", got, custom)
	}

	tray.configDir = func() (string, error) { return "", errors.New("no home") }
	if _, err := tray.lockDir(); err == nil {
		t.Error("lockDir() expected error without a config dir")
	}
}

func TestParseTrayLock(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{"two fields", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345| ", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTrayLock([]byte(tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("parseTrayLock(%q) error = %v, want mention of %q", tc.content, err, tc.errPart)
			}
		})
	}

	lock, err := parseTrayLock([]byte(" 8080|12345|s3cret\n"))
	if err != nil {
		t.Fatalf("parseTrayLock() error = %v", err)
	}
	if lock != (trayLock{Port: 8080, PID: 12345, Secret: "s3cret"}) {
		t.Errorf("parseTrayLock() = %+v", lock)
	}
}

func TestTrayLocate(t *testing.T) {
	tray, dir := newTestTray(t, "")
	if _, err := tray.locate(); err == nil || !strings.Contains(err.Error(), "not running") {
		t.Errorf("locate() without lockfile error = %v", err)
	}

	writeLock(t, dir, "8080|12345|s3cret")
	if _, err := tray.locate(); err == nil {
		t.Error("locate() expected error for a missing process")
	}

	tray.findProcess = func(pid int) (ps.Process, error) {
		return &fakeProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := tray.locate(); err == nil || !strings.Contains(err.Error(), "other-app") {
		t.Errorf("locate() with foreign process error = %v", err)
	}

	tray.findProcess = func(pid int) (ps.Process, error) {
		return &fakeProcess{pid: pid, executable: "trana-tray"}, nil
	}
	lock, err := tray.locate()
	if err != nil {
		t.Fatalf("locate() error = %v", err)
	}
	if lock.url() != "http://127.0.0.1:8080" || lock.Secret != "s3cret" {
		t.Errorf("locate() = %+v", lock)
	}
}

// newCompanion serves the tray webhook and counts requests.
func newCompanion(t *testing.T, hits *int32) int {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("X-Trana-Secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var p trayPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if p.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if p.DurationMs != constants.NotificationDurationMs {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())
	return port
}

func TestTrayNotify(t *testing.T) {
	var hits int32
	port := newCompanion(t, &hits)
	tray, dir := newTestTray(t, "trana-tray")

	writeLock(t, dir, fmt.Sprintf("%d|1|s3cret", port))
	if err := tray.Notify("hello"); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Notify() sent %d request(s), want 1", got)
	}

	atomic.StoreInt32(&hits, 0)
	if err := tray.Notify("fail"); err == nil {
		t.Error("Notify() expected error after retries")
	}
	if got := atomic.LoadInt32(&hits); got != constants.NotifyMaxRetries {
		t.Errorf("server errors retried %d times, want %d", got, constants.NotifyMaxRetries)
	}

	atomic.StoreInt32(&hits, 0)
	writeLock(t, dir, fmt.Sprintf("%d|1|wrong", port))
	if err := tray.Notify("hi"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Notify() with wrong secret error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("rejected request sent %d times, want 1", got)
	}
}
