package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/logger"
)

// Tray posts notifications to a desktop companion listening on localhost.
// The companion announces itself with a "port|pid|secret" lockfile and must
// run as a trana-tray executable.
type Tray struct {
	client      *http.Client
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
	backoff     time.Duration
}

func NewTray() *Tray {
	return &Tray{
		client:      &http.Client{Timeout: 2 * time.Second},
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		backoff:     constants.NotifyRetryDelay,
	}
}

type trayPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func (l trayLock) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(l.Port)
}

func (t *Tray) Notify(text string) error {
	lock, err := t.locate()
	if err != nil {
		return err
	}
	body, err := json.Marshal(trayPayload{Text: text, DurationMs: constants.NotificationDurationMs})
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		retry, err := t.post(lock, body)
		if err == nil || !retry || attempt == constants.NotifyMaxRetries {
			return err
		}
		logger.Debug("Tray notification failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(t.backoff * time.Duration(attempt))
	}
}

// lockDir is where the companion writes its lockfile. Its settings.json
// may move it with settings.lockfile_dir.
func (t *Tray) lockDir() (string, error) {
	base, err := t.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &settings) == nil && settings.Settings.LockfileDir != "" {
		return settings.Settings.LockfileDir, nil
	}
	return dir, nil
}

// locate reads the lockfile and confirms its pid is a live companion.
func (t *Tray) locate() (trayLock, error) {
	dir, err := t.lockDir()
	if err != nil {
		return trayLock{}, err
	}
	data, err := os.ReadFile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return trayLock{}, errors.New("trana-tray is not running")
	}
	lock, err := parseTrayLock(data)
	if err != nil {
		return trayLock{}, err
	}

	proc, err := t.findProcess(lock.PID)
	if err != nil || proc == nil {
		return trayLock{}, fmt.Errorf("no process with PID %d", lock.PID)
	}
	if !strings.HasPrefix(proc.Executable(), constants.TrayExecutablePrefix) {
		return trayLock{}, fmt.Errorf("PID %d belongs to %s, not trana-tray", lock.PID, proc.Executable())
	}
	return lock, nil
}

func parseTrayLock(data []byte) (trayLock, error) {
	fields := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(fields) != 3 {
		return trayLock{}, errors.New("lockfile is malformed: want port|pid|secret")
	}

	port, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return trayLock{}, fmt.Errorf("lockfile port %q is not a number", fields[0])
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("lockfile port %d is out of range", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return trayLock{}, fmt.Errorf("lockfile process ID %q is not a number", fields[1])
	}
	secret := strings.TrimSpace(fields[2])
	if secret == "" {
		return trayLock{}, errors.New("lockfile secret is empty")
	}
	return trayLock{Port: port, PID: pid, Secret: secret}, nil
}

// post sends one request. retry is false when the companion answered with a
// client error, since sending the same request again cannot succeed.
func (t *Tray) post(lock trayLock, body []byte) (retry bool, err error) {
	req, err := http.NewRequest(http.MethodPost, lock.url(), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trana-Secret", lock.Secret)

	res, err := t.client.Do(req)
	if err != nil {
		return true, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return false, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return res.StatusCode >= 500, fmt.Errorf("tray answered %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
