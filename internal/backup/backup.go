// Package backup writes point-in-time snapshots of every prefixed key to
// rotating JSON files and restores them.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/state"
)

const formatVersion = 1

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Snapshot is the on-disk backup document.
type Snapshot struct {
	Version int                        `json:"version"`
	Prefix  string                     `json:"prefix"`
	Created time.Time                  `json:"created"`
	Source  string                     `json:"source"`
	Keys    map[string]json.RawMessage `json:"keys"`
}

// Manager handles backup operations
type Manager struct {
	store     *state.Store
	backupDir string
	now       func() time.Time
}

// NewManager creates a manager writing into backupDir.
func NewManager(store *state.Store, backupDir string) *Manager {
	return &Manager{
		store:     store,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// DefaultDir places backups next to a file-backed store, or under the
// settings directory for network stores.
func DefaultDir(storePath, settingsDir string, fileBacked bool) string {
	if fileBacked {
		return filepath.Join(filepath.Dir(storePath), constants.BackupDirName)
	}
	return filepath.Join(settingsDir, constants.BackupDirName)
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes a new snapshot and prunes old ones.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps the pre-restore snapshot from evicting the one being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	keys, err := m.store.Snapshot()
	if err != nil {
		return "", fmt.Errorf("failed to read stored data: %w", err)
	}

	now := m.now()
	backupPath, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}

	snap := Snapshot{
		Version: formatVersion,
		Prefix:  m.store.Prefix(),
		Created: now.UTC(),
		Source:  m.store.Provider().GetConfigPath(),
		Keys:    keys,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := writeFileAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Debug("Created backup", "path", backupPath, "keys", len(keys))

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// uniquePath tries minute precision, then seconds, then a counter.
func (m *Manager) uniquePath(now time.Time) (string, error) {
	name := func(ts string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+ts+constants.BackupFileSuffix)
	}

	path := name(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}
	ts := now.Format("20060102-150405")
	path = name(ts)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", ts, counter))
	}
	return path, nil
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		ts, counter, ok := parseName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Counter suffixes were written later within the same second.
		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: ts.Add(time.Duration(counter) * time.Millisecond),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and optional counter from a backup file name.
func parseName(name string) (time.Time, int, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	counter := 0
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		if _, err := fmt.Sscanf(parts[2], "%d", &counter); err != nil {
			return time.Time{}, 0, false
		}
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, counter, true
		}
	}
	return time.Time{}, 0, false
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ReadBackup loads and checks a snapshot file.
func ReadBackup(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("not a backup file: %w", err)
	}
	if snap.Version != formatVersion {
		return nil, fmt.Errorf("unsupported backup version %d", snap.Version)
	}
	if snap.Keys == nil {
		return nil, fmt.Errorf("backup has no keys section")
	}
	return &snap, nil
}

// RestoreBackup replaces the stored data with the snapshot at backupPath.
// The current data is saved first. It returns the pre-restore backup path.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	snap, err := ReadBackup(backupPath)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if snap.Prefix != m.store.Prefix() {
		logger.Warn("Restoring backup written with a different prefix", "backup", snap.Prefix, "current", m.store.Prefix())
	}

	current, err := m.createBackup(true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	keys, err := m.store.Keys()
	if err != nil {
		return current, fmt.Errorf("failed to list current keys: %w", err)
	}
	for _, k := range keys {
		if _, keep := snap.Keys[strings.TrimPrefix(k, m.store.Prefix())]; keep {
			continue
		}
		if err := m.store.RemoveKey(k); err != nil {
			return current, fmt.Errorf("failed to remove %s: %w", k, err)
		}
	}
	if err := m.store.Restore(snap.Keys); err != nil {
		return current, err
	}
	logger.Info("Restored backup", "path", backupPath, "keys", len(snap.Keys))
	return current, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileAtomic writes to a temporary file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
