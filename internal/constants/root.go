package constants

import "time"

const (
	AppName             = "trana"
	DisplayName         = "Trāṇa"
	DefaultKeyringUser  = "database-connection"
	APITokenKeyringUser = "api-token"
	DefaultConfigPath   = "~/.config/trana/trana.db"
	DefaultSettingsFile = "~/.config/trana/config.yaml"
	Version             = "v0.3.0"

	// DateFormat is the date format used for food dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trana-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "trana-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.tranaapp.trana"
	TrayExecutablePrefix   = "trana-tray"

	// Backend defaults
	DefaultAPIBaseURL       = "http://localhost:5000"
	DefaultAPITimeout       = 30 * time.Second
	DefaultAPIRatePerMinute = 30
	DefaultNotifier         = "console"

	// StoreOpTimeout bounds a single call against a network store (redis, mongo)
	StoreOpTimeout = 5 * time.Second
)
