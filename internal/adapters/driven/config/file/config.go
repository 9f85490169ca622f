// Package file loads qontosync configuration from a TOML file with
// environment variable overrides. The file is optional; a fully
// env-configured deployment needs no file at all.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// Backend kinds selectable in configuration.
const (
	KindAuto  = "auto"
	KindLocal = "local"
	KindDrive = "drive"
	KindS3    = "s3"
)

// Config is the full application configuration.
type Config struct {
	Qonto   QontoConfig   `toml:"qonto"`
	Backend BackendConfig `toml:"backend"`
	Local   LocalConfig   `toml:"local"`
	Drive   DriveConfig   `toml:"drive"`
	S3      S3Config      `toml:"s3"`
	Slack   SlackConfig   `toml:"slack"`
	Policy  PolicyConfig  `toml:"policy"`
	Sync    SyncConfig    `toml:"sync"`
}

// QontoConfig carries the API credentials.
type QontoConfig struct {
	Login         string `toml:"login"`
	Secret        string `toml:"secret"`
	BankAccountID string `toml:"bank_account_id"`
}

// BackendConfig selects the destination store.
type BackendConfig struct {
	// Kind is auto, local, drive or s3. Auto picks drive when Drive is
	// configured, then s3 when a bucket is configured, then local.
	Kind string `toml:"kind"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	Dir string `toml:"dir"`
}

// DriveConfig configures the Google Drive backend.
type DriveConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	FolderID        string `toml:"folder_id"`
}

// S3Config configures the object store backend.
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// SlackConfig configures the notifier.
type SlackConfig struct {
	WebhookURL string `toml:"webhook_url"`
	MaxLines   int    `toml:"max_lines"`
}

// PolicyConfig configures the reconciler's exemption hook.
type PolicyConfig struct {
	RefreshNamePatterns []string `toml:"refresh_name_patterns"`
	RenameExemptMarker  string   `toml:"rename_exempt_marker"`
	PruneMissing        bool     `toml:"prune_missing"`
}

// SyncConfig configures run execution.
type SyncConfig struct {
	Workers int `toml:"workers"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".qontosync", "config.toml")
}

// Load reads path (when it exists), applies environment overrides and
// validates the result. A missing file is fine; malformed TOML or missing
// credentials are fatal configuration errors.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Backend: BackendConfig{Kind: KindAuto},
		Local:   LocalConfig{Dir: "receipts_sync"},
		Slack:   SlackConfig{MaxLines: 30},
		Policy: PolicyConfig{
			RefreshNamePatterns: []string{"invoice-"},
			RenameExemptMarker:  "Qonto",
		},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Env-only configuration.
	case err != nil:
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfig, path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrConfig, path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Qonto.Login == "" || cfg.Qonto.Secret == "" || cfg.Qonto.BankAccountID == "" {
		return nil, fmt.Errorf(
			"%w: qonto login, secret and bank_account_id must be set (config file or QONTO_* env)",
			domain.ErrConfig)
	}
	return cfg, nil
}

// applyEnv lets environment variables override file values. The names
// match what the original deployment scripts already export.
func applyEnv(cfg *Config) {
	setString(&cfg.Qonto.Login, "QONTO_LOGIN")
	setString(&cfg.Qonto.Secret, "QONTO_SECRET")
	setString(&cfg.Qonto.BankAccountID, "QONTO_BANK_ACCOUNT_ID")

	setString(&cfg.Drive.CredentialsPath, "GOOGLE_CREDENTIALS_PATH")
	setString(&cfg.Drive.FolderID, "GOOGLE_DRIVE_FOLDER_ID")

	setString(&cfg.S3.Bucket, "QONTOSYNC_S3_BUCKET")
	setString(&cfg.S3.Prefix, "QONTOSYNC_S3_PREFIX")
	setString(&cfg.S3.Region, "QONTOSYNC_S3_REGION")
	setString(&cfg.S3.Endpoint, "QONTOSYNC_S3_ENDPOINT")
	setString(&cfg.S3.AccessKey, "QONTOSYNC_S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "QONTOSYNC_S3_SECRET_KEY")

	setString(&cfg.Slack.WebhookURL, "SLACK_WEBHOOK_URL")
	setInt(&cfg.Slack.MaxLines, "SLACK_MAX_LINES")

	setString(&cfg.Backend.Kind, "QONTOSYNC_BACKEND")
}

// ResolveKind turns the auto kind into a concrete backend choice based on
// which destination is configured. Called once at startup; the chosen
// backend is injected, business logic never feature-detects.
func (c *Config) ResolveKind() string {
	if c.Backend.Kind != "" && c.Backend.Kind != KindAuto {
		return c.Backend.Kind
	}
	if c.Drive.CredentialsPath != "" && c.Drive.FolderID != "" {
		return KindDrive
	}
	if c.S3.Bucket != "" {
		return KindS3
	}
	return KindLocal
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
