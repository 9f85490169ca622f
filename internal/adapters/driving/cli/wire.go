package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/qontosync/internal/adapters/driven/backend/drive"
	"github.com/custodia-labs/qontosync/internal/adapters/driven/backend/local"
	s3backend "github.com/custodia-labs/qontosync/internal/adapters/driven/backend/s3"
	"github.com/custodia-labs/qontosync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qontosync/internal/adapters/driven/notify/slack"
	"github.com/custodia-labs/qontosync/internal/adapters/driven/state"
	"github.com/custodia-labs/qontosync/internal/connectors/qonto"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
	"github.com/custodia-labs/qontosync/internal/core/services"
	"github.com/custodia-labs/qontosync/internal/logger"
)

// loadConfig resolves the config file path and loads it.
func loadConfig() (*file.Config, error) {
	path := flagConfig
	if path == "" {
		path = file.DefaultPath()
	}
	return file.Load(path)
}

// buildBackend constructs the destination chosen by configuration. The
// choice happens here, once, at startup; everything downstream sees only
// the Backend interface.
func buildBackend(ctx context.Context, cfg *file.Config) (driven.Backend, error) {
	kind := cfg.ResolveKind()
	logger.Debug("Using %s backend", kind)

	switch kind {
	case file.KindLocal:
		return local.New(cfg.Local.Dir)
	case file.KindDrive:
		return drive.New(ctx, cfg.Drive.CredentialsPath, cfg.Drive.FolderID)
	case file.KindS3:
		return s3backend.New(ctx, s3backend.Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown backend kind %q", kind)
	}
}

// buildSyncer wires a full run: source client, backend, state store,
// optional notifier, reconciler, orchestrator.
func buildSyncer(ctx context.Context, cfg *file.Config, backend driven.Backend, notify bool, webhookOverride string) *services.Orchestrator {
	source := qonto.NewClient(cfg.Qonto.Login, cfg.Qonto.Secret, cfg.Qonto.BankAccountID)
	states := state.New(backend)

	var notifier driven.Notifier
	if notify {
		webhookURL := webhookOverride
		if webhookURL == "" {
			webhookURL = cfg.Slack.WebhookURL
		}
		if webhookURL == "" {
			logger.Warn("Slack notification requested but no webhook URL configured")
		} else {
			notifier = slack.New(webhookURL, slack.WithMaxLines(cfg.Slack.MaxLines))
		}
	}

	reconciler := services.NewReconciler(services.Policy{
		RefreshNamePatterns: cfg.Policy.RefreshNamePatterns,
		RenameExemptMarker:  cfg.Policy.RenameExemptMarker,
	})

	return services.NewOrchestrator(source, backend, states, notifier, reconciler,
		services.OrchestratorConfig{
			Workers:      cfg.Sync.Workers,
			PruneMissing: cfg.Policy.PruneMissing,
		})
}
