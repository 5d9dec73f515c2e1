// Package cmd provides the CLI commands for foundrysync.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/CePeU/foundrysync/internal/foundry"
	"github.com/CePeU/foundrysync/internal/hierarchy"
	"github.com/CePeU/foundrysync/internal/render"
	"github.com/CePeU/foundrysync/internal/sync"
	"github.com/CePeU/foundrysync/internal/vault"
	"github.com/CePeU/foundrysync/internal/version"
)

var (
	// konfig is the global koanf instance.
	konfig = koanf.New(".")
)

// verboseFlag is the shared verbose flag for all commands.
var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "Enable verbose logging",
}

// LogFormat represents the log output format.
type LogFormat string

const (
	// LogFormatText is the human-readable text format (default).
	LogFormatText LogFormat = "text"
	// LogFormatJSON is the JSON-formatted structured logs.
	LogFormatJSON LogFormat = "json"
)

// getLogFormat returns the configured log format from FOUNDRY_LOG_FORMAT.
func getLogFormat() LogFormat {
	val := strings.ToLower(os.Getenv("FOUNDRY_LOG_FORMAT"))
	switch val {
	case "json":
		return LogFormatJSON
	case "text", "":
		return LogFormatText
	default:
		// Invalid format - will warn after logger is set up
		return LogFormatText
	}
}

// setupLogging configures the global logger based on the verbose flag and
// FOUNDRY_LOG_FORMAT.
func setupLogging(cmd *cli.Command) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}

	format := getLogFormat()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case LogFormatText:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	// Warn about invalid format after logger is set up
	envVal := strings.ToLower(os.Getenv("FOUNDRY_LOG_FORMAT"))
	if envVal != "" && envVal != "text" && envVal != "json" {
		slog.Warn("Invalid FOUNDRY_LOG_FORMAT value, using text format", "value", envVal)
	}

	if level == slog.LevelDebug {
		slog.Debug("Verbose logging enabled")
	}
}

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "foundrysync",
		Usage:   "Synchronize a markdown vault into a remote journal store",
		Version: version.Full(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Remote store base URL",
				Sources: cli.EnvVars("FOUNDRY_URL"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Remote store API key",
				Sources: cli.EnvVars("FOUNDRY_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory",
				Value:   ".",
				Sources: cli.EnvVars("FOUNDRY_VAULT"),
			},
			verboseFlag,
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			// Load environment variables with FOUNDRY_ prefix
			if err := konfig.Load(env.Provider(".", env.Opt{
				Prefix: "FOUNDRY_",
				TransformFunc: func(k, v string) (string, any) {
					return strings.TrimPrefix(k, "FOUNDRY_"), v
				},
			}), nil); err != nil {
				return ctx, fmt.Errorf("load env: %w", err)
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			syncCommand(),
			linksCommand(),
			statusCommand(),
		},
	}
}

// buildConfig assembles the session configuration from flags and environment.
func buildConfig(cmd *cli.Command) sync.Config {
	return sync.Config{
		BaseURL:     cmd.String("url"),
		APIKey:      cmd.String("api-key"),
		VaultDir:    cmd.String("vault"),
		RootFolder:  konfig.String("ROOT_FOLDER"),
		JournalName: konfig.String("JOURNAL"),
		UploadDir:   konfig.String("UPLOAD_DIR"),
		WriteBack:   cmd.Bool("write-back") || konfig.Bool("WRITE_BACK"),
		Snapshot:    cmd.Bool("snapshot") || konfig.Bool("SNAPSHOT"),
		Force:       cmd.Bool("force"),
	}
}

// setupClient creates the remote store client from the command flags.
func setupClient(cmd *cli.Command) *foundry.Client {
	return foundry.NewClient(
		strings.TrimSuffix(cmd.String("url"), "/"),
		cmd.String("api-key"),
		foundry.WithLogger(slog.Default()),
	)
}

// syncCommand creates the sync subcommand.
func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize the vault into the remote journal store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write-back",
				Usage: "Write assigned identities back into document frontmatter",
			},
			&cli.BoolFlag{
				Name:  "snapshot",
				Usage: "Commit the vault worktree before frontmatter back-writes",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Upload documents even when the remote content hash matches",
			},
			verboseFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := buildConfig(cmd)
			client := setupClient(cmd)
			renderer := render.NewGoldmarkRenderer()

			pipe := sync.NewPipeline(func(ctx context.Context) error {
				session, err := sync.NewSession(ctx, client, renderer, cfg,
					sync.WithSessionLogger(slog.Default()))
				if err != nil {
					return fmt.Errorf("start session: %w", err)
				}

				docs, err := vault.Walk(cfg.VaultDir)
				if err != nil {
					return fmt.Errorf("walk vault: %w", err)
				}

				return session.Run(ctx, docs)
			}, slog.Default())

			if err := pipe.Trigger(ctx); err != nil {
				return fmt.Errorf("sync: %w", err)
			}

			slog.Info("sync completed")
			return nil
		},
	}
}

// linksCommand creates the links subcommand.
func linksCommand() *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "Run the cross-document link resolution pass over the remote corpus",
		Flags: []cli.Flag{verboseFlag},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := buildConfig(cmd)
			client := setupClient(cmd)

			session, err := sync.NewSession(ctx, client, render.NewGoldmarkRenderer(), cfg,
				sync.WithSessionLogger(slog.Default()))
			if err != nil {
				return fmt.Errorf("start session: %w", err)
			}

			if err := session.ResolveLinks(ctx); err != nil {
				return fmt.Errorf("resolve links: %w", err)
			}

			slog.Info("link resolution completed")
			return nil
		},
	}
}

// statusCommand creates the status subcommand.
func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show a summary of the remote corpus",
		Flags: []cli.Flag{verboseFlag},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := setupClient(cmd)

			folders, err := client.ListFolders(ctx)
			if err != nil {
				return fmt.Errorf("list folders: %w", err)
			}
			journals, err := client.ListJournals(ctx)
			if err != nil {
				return fmt.Errorf("list journals: %w", err)
			}

			ix := hierarchy.BuildIndex(folders, journals)
			displayStatus(ix)
			return nil
		},
	}
}
