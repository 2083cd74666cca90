package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/infrastructure/cache"
	"github.com/orris-inc/templink/internal/infrastructure/config"
	"github.com/orris-inc/templink/internal/infrastructure/database"
	"github.com/orris-inc/templink/internal/infrastructure/repository"
	"github.com/orris-inc/templink/internal/shared/constants"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/utils"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	env        string
	configPath string
	format     string
	reveal     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect persisted link snapshots",
		Long:  `Read the link snapshot saved by the server from the configured snapshot backend.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved snapshot",
		RunE:  runShow,
	}
	show.Flags().StringVarP(&format, "format", "f", FormatYAML, "Output format (yaml, json)")
	show.Flags().BoolVar(&reveal, "reveal", false, "Print full tokens instead of masked ones")

	cmd.AddCommand(show)
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	if format != FormatYAML && format != FormatJSON {
		return fmt.Errorf("unsupported format %q", format)
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// stdout carries the snapshot itself
	if out := strings.ToLower(cfg.Logger.OutputPath); out == "" || out == "stdout" {
		cfg.Logger.OutputPath = "stderr"
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	backend, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	data, err := backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	snapshot, err := apptemplink.DecodeSnapshot[any](data)
	if err != nil {
		return err
	}

	return Render(cmd.OutOrStdout(), snapshot, format, reveal)
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Interface) (apptemplink.SnapshotBackend, func(), error) {
	switch cfg.Snapshot.Driver {
	case constants.SnapshotDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return cache.NewRedisSnapshotStore(client, cfg.Snapshot.Key), func() { _ = client.Close() }, nil
	case constants.SnapshotDriverDatabase:
		if err := database.Init(&cfg.Database, log); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo := repository.NewLinkSnapshotRepository(database.Get(), cfg.Snapshot.Key, log)
		return repo, func() { _ = database.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("snapshot driver %q has nothing to show", cfg.Snapshot.Driver)
	}
}

type shownLink struct {
	Token string `json:"token" yaml:"token"`
	apptemplink.ExportedLink[any] `json:",inline" yaml:",inline"`
}

// Render writes the snapshot sorted by expiration. Tokens are masked unless
// reveal is set.
func Render(w io.Writer, snapshot apptemplink.Snapshot[any], format string, reveal bool) error {
	shown := make([]shownLink, 0, len(snapshot))
	for token, link := range snapshot {
		if !reveal {
			token = utils.MaskToken(token)
		}
		shown = append(shown, shownLink{Token: token, ExportedLink: link})
	}
	sort.Slice(shown, func(i, j int) bool {
		if shown[i].Expiration != shown[j].Expiration {
			return shown[i].Expiration < shown[j].Expiration
		}
		return shown[i].Token < shown[j].Token
	})

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(shown); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
