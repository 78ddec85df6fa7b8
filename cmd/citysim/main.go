// Command citysim runs the Nairobi city simulation headless.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nairobi-skylines/citysim/internal/persistence"
	"github.com/nairobi-skylines/citysim/internal/pkg/clock"
	"github.com/nairobi-skylines/citysim/internal/pkg/idgen"
)

var (
	dbPath    string
	redisAddr string
	slot      string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "citysim",
	Short: "Nairobi city-builder simulation",
	Long: `citysim runs the city simulation core: the daily tick, fires, informal
settlements, expressway tenders and save slots.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db",
		envOrDefault("CITYSIM_DB", "data/citysim.db"), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", envOrDefault("CITYSIM_REDIS_ADDR", ""),
		"keep saves in Redis at this address instead of SQLite")
	rootCmd.PersistentFlags().StringVar(&slot, "slot", persistence.DefaultSlot, "save slot name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(inspectCmd)
}

func openDB() (*persistence.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", dbPath)
	return db, nil
}

// openStore picks the save store: Redis when an address is configured,
// otherwise the SQLite database itself. The returned func releases only what
// openStore created.
func openStore(ctx context.Context, db *persistence.DB) (persistence.Store, func(), error) {
	if redisAddr == "" {
		return db, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", redisAddr, err)
	}
	rs, err := persistence.NewRedisStore(&persistence.RedisConfig{
		Client: client,
		Clock:  clock.New(),
		IDGen:  idgen.NewUUID("save"),
	})
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	slog.Info("saves kept in redis", "addr", redisAddr)
	return rs, func() { rs.Close() }, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
