package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dgnsrekt/simplephon/internal/cache"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the document cache",
		Args:  cobra.NoArgs,
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show cache location, size and entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, func(m *cache.Manager) error {
				s := m.Stats()
				fmt.Printf("%s %s\n", headerStyle.Render("directory"), m.Path())
				fmt.Printf("%s %d documents, %s of %s\n", headerStyle.Render("disk     "),
					s.Disk.ItemCount, humanize.Bytes(uint64(s.Disk.Size)), humanize.Bytes(uint64(s.Disk.Capacity))) //nolint:gosec

				entries := m.Entries()
				if len(entries) == 0 {
					return nil
				}
				fmt.Println()
				for _, e := range entries {
					fmt.Printf("%s  %8s  %s\n", faintStyle.Render(e.Key), humanize.Bytes(uint64(e.OriginalSize)), humanize.Time(e.LastAccess)) //nolint:gosec
				}
				return nil
			})
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, func(m *cache.Manager) error {
				n := len(m.Entries())
				if err := m.Clear(); err != nil {
					return fmt.Errorf("unable to clear cache: %w", err)
				}
				fmt.Printf("Removed %s documents from %s\n", humanize.Comma(int64(n)), m.Path())
				return nil
			})
		},
	}

	pruneAge time.Duration

	cachePruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Remove cached documents older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, func(m *cache.Manager) error {
				n := m.Prune(pruneAge)
				fmt.Printf("Removed %s documents older than %s\n", humanize.Comma(int64(n)), pruneAge)
				return nil
			})
		},
	}
)

func init() {
	cachePruneCmd.Flags().DurationVar(&pruneAge, "older-than", 7*24*time.Hour, "age of the documents to remove")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd)
}

// withCache opens the configured cache directory whether or not caching is
// enabled for conversions.
func withCache(cmd *cobra.Command, fn func(*cache.Manager) error) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	c := cfg.Cache.ToCacheConfig()
	c.TTL = 0
	if c.DiskPath == "" {
		return fmt.Errorf("no cache directory configured")
	}
	if _, err := os.Stat(c.DiskPath); os.IsNotExist(err) {
		fmt.Println("Cache is empty:", c.DiskPath)
		return nil
	}

	m, err := cache.NewManager(c)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck

	return fn(m)
}
