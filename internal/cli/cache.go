package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
		Long: `Inspect or clear cached synthesis and bipartition results.

Only the file backend can be listed and cleared from here. Redis entries
expire on their own after [cache] ttl.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached result",
			RunE:  c.runCacheClear,
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache backend, location and size",
			RunE:  c.runCacheInfo,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := c.fileCacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// openFileCache returns the configured file cache, or nil when the backend
// is not file or nothing has been cached yet.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	if b := c.config.Cache.Backend; b != config.BackendFile {
		printWarning("Cache backend is %q; only the file cache is managed here", b)
		return nil, nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) runCacheClear(cmd *cobra.Command, args []string) error {
	fc, err := c.openFileCache()
	if fc == nil || err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	c.Logger.Debug("cleared cache", "dir", fc.Dir(), "entries", n)
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func (c *CLI) runCacheInfo(cmd *cobra.Command, args []string) error {
	fc, err := c.openFileCache()
	if fc == nil || err != nil {
		return err
	}
	n, size, err := fc.Usage()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "backend  %s\n", config.BackendFile)
	fmt.Fprintf(out, "dir      %s\n", fc.Dir())
	fmt.Fprintf(out, "entries  %d\n", n)
	fmt.Fprintf(out, "bytes    %d\n", size)
	return nil
}
