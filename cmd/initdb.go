package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/umich-library-it/bookmatch/internal/reqcache"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create or reset the response cache database",
		Long: `Creates the SQLite response cache at BOOKMATCH_CACHE_DB, dropping any
existing request table. The identify command creates the schema on demand,
so this is only needed to reset a cache deliberately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := os.Getenv("BOOKMATCH_CACHE_DB")
			if path == "" {
				return fmt.Errorf("configuration missing: BOOKMATCH_CACHE_DB")
			}

			store, err := reqcache.OpenStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Init(cmd.Context())
		},
	}
}
