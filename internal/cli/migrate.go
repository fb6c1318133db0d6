package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the story storage schema",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	// 打开存储即执行迁移；postgres 需显式开启
	cfg.Database.Postgres.AutoMigrate = true

	lib, cleanup, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := lib.Store.Repo.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count stories: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "storage %s ready (%d stories)\n", lib.Store.Driver, n)
	return nil
}
