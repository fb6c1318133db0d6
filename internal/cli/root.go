// Package cli 实现 storyctl 命令行工具
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ai-story-api/internal/config"
	"ai-story-api/internal/wire"
	"ai-story-api/pkg/logger"
)

var (
	configDir  string
	formatFlag string

	cfg *config.Config
)

// RootCmd 顶层命令
var RootCmd = &cobra.Command{
	Use:           "storyctl",
	Short:         "Manage the story library",
	Long:          "Administrative commands for the story generation service: storage migration, listing and deleting saved stories, and rate limit inspection.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		dir := configDir
		if dir == "" {
			dir = os.Getenv("CONFIG_DIR")
		}
		if dir == "" {
			dir = config.DefaultDir
		}

		loaded, err := config.LoadFrom(dir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Observability.Logging.Level, "text")
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Config directory (default: $CONFIG_DIR or ./configs)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

// openLibrary 按当前配置打开故事库
func openLibrary(cmd *cobra.Command) (*wire.Library, func(), error) {
	return wire.InitializeLibrary(cmd.Context(), cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
