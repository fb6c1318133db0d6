package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ai-story-api/internal/infrastructure/persistence/redis"
)

// rateLimitedEndpoint 与 HTTP 路由中的限流端点名一致
const rateLimitedEndpoint = "generate_story"

var errRedisDisabled = errors.New("redis is not enabled or not reachable")

func init() {
	rl := &cobra.Command{
		Use:   "ratelimit",
		Short: "Inspect or reset per-client generation rate limits",
	}
	rl.PersistentFlags().String("ip", "", "Client IP address")
	_ = rl.MarkPersistentFlagRequired("ip")

	rl.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show remaining generation quota for a client",
			Args:  cobra.NoArgs,
			RunE:  runRateLimitStatus,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Clear the generation quota window for a client",
			Args:  cobra.NoArgs,
			RunE:  runRateLimitReset,
		},
	)
	RootCmd.AddCommand(rl)
}

func openLimiter(cmd *cobra.Command) (*redis.RateLimiter, string, func(), error) {
	ip, _ := cmd.Flags().GetString("ip")
	lib, cleanup, err := openLibrary(cmd)
	if err != nil {
		return nil, "", nil, err
	}
	if lib.Redis == nil {
		cleanup()
		return nil, "", nil, errRedisDisabled
	}
	return redis.NewRateLimiter(lib.Redis), redis.BuildRateLimitKey(rateLimitedEndpoint, ip), cleanup, nil
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	limiter, key, cleanup, err := openLimiter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rc := cfg.Security.RateLimit
	remaining, err := limiter.Remaining(cmd.Context(), key, rc.Requests, rc.Window)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d requests remaining per %s\n", key, remaining, rc.Requests, rc.Window)
	return nil
}

func runRateLimitReset(cmd *cobra.Command, _ []string) error {
	limiter, key, cleanup, err := openLimiter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := limiter.Reset(cmd.Context(), key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", key)
	return nil
}
