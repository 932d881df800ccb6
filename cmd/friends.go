package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/pipeline"
	"github.com/marquin311/analytics-do-vale/internal/report"
)

var (
	friendsSeeds    []string
	friendsPlatform string
	friendsQueues   []int
	friendsMatches  int
)

// friendsCmd ingests the recent ranked matches of players given by Riot ID.
var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Ingest recent ranked matches of players given by Riot ID",
	Long: `Resolve each seed's Riot ID (gameName#tagLine) and ingest their recent solo
and flex matches. Seeds come from the config file and from --seed.

Example:
  vale friends --seed "Faker#KR1" --platform kr`,
	Args: cobra.NoArgs,
	RunE: runFriends,
}

func init() {
	friendsCmd.Flags().StringSliceVar(&friendsSeeds, "seed", nil, "Riot ID gameName#tagLine (repeatable)")
	friendsCmd.Flags().StringVar(&friendsPlatform, "platform", "br1", "platform of the --seed players")
	friendsCmd.Flags().IntSliceVar(&friendsQueues, "queues", nil, "queue ids to enumerate (default from config: 420,440)")
	friendsCmd.Flags().IntVar(&friendsMatches, "matches", 0, "recent matches per player and queue (default from config)")
}

func runFriends(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	seeds := cfg.Seeds
	for _, s := range friendsSeeds {
		seed, err := parseRiotID(s)
		if err != nil {
			return err
		}
		seed.Platform = strings.ToLower(friendsPlatform)
		seed.Group = "americas"
		if g, ok := cfg.GroupOf(seed.Platform); ok {
			seed.Group = g
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return errors.New("no seeds: add seeds to the config file or pass --seed gameName#tagLine")
	}

	queues := friendsQueues
	if len(queues) == 0 {
		queues = cfg.Ingest.SeedQueues
	}
	matches := friendsMatches
	if matches <= 0 {
		matches = cfg.Ingest.MatchesPerPlayer
	}

	logger := newLogger()
	defer logger.Sync()

	env, err := newIngestEnv(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer env.Close()

	jobs, err := pipeline.SeedJobs(ctx, seeds, queues, matches, func(group string) pipeline.SeedSource {
		return env.client(group)
	}, logger)
	if err != nil {
		return fmt.Errorf("resolve seeds: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "No seed could be resolved.")
		return nil
	}

	sum, err := env.runner(pipeline.WithAcceptedQueues(queues)).Run(ctx, jobs)
	if sum != nil {
		report.PrintRunSummary(os.Stdout, sum)
	}
	if err != nil {
		return fmt.Errorf("ingest aborted: %w", err)
	}
	return nil
}

// parseRiotID splits "gameName#tagLine". Game names may contain spaces.
func parseRiotID(s string) (config.SeedConfig, error) {
	i := strings.LastIndex(s, "#")
	if i <= 0 || i == len(s)-1 {
		return config.SeedConfig{}, fmt.Errorf("invalid Riot ID %q: expected gameName#tagLine", s)
	}
	return config.SeedConfig{
		GameName: strings.TrimSpace(s[:i]),
		TagLine:  strings.TrimSpace(s[i+1:]),
	}, nil
}
