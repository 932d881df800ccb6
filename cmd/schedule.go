package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/riot"
)

var (
	scheduleSpec    string
	scheduleGroups  []string
	scheduleMatches int
	scheduleNow     bool
)

// scheduleCmd repeats the pros ingestion on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pros ingestion on a cron schedule until interrupted",
	Long: `Run 'pros' on a cron spec with a seconds field (default from config:
every six hours). Runs never overlap; a run still going when the next one is due
is skipped. Matches seen by earlier runs are not fetched again.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "spec", "", "cron spec with seconds (default from config)")
	scheduleCmd.Flags().StringSliceVar(&scheduleGroups, "groups", nil, "routing groups to run (default: all configured)")
	scheduleCmd.Flags().IntVar(&scheduleMatches, "matches", 0, "recent matches per player (default from config)")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "also run once immediately")
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	spec := scheduleSpec
	if spec == "" {
		spec = cfg.Schedule.Spec
	}
	logger := newLogger()
	defer logger.Sync()

	env, err := newIngestEnv(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer env.Close()

	// One Runner for every tick; SkipIfStillRunning keeps its runs from overlapping.
	runner := env.runner()
	fatal := make(chan error, 1)
	run := func() {
		err := runProsOnce(ctx, env, runner, scheduleGroups, scheduleMatches)
		if err == nil {
			return
		}
		logger.Error("scheduled run failed", zap.Error(err))
		if errors.Is(err, riot.ErrAuthFailed) {
			select {
			case fatal <- err:
			default:
			}
		}
	}

	cl := cronLogger{s: logger.Sugar()}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(run))
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cl))
	if _, err := c.AddJob(spec, job); err != nil {
		return err
	}
	c.Start()
	logger.Info("scheduler started", zap.String("spec", spec))

	if scheduleNow {
		go job.Run()
	}

	select {
	case <-ctx.Done():
		err = nil
	case err = <-fatal:
	}
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
	return err
}
