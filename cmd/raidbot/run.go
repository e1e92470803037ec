package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/raidbot/internal/adapters/redis"
	"github.com/zeusync/raidbot/internal/config"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/feed"
	"github.com/zeusync/raidbot/internal/injector"
)

const shutdownTimeout = 5 * time.Second

type runOptions struct {
	input     string
	dryRun    bool
	telemetry string
	journal   string
	fps       float64
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the perceive, decide, act loop",
		Long:  `Reads one JSON perception per line from --input (or stdin) and acts on each frame until the feed ends or the process is interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, found, err := root.load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err = cfg.Validate(); err != nil {
				return err
			}
			return runBot(cmd.Context(), cmd.InOrStdin(), cfg, root.configPath, found, opts.input)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Perception feed file, - for stdin")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Record input instead of waiting on it")
	cmd.Flags().StringVar(&opts.telemetry, "telemetry", "", "Telemetry listen address, overrides telemetry.addr")
	cmd.Flags().StringVar(&opts.journal, "journal", "", "Redis address for the decision journal, overrides journal.addr")
	cmd.Flags().Float64Var(&opts.fps, "fps", 0, "Target frames per second, overrides target_fps")
	return cmd
}

func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}
	if o.telemetry != "" {
		cfg.Telemetry.Addr = o.telemetry
	}
	if o.journal != "" {
		cfg.Journal.Addr = o.journal
	}
	if o.fps > 0 {
		cfg.TargetFPS = o.fps
	}
}

func runBot(ctx context.Context, stdin io.Reader, cfg *config.Config, configPath string, found bool, input string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()
	logger := app.Logger.Named("raidbot")
	if !found {
		logger.Warn("config file not found, using defaults", log.String("path", configPath))
	}
	logger.Info("starting",
		log.String("run_id", app.Player.RunID()),
		log.Bool("dry_run", cfg.DryRun),
		log.Bool("debug_mode", cfg.DebugMode),
		log.Float64("target_fps", cfg.TargetFPS),
	)

	src := stdin
	if input != "-" && input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open perception feed: %w", err)
		}
		defer f.Close()
		src = f
	}
	source := feed.NewJSONLines(src, cfg.ConfidenceThreshold)

	if cfg.Journal.Addr != "" {
		journal := redis.New(cfg.Journal.Addr, cfg.Journal.Password, cfg.Journal.DB,
			redis.WithPrefix(cfg.Journal.Prefix),
			redis.WithMaxLen(cfg.Journal.MaxLen),
		)
		defer journal.Close()
		if err = journal.Ping(ctx); err != nil {
			return err
		}
		if err = journal.Attach(app.Bus); err != nil {
			return err
		}
		logger.Info("journal attached", log.String("stream", journal.Key()))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.Telemetry.Addr != "" {
		if err = app.Telemetry.Start(); err != nil {
			return fmt.Errorf("start telemetry: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return app.Telemetry.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return app.Player.Run(gctx, source)
	})

	if err = g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete",
		log.Uint64("frames", app.Player.Frames()),
		log.Uint64("rejected", app.Player.Rejected()),
	)
	return nil
}
