package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/logging"
	"github.com/ishanwen-byte/evoenv-go/internal/onemax"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
	"github.com/ishanwen-byte/evoenv-go/pkg/config"
	"github.com/ishanwen-byte/evoenv-go/pkg/environment"
	"github.com/ishanwen-byte/evoenv-go/pkg/report"
)

func runInitConfig(cmd *cobra.Command, args []string) error {
	if err := config.CreateDefaultConfig(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", args[0])
	return nil
}

func runEvolution(cmd *cobra.Command, args []string) error {
	manager := config.NewManager()
	if configPath != "" {
		if err := manager.Load(configPath); err != nil {
			return err
		}
	} else if err := manager.LoadDefaults(); err != nil {
		return err
	}

	cfg := manager.GetConfig()
	if modeFlag != "" {
		cfg.Run.Mode = modeFlag
	}
	if generationsFlag > 0 {
		cfg.Run.Generations = generationsFlag
	}
	if plotsFlag {
		cfg.Report.Plots = true
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	plotDir := ""
	if cfg.Report.Plots {
		plotDir = filepath.Join(cfg.Report.OutputDir, constants.PlotsDir)
	}
	console := report.NewConsole(cmd.OutOrStdout(), plotDir, logger)
	console.SetPlotSize(cfg.Report.PlotWidth, cfg.Report.PlotHeight)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, cfg, logger, console)
}

// execute builds the configured composition, runs it and reports the outcome
func execute(ctx context.Context, cfg *types.Config, logger *logrus.Logger, reporter environment.Reporter) error {
	r, err := newRunner(cfg, logger, reporter)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"mode":        cfg.Run.Mode,
		"generations": cfg.Run.Generations,
		"seed":        cfg.Run.Seed,
	}).Info("Starting evolution run")

	start := time.Now()
	if err := r.run(ctx); err != nil {
		return fmt.Errorf("%s run failed: %w", cfg.Run.Mode, err)
	}
	elapsed := time.Since(start)

	logger.WithFields(logrus.Fields{
		"fitness":  r.evolver.FitnessMetric(),
		"duration": elapsed.Round(time.Millisecond).String(),
	}).Info("Run finished")

	return nil
}

// runner holds one configured composition and knows how to drive it
type runner struct {
	cfg      *types.Config
	evolver  environment.Evolver
	logger   *logrus.Logger
	reporter environment.Reporter
	run      func(ctx context.Context) error
}

func newRunner(cfg *types.Config, logger *logrus.Logger, reporter environment.Reporter) (*runner, error) {
	r := &runner{cfg: cfg, logger: logger, reporter: reporter}

	switch cfg.Run.Mode {
	case constants.ModeSequential:
		r.buildSequential()
	case constants.ModeAdversarial:
		r.buildAdversarial()
	case constants.ModeChronological:
		r.buildChronological()
	case constants.ModeAdaptive:
		r.buildAdaptive()
	default:
		return nil, fmt.Errorf("unknown mode: %q", cfg.Run.Mode)
	}

	return r, nil
}

// options returns construction options for the i-th environment. Every
// environment owns its random source so adversarial members can run in
// parallel.
func (r *runner) options(i int) []environment.Option {
	return []environment.Option{
		environment.WithLogger(r.logger),
		environment.WithReporter(r.reporter),
		environment.WithDevice(r.cfg.Run.Device),
		environment.WithRand(rand.New(rand.NewSource(r.cfg.Run.Seed + int64(i)))),
		environment.WithParallel(r.cfg.Adversarial.Parallel),
	}
}

func (r *runner) compileOptions() []environment.CompileOption {
	return []environment.CompileOption{
		environment.WithReportInterval(r.cfg.Run.ReportInterval),
	}
}

func (r *runner) pipeline(rate float64) []environment.Stage {
	return onemax.Pipeline(r.cfg.Problem.PopulationSize, r.cfg.Problem.GenomeLength, rate)
}

// members builds one plain environment per configured mutation rate
func (r *runner) members() []environment.Member {
	rates := r.cfg.Problem.MutationRates
	members := make([]environment.Member, 0, len(rates))
	for i, rate := range rates {
		name := fmt.Sprintf("mutation-%g", rate)
		members = append(members, environment.New(name, r.pipeline(rate), r.options(i+1)...))
	}
	return members
}

// summarize prints a one-row table for compositions that do not rank members
func (r *runner) summarize(name string, fitness float64, elapsed time.Duration) {
	r.reporter.Table(r.cfg.Run.Name, []types.RunResult{{
		Name:     name,
		Fitness:  fitness,
		Duration: elapsed,
	}})
}

func (r *runner) buildSequential() {
	seq := environment.NewSequential(r.cfg.Run.Name, r.pipeline(r.cfg.Problem.MutationRates[0]), r.options(0)...)
	seq.Compile(onemax.CountOnes, r.compileOptions()...)
	r.evolver = seq

	r.run = func(ctx context.Context) error {
		start := time.Now()
		if _, _, err := seq.Evolve(ctx, r.cfg.Run.Generations); err != nil {
			return err
		}
		r.summarize(seq.Name(), seq.FitnessMetric(), time.Since(start))
		if best, ok := seq.BestEver().(*onemax.Genome); ok {
			r.logger.WithField("genome", best.String()).Info("Best genome")
		}
		seq.Plot()
		return nil
	}
}

func (r *runner) buildAdversarial() {
	adv := environment.NewAdversarial(r.cfg.Run.Name, r.members(), r.options(0)...)
	adv.Compile(onemax.CountOnes, r.compileOptions()...)
	r.evolver = adv

	r.run = func(ctx context.Context) error {
		_, err := adv.Compete(ctx, r.cfg.Run.Generations)
		return err
	}
}

func (r *runner) buildChronological() {
	members := r.members()
	counts := r.cfg.Chronological.Phases
	if len(counts) == 0 {
		counts = make([]int, len(members))
	}

	phases := make([]environment.Phase, 0, len(counts))
	for i, count := range counts {
		phases = append(phases, environment.Phase{Env: members[i%len(members)], Generations: count})
	}

	chrono := environment.NewChronological(r.cfg.Run.Name, phases, r.options(0)...)
	chrono.Compile(onemax.CountOnes, r.compileOptions()...)
	r.evolver = chrono

	r.run = func(ctx context.Context) error {
		start := time.Now()
		if _, _, err := chrono.Evolve(ctx, r.cfg.Run.Generations); err != nil {
			return err
		}
		if name, fitness, ok := chrono.BestPhase(); ok {
			r.summarize(name, fitness, time.Since(start))
		}
		chrono.Plot()
		return nil
	}
}

func (r *runner) buildAdaptive() {
	settings := r.cfg.Adaptive
	adaptive := environment.NewAdaptive(r.cfg.Run.Name, r.members(), environment.AdaptiveConfig{
		SwitchInterval:        settings.SwitchInterval,
		GoFor:                 settings.GoFor,
		DeactivationThreshold: &settings.DeactivationThreshold,
		ExcludeInactive:       settings.ExcludeInactive,
	}, r.options(0)...)
	adaptive.Compile(onemax.CountOnes, r.compileOptions()...)
	r.evolver = adaptive

	r.run = func(ctx context.Context) error {
		start := time.Now()
		remaining := r.cfg.Run.Generations
		for remaining > 0 {
			chunk := min(remaining, settings.SwitchInterval)
			if _, _, err := adaptive.Evolve(ctx, chunk); err != nil {
				return err
			}
			remaining -= chunk

			if settings.GreedySwitch && settings.GoFor > 0 && remaining > 0 {
				if _, err := adaptive.SwitchEnvironment(ctx); err != nil {
					return err
				}
			}
		}

		r.summarize(adaptive.Current().Name(), adaptive.FitnessMetric(), time.Since(start))
		adaptive.Plot()
		return nil
	}
}
