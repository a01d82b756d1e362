package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/logging"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
	"github.com/ishanwen-byte/evoenv-go/pkg/config"
)

type capture struct {
	mu     sync.Mutex
	tables []string
	rows   [][]types.RunResult
	plots  []string
}

func (c *capture) Table(title string, results []types.RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = append(c.tables, title)
	c.rows = append(c.rows, results)
}

func (c *capture) Plot(title string, series []types.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plots = append(c.plots, title)
}

func smallConfig(mode string) *types.Config {
	cfg := config.NewManager().GetConfig()
	cfg.Run.Mode = mode
	cfg.Run.Generations = 6
	cfg.Run.ReportInterval = 0
	cfg.Problem.PopulationSize = 6
	cfg.Problem.GenomeLength = 12
	cfg.Problem.MutationRates = []float64{0.05, 0.2}
	cfg.Chronological.Phases = []int{2, 3}
	cfg.Adaptive.SwitchInterval = 2
	return cfg
}

func TestExecuteModes(t *testing.T) {
	for _, mode := range []string{
		constants.ModeSequential,
		constants.ModeAdversarial,
		constants.ModeChronological,
		constants.ModeAdaptive,
	} {
		t.Run(mode, func(t *testing.T) {
			reporter := &capture{}
			err := execute(context.Background(), smallConfig(mode), logging.Discard(), reporter)
			require.NoError(t, err)

			require.Len(t, reporter.tables, 1)
			assert.Equal(t, "onemax", reporter.tables[0])
			assert.NotEmpty(t, reporter.rows[0])
			assert.Len(t, reporter.plots, 1)
		})
	}
}

func TestAdversarialRowsPerMutationRate(t *testing.T) {
	reporter := &capture{}
	cfg := smallConfig(constants.ModeAdversarial)
	cfg.Adversarial.Parallel = true

	require.NoError(t, execute(context.Background(), cfg, logging.Discard(), reporter))

	require.Len(t, reporter.rows, 1)
	require.Len(t, reporter.rows[0], 2)
	assert.Equal(t, "mutation-0.05", reporter.rows[0][0].Name)
	assert.Equal(t, "mutation-0.2", reporter.rows[0][1].Name)
}

func TestAdaptiveGreedySwitch(t *testing.T) {
	reporter := &capture{}
	cfg := smallConfig(constants.ModeAdaptive)
	cfg.Adaptive.GreedySwitch = true
	cfg.Adaptive.GoFor = 2

	require.NoError(t, execute(context.Background(), cfg, logging.Discard(), reporter))
	require.Len(t, reporter.rows, 1)
	assert.Greater(t, reporter.rows[0][0].Fitness, 0.0)
}

func TestExecuteUnknownMode(t *testing.T) {
	err := execute(context.Background(), smallConfig("shuffled"), logging.Discard(), &capture{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := execute(ctx, smallConfig(constants.ModeSequential), logging.Discard(), &capture{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evoenv.yaml")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runInitConfig(cmd, []string{path}))

	assert.Contains(t, out.String(), path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	manager := config.NewManager()
	require.NoError(t, manager.Load(path))
	assert.Equal(t, constants.ModeSequential, manager.GetConfig().Run.Mode)
}
