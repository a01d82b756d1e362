package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// Console writes comparison tables to a writer and fitness plots as PNG
// files under a directory. An empty plot directory disables plotting.
type Console struct {
	out     io.Writer
	plotDir string
	width   vg.Length
	height  vg.Length
	logger  *logrus.Logger
}

// NewConsole creates a console reporter
func NewConsole(out io.Writer, plotDir string, logger *logrus.Logger) *Console {
	if logger == nil {
		logger = logrus.New()
	}

	return &Console{
		out:     out,
		plotDir: plotDir,
		width:   constants.DefaultPlotWidthInches * vg.Inch,
		height:  constants.DefaultPlotHeightInches * vg.Inch,
		logger:  logger,
	}
}

// SetPlotSize sets the plot size in inches; non-positive values are ignored
func (c *Console) SetPlotSize(width, height float64) {
	if width > 0 {
		c.width = vg.Length(width) * vg.Inch
	}
	if height > 0 {
		c.height = vg.Length(height) * vg.Inch
	}
}

// Table prints the results as a table under a title
func (c *Console) Table(title string, results []types.RunResult) {
	fmt.Fprintln(c.out, RenderTable(title, results))
}

// Plot saves the series as a PNG chart. Failures are logged, not returned.
func (c *Console) Plot(title string, series []types.Series) {
	if c.plotDir == "" {
		c.logger.WithField("title", title).Debug("Plotting disabled, skipping chart")
		return
	}

	path, err := c.SavePlot(title, series)
	if err != nil {
		c.logger.WithError(err).WithField("title", title).Warn("Failed to save fitness plot")
		return
	}

	c.logger.WithFields(logrus.Fields{
		"title": title,
		"file":  path,
	}).Info("Saved fitness plot")
}

// SavePlot writes the chart to the plot directory and returns its path
func (c *Console) SavePlot(title string, series []types.Series) (string, error) {
	p, err := NewPlot(title, series)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.plotDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plot directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.png", slug(title), uuid.New().String()[:8])
	path := filepath.Join(c.plotDir, name)
	if err := p.Save(c.width, c.height, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}

	return path, nil
}

// slug turns a title into a file-name friendly string
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "plot"
	}
	return s
}
