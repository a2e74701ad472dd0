package experiments

import (
	"fmt"
	"io"
	"time"

	"birdseye/config"
	"birdseye/experiments/metrics"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary prints a table of the run's final rates and averages.
func RenderSummary(w io.Writer, cfg config.Config, records []metrics.RunRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("MCTS depth %d, %d simulations", cfg.Depth, cfg.Simulations))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	if len(records) == 0 {
		t.AppendRow(table.Row{"Trials", 0})
		t.Render()
		return
	}

	last := records[len(records)-1]
	collisionRate, lossRate := Rates(last.Outcome, len(records))
	var duration time.Duration
	reward, steps, estimateError := 0.0, 0, 0.0
	for _, record := range records {
		duration += record.Duration
		reward += record.MeanReward
		steps += record.Steps
		estimateError += record.EstimateError
	}
	n := float64(len(records))

	t.AppendRows([]table.Row{
		{"Trials", len(records)},
		{"Collisions", last.CumulativeCollisions},
		{"Losses", last.CumulativeLosses},
		{"Collision rate", fmt.Sprintf("%.3f", collisionRate)},
		{"Loss rate", fmt.Sprintf("%.3f", lossRate)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Mean reward", fmt.Sprintf("%.3f", reward/n)},
		{"Mean steps", fmt.Sprintf("%.1f", float64(steps)/n)},
		{"Mean estimate error (m)", fmt.Sprintf("%.1f", estimateError/n)},
		{"Mean trial time", (duration / time.Duration(len(records))).Round(time.Millisecond)},
	})
	t.Render()
}
