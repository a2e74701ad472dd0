package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// StartTimeFormat names the run directory and the header's start time.
const StartTimeFormat = "2006-01-02T15:04:05"

type Writer struct {
	baseDir   string
	method    string
	startTime time.Time
	numTrials int
	plotting  bool
	gauges    *trialGauges
}

type header struct {
	Method    string `yaml:"method"`
	StartTime string `yaml:"start_time"`
	Trials    int    `yaml:"trials"`
	Plotting  bool   `yaml:"plotting"`
	Config    any    `yaml:"config"`
}

// NewWriter creates <dir>/<method>/<start time>/ for the results of one run.
func NewWriter(dir, method string, startTime time.Time, numTrials int, plotting bool) (*Writer, error) {
	baseDir := filepath.Join(dir, method, startTime.Format(StartTimeFormat))
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir:   baseDir,
		method:    method,
		startTime: startTime,
		numTrials: numTrials,
		plotting:  plotting,
		gauges:    newTrialGauges(method),
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) Plotting() bool {
	return w.plotting
}

// WriteHeader stores the effective configuration of the run once, before any trial.
func (w *Writer) WriteHeader(config any) error {
	h := header{
		Method:    w.method,
		StartTime: w.startTime.Format(StartTimeFormat),
		Trials:    w.numTrials,
		Plotting:  w.plotting,
		Config:    config,
	}
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	return writeFile(filepath.Join(w.baseDir, "header.yaml"), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// WriteRunRecords replaces the run data with records. The file is written
// beside the old one and renamed, so readers only ever see complete snapshots.
// records is only read.
func (w *Writer) WriteRunRecords(records []RunRecord) error {
	path := filepath.Join(w.baseDir, "run_data.csv")
	err := writeFile(path, func(f *os.File) error {
		return writeRecords(f, records)
	})
	if err != nil {
		return err
	}

	w.gauges.observe(records)
	err = prometheus.WriteToTextfile(filepath.Join(w.baseDir, "trials.prom"), w.gauges.registry)
	if err != nil {
		return fmt.Errorf("failed to write trial metrics: %w", err)
	}
	return nil
}

func writeRecords(f *os.File, records []RunRecord) error {
	writer := csv.NewWriter(f)

	// Write header
	columns := []string{
		"trial", "timestamp", "duration", "steps", "collided", "lost", "mean_reward",
		"final_range", "estimate_error", "planning_time", "episodes",
		"cumulative_collisions", "cumulative_losses",
	}
	err := writer.Write(columns)
	if err != nil {
		return fmt.Errorf("failed to write run records header: %w", err)
	}

	// Write each row
	for i, record := range records {
		row := []string{
			strconv.Itoa(i + 1),
			record.Timestamp.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.Steps),
			strconv.FormatBool(record.Collided),
			strconv.FormatBool(record.Lost),
			strconv.FormatFloat(record.MeanReward, 'f', -1, 64),
			strconv.FormatFloat(record.FinalRange, 'f', -1, 64),
			strconv.FormatFloat(record.EstimateError, 'f', -1, 64),
			record.PlanningTime.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.CumulativeCollisions),
			strconv.Itoa(record.CumulativeLosses),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write run record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeFile writes through a temporary file in the same directory and
// renames it over path.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(f.Name())

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
