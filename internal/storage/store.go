package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/hairsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"frame", "time", "dt", "steps", "skipped", "smoothed", "accumulated", "boundaries"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo is what the caller knows about a run before it starts.
type RunInfo struct {
	Name     string  `json:"name"`
	Preset   string  `json:"preset,omitempty"`
	Scene    string  `json:"scene,omitempty"`
	Seed     int64   `json:"seed"`
	Rate     string  `json:"rate"`
	StepSize float64 `json:"step_size"`
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Info         RunInfo            `json:"info"`
	Frames       int                `json:"frames"`
	StepsTaken   int                `json:"steps_taken"`
	StepsSkipped int                `json:"steps_skipped"`
	Metrics      map[string]float64 `json:"metrics"`
	Final        sim.Accumulator    `json:"final"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    now,
		Info:         info,
		Frames:       len(result.Frames),
		StepsTaken:   result.StepsTaken,
		StepsSkipped: result.StepsSkipped,
		Metrics:      result.Metrics,
		Final:        result.Final,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteFramesCSV writes one row per frame under a fixed header.
func WriteFramesCSV(out io.Writer, frames []sim.FrameStats) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.FormatFloat(f.Dt, 'f', 6, 64),
			strconv.Itoa(f.Steps),
			strconv.Itoa(f.Skipped),
			strconv.FormatFloat(f.Smoothed, 'f', 6, 64),
			strconv.FormatFloat(f.Accumulated, 'f', 6, 64),
			strconv.Itoa(f.Boundaries),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the per-frame series back. Rows that fail to parse are
// skipped.
func (s *Store) LoadFrames(runID string) ([]sim.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.FrameStats{}, nil
	}

	frames := make([]sim.FrameStats, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}
		f, err := parseFrame(record)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseFrame(rec []string) (sim.FrameStats, error) {
	var (
		f    sim.FrameStats
		errs [8]error
	)
	f.Frame, errs[0] = strconv.Atoi(rec[0])
	f.Time, errs[1] = strconv.ParseFloat(rec[1], 64)
	f.Dt, errs[2] = strconv.ParseFloat(rec[2], 64)
	f.Steps, errs[3] = strconv.Atoi(rec[3])
	f.Skipped, errs[4] = strconv.Atoi(rec[4])
	f.Smoothed, errs[5] = strconv.ParseFloat(rec[5], 64)
	f.Accumulated, errs[6] = strconv.ParseFloat(rec[6], 64)
	f.Boundaries, errs[7] = strconv.Atoi(rec[7])
	for _, err := range errs {
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

// SaveState writes the accumulator so a later run can resume it exactly.
func SaveState(path string, acc sim.Accumulator) error {
	return writeJSON(path, acc)
}

func LoadState(path string) (sim.Accumulator, error) {
	var acc sim.Accumulator
	data, err := os.ReadFile(path)
	if err != nil {
		return acc, err
	}
	if err := json.Unmarshal(data, &acc); err != nil {
		return acc, fmt.Errorf("parse state %s: %w", path, err)
	}
	return acc, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
