package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/hairsim/internal/sim"
)

type ExportData struct {
	Info         RunInfo            `json:"info"`
	StepsTaken   int                `json:"steps_taken"`
	StepsSkipped int                `json:"steps_skipped"`
	Frames       []sim.FrameStats   `json:"frames"`
	Metrics      map[string]float64 `json:"metrics"`
	Final        sim.Accumulator    `json:"final"`
}

func newExport(info RunInfo, result *sim.Result) ExportData {
	return ExportData{
		Info:         info,
		StepsTaken:   result.StepsTaken,
		StepsSkipped: result.StepsSkipped,
		Frames:       result.Frames,
		Metrics:      result.Metrics,
		Final:        result.Final,
	}
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, info, result)
}

func WriteJSON(out io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(info, result))
}
