package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/san-kum/hairsim/internal/storage"
	"github.com/san-kum/hairsim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tRATE\tFRAMES\tSTEPS\tSKIPPED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Info.Rate,
			run.Frames,
			run.StepsTaken,
			run.StepsSkipped,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, step %.4fs)\n\n", meta.ID, meta.Info.Rate, meta.Info.StepSize)
	fmt.Print(viz.PlotFrames(frames, plotWidth, plotHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.WriteFramesCSV(out, frames)
}

func showState(cmd *cobra.Command, args []string) error {
	acc, err := storage.LoadState(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("accumulated time:   %.6fs\n", acc.AccumulatedTime)
	fmt.Printf("steps last frame:   %d\n", acc.StepsLastFrame)
	fmt.Printf("smoothed steps:     %.4f\n", acc.StepsLastFrameSmoothed)
	fmt.Printf("steps skipped:      %d\n", acc.StepsSkipped)
	return nil
}
