package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eval/algorithms/pitch"
	"github.com/RyanBlaney/sonido-eval/evaluation"
	"github.com/RyanBlaney/sonido-eval/logging"
)

// recordedTranscription is one stored transcriber output for a line
type recordedTranscription struct {
	evaluation.TrialParams
	Melody evaluation.Melody `json:"melody"`
}

type batchLine struct {
	evaluation.Line
	Transcriptions []recordedTranscription `json:"transcriptions"`
}

type batch struct {
	Lines []batchLine `json:"lines"`
}

// recordedTranscriber replays transcriptions read from a batch file
type recordedTranscriber map[string]map[evaluation.TrialParams]evaluation.Melody

func newRecordedTranscriber(b batch) recordedTranscriber {
	rt := make(recordedTranscriber, len(b.Lines))
	for _, l := range b.Lines {
		byParams := make(map[evaluation.TrialParams]evaluation.Melody, len(l.Transcriptions))
		for _, t := range l.Transcriptions {
			params := t.TrialParams
			if m, err := pitch.ParseMethod(params.Method); err == nil {
				params.Method = m.String()
			}
			byParams[params] = t.Melody
		}
		rt[l.Name] = byParams
	}
	return rt
}

func (rt recordedTranscriber) Transcribe(_ context.Context, line evaluation.Line, params evaluation.TrialParams) (evaluation.Melody, error) {
	m, ok := rt[line.Name][params]
	if !ok {
		return nil, fmt.Errorf("no transcription recorded for %s", params)
	}
	return m, nil
}

func readBatch(r io.Reader) (batch, error) {
	var b batch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return batch{}, fmt.Errorf("decode batch: %w", err)
	}
	return b, nil
}

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "evaluate [batch.json]",
		Aliases: []string{"sweep"},
		Short:   "Aggregate scores of recorded transcriptions over the parameter sweep",
		Long: `evaluate reads a batch of reference melodies with their recorded
transcriptions (one per sweep setting) from a file or stdin, scores every
setting and reports overall, per category and per line statistics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			b, err := readBatch(in)
			if err != nil {
				return err
			}

			lines := make([]evaluation.Line, len(b.Lines))
			for i, l := range b.Lines {
				lines[i] = l.Line
			}

			logger := logging.GetGlobalLogger()
			agg := evaluation.NewAggregator(logger)
			runner := evaluation.NewRunner(root.cfg.Sweep.Trials(), logger)
			if err := runner.Run(cmd.Context(), agg, lines, newRecordedTranscriber(b)); err != nil {
				return err
			}

			summary := agg.Summary()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return evaluation.WriteReport(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
