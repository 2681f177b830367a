package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eval/evaluation"
	"github.com/RyanBlaney/sonido-eval/logging"
)

func newScoreCmd() *cobra.Command {
	var (
		reference  string
		hypothesis string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a transcribed melody against its reference",
		Long: `score compares two melodies given as comma separated tone,duration pairs,
for example --ref "60,2,62,2,64,4" --hyp "60,2,62,2,64,2".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := evaluation.ParseMelody(reference)
			if err != nil {
				return fmt.Errorf("reference: %w", err)
			}
			hyp, err := evaluation.ParseMelody(hypothesis)
			if err != nil {
				return fmt.Errorf("hypothesis: %w", err)
			}

			result, err := evaluation.NewScorer(logging.GetGlobalLogger()).Score(ref, hyp)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return evaluation.WriteScore(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&reference, "ref", "", "reference melody")
	cmd.Flags().StringVar(&hypothesis, "hyp", "", "transcribed melody")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}
