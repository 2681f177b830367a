package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-eval/algorithms/pitch"
)

var noteUnits = []pitch.Unit{
	pitch.Hertz,
	pitch.AbsoluteCents,
	pitch.RelativeCents,
	pitch.MidiKey,
	pitch.MidiCent,
}

func newNoteCmd() *cobra.Command {
	var unitName string

	cmd := &cobra.Command{
		Use:   "note <value>",
		Short: "Show a pitch in every unit with its note name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			unit, err := pitch.ParseUnit(unitName)
			if err != nil {
				return err
			}
			p, err := pitch.New(unit, value)
			if err != nil {
				return err
			}
			return printNote(cmd, p)
		},
	}

	cmd.Flags().StringVar(&unitName, "unit", "hertz", "unit of value: hertz, absolute_cents, midi_key or midi_cent")
	return cmd
}

func printNote(cmd *cobra.Command, p pitch.Pitch) error {
	name, err := p.NoteName()
	if err != nil {
		return err
	}
	western, _ := p.IsWesternMusicalPitch()
	ideal, _ := p.IdealFrequency()
	offset, _ := p.CentsOffset()
	low, high, _ := p.NoteBounds()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, u := range noteUnits {
		v, err := p.In(u)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s:\t%.4f\n", u, v)
	}
	fmt.Fprintf(tw, "note:\t%s\n", name)
	fmt.Fprintf(tw, "ideal frequency:\t%.4f Hz\n", ideal)
	fmt.Fprintf(tw, "offset:\t%+.2f cents\n", offset)
	fmt.Fprintf(tw, "note range:\t[%.4f, %.4f) Hz\n", low, high)
	fmt.Fprintf(tw, "western pitch:\t%t\n", western)
	return tw.Flush()
}
