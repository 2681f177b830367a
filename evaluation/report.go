package evaluation

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteReport renders a summary as plain text tables
func WriteReport(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Trials:\t%d\n", s.Trials)
	fmt.Fprintf(tw, "Mean note recognition rate:\t%.2f%%\n", s.MeanRecognitionRate)
	fmt.Fprintf(tw, "Mean F-score:\t%.2f%%\n", s.MeanFScore)
	fmt.Fprintf(tw, "Mean best rate per line:\t%.2f%%\n", s.MeanBestRecognitionRate)

	if len(s.Categories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "CATEGORY\tTRIALS\tMEAN RATE")
		for _, c := range s.Categories {
			fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", c.Category, c.Trials, c.MeanRecognitionRate)
		}
	}

	if len(s.Lines) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "LINE\tCATEGORY\tBEST RATE\tBEST F\tPARAMS")
		for _, l := range s.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%.2f%%\t%.2f%%\t%s\n",
				l.Name, l.Category, l.Best.Result.NoteRecognitionRate(), l.BestFScore, l.Best.Params)
		}
	}

	return tw.Flush()
}

// WriteScore renders a single result
func WriteScore(w io.Writer, r ScoreResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Reference notes:\t%d\n", r.ReferenceCount)
	fmt.Fprintf(tw, "Transcribed notes:\t%d\n", r.HypothesisCount)
	fmt.Fprintf(tw, "Hits (ref/hyp):\t%d/%d\n", r.HitsRef, r.HitsHyp)
	fmt.Fprintf(tw, "Recall:\t%.2f%%\n", 100*r.Recall)
	fmt.Fprintf(tw, "Precision:\t%.2f%%\n", 100*r.Precision)
	fmt.Fprintf(tw, "F-score:\t%.2f%%\n", r.FScorePercent)
	fmt.Fprintf(tw, "Note error:\t%.2f%%\n", r.NoteErrorPercent)
	fmt.Fprintf(tw, "Note recognition rate:\t%.2f%%\n", r.NoteRecognitionRate())
	return tw.Flush()
}
