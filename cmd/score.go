package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/interest"
	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/pipeline"
	"github.com/sells-group/trip-planner/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score filtered events against an interest vector",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		interests, _ := cmd.Flags().GetString("interests")
		output, _ := cmd.Flags().GetString("output")
		explain, _ := cmd.Flags().GetBool("explain")

		sc, err := newScorer()
		if err != nil {
			return err
		}

		tbl, err := catalog.Open(artifactPath(input, pipeline.FilteredFile), "")
		if err != nil {
			return err
		}
		events, err := scorer.ParseInput(tbl)
		if err != nil {
			return err
		}
		vector, err := interest.Load(artifactPath(interests, pipeline.InterestsFile))
		if err != nil {
			return err
		}

		scored, err := sc.Score(events, vector)
		if err != nil {
			return err
		}
		ranked := scorer.Rank(scored)

		path := artifactPath(output, pipeline.ScoredFile)
		if err := pipeline.WriteAtomic(path, func(w io.Writer) error {
			return catalog.WriteScoredEvents(w, ranked)
		}); err != nil {
			return err
		}

		if explain {
			if err := printExplain(os.Stdout, sc, ranked, vector); err != nil {
				return err
			}
		}

		zap.L().Info("score: wrote scored events", zap.String("path", path), zap.Int("events", len(ranked)))
		return nil
	},
}

func printExplain(out io.Writer, sc *scorer.Scorer, ranked []model.ScoredEvent, vector model.InterestVector) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tEVENT\tCITY\tTOURISM\tMATCHED")
	for _, ev := range ranked {
		r := sc.ScoreEvent(ev.Event, vector)
		tourism := ""
		if r.Tourism {
			tourism = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			catalog.FormatScore(ev.RelevanceScore), ev.Name, ev.City, tourism, strings.Join(r.Matched, ","))
	}
	return w.Flush()
}

func init() {
	scoreCmd.Flags().String("input", "", "filtered events (default <artifacts>/filtered.csv)")
	scoreCmd.Flags().String("interests", "", "interest vector, JSON or YAML (default <artifacts>/interests.json)")
	scoreCmd.Flags().String("output", "", "output path (default <artifacts>/final.csv)")
	scoreCmd.Flags().Bool("explain", false, "print matched categories per event")
	rootCmd.AddCommand(scoreCmd)
}
