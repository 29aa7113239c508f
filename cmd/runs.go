package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded planning runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		limit, _ := cmd.Flags().GetInt("limit")
		status, _ := cmd.Flags().GetString("status")
		id, _ := cmd.Flags().GetString("id")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("runs: run history is disabled (store.driver is none)")
		}
		defer st.Close() //nolint:errcheck

		if id != "" {
			run, err := st.GetRun(ctx, id)
			if err != nil {
				return eris.Wrap(err, "runs show")
			}
			phases, err := st.ListPhases(ctx, id)
			if err != nil {
				return eris.Wrap(err, "runs phases")
			}
			return formatRunDetail(os.Stdout, run, phases)
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatus(status), Limit: limit})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}
		return formatRunsList(os.Stdout, runs)
	},
}

func formatRunsList(out io.Writer, runs []model.Run) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCITIES\tWINDOW\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s..%s\t%s\n",
			r.ID,
			r.Status,
			strings.Join(r.Request.Cities, ","),
			r.Request.Start, r.Request.End,
			r.CreatedAt.Format(time.RFC3339),
		)
	}
	return w.Flush()
}

func formatRunDetail(out io.Writer, run *model.Run, phases []model.RunPhase) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*model.Run
		Phases []model.RunPhase `json:"phases"`
	}{run, phases})
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsCmd.Flags().String("status", "", "filter by status")
	runsCmd.Flags().String("id", "", "show one run with its phases")
	rootCmd.AddCommand(runsCmd)
}
