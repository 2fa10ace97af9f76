package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/career"
	"github.com/spigell/talentgraph/internal/profile"
)

const monthDuration = 30 * 24 * time.Hour

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Predict the next career steps of candidates",
	Run: func(cmd *cobra.Command, _ []string) {
		paths(cmd)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)

	pathsCmd.Flags().StringP("candidates", "c", "", "file with candidate records (json or yaml)")
	pathsCmd.Flags().String("candidate", "", "predict only for the candidate with this id")

	pathsCmd.MarkFlagRequired("candidates")
}

func paths(cmd *cobra.Command) {
	ctx := context.Background()
	config, logger := setup("paths")

	e, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading knowledge", zap.Error(err))
	}

	candidatesFile := cmd.Flag("candidates").Value.String()
	candidates, err := profile.LoadCandidates(candidatesFile)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	if id := cmd.Flag("candidate").Value.String(); id != "" {
		c := candidates.FindByID(id)
		if c == nil {
			logger.Fatal("candidate with given id not found", zap.String("candidate id", id))
		}
		candidates = &profile.Candidates{Items: []*profile.Candidate{c}}
	}

	graphs, err := e.buildCandidates(ctx, candidatesFile, candidates)
	if err != nil {
		logger.Fatal("building candidate graphs", zap.Error(err))
	}

	predictor := career.NewPredictor(e.knowledge,
		career.WithLimit(config.Career.Limit),
		career.WithOntology(e.registry.Current()),
		career.WithLogger(logger.Named("career")),
	)

	for i, g := range graphs {
		predicted, err := predictor.PredictPaths(g)
		if err != nil {
			logger.Fatal("predicting career paths", zap.String("candidate", candidates.Items[i].ID), zap.Error(err))
		}
		if err := renderPaths(os.Stdout, candidates.Items[i].ID, predicted); err != nil {
			logger.Fatal("rendering career paths", zap.Error(err))
		}
	}
}

func renderPaths(w io.Writer, candidate string, predicted []career.CareerPath) error {
	fmt.Fprintf(w, "\n%s: %d career paths\n", candidate, len(predicted))
	if len(predicted) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("From", "To", "Probability", "Months", "Required skills", "Actions")

	for _, p := range predicted {
		err := table.Append(
			p.CurrentRole,
			p.NextRole,
			fmt.Sprintf("%.2f", p.Probability),
			fmt.Sprintf("%.1f", float64(p.EstimatedTime)/float64(monthDuration)),
			strings.Join(p.RequiredSkills, ", "),
			strings.Join(p.RecommendedActions, "; "),
		)
		if err != nil {
			return err
		}
	}

	return table.Render()
}
