package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/matching"
	"github.com/spigell/talentgraph/internal/metrics"
	"github.com/spigell/talentgraph/internal/profile"
)

const (
	PromptBreakdown = "Show match breakdown"
	PromptDump      = "Dump results to file"
	PromptExit      = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptBreakdown, PromptDump, PromptExit},
}

// jobReport is the ranking of all candidates for one job.
type jobReport struct {
	job     *profile.Job
	results *matching.Results
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates against job openings",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("candidates", "c", "", "file with candidate records (json or yaml)")
	matchCmd.Flags().StringP("jobs", "J", "", "file with job records (json or yaml)")
	matchCmd.Flags().String("job", "", "rank only against the job with this id")
	matchCmd.Flags().String("candidate", "", "print the match breakdown of the candidate with this id")
	matchCmd.Flags().String("metrics-file", "", "write scoring metrics to this file in the prometheus text format")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the rankings and exit without prompting")

	matchCmd.MarkFlagRequired("candidates")
	matchCmd.MarkFlagRequired("jobs")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	config, logger := setup("match")

	e, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading knowledge", zap.Error(err))
	}

	candidatesFile := cmd.Flag("candidates").Value.String()
	candidates, err := profile.LoadCandidates(candidatesFile)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	jobs, err := profile.LoadJobs(cmd.Flag("jobs").Value.String())
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	if id := cmd.Flag("job").Value.String(); id != "" {
		job := jobs.FindByID(id)
		if job == nil {
			logger.Fatal("job with given id not found", zap.String("job id", id))
		}
		jobs = &profile.Jobs{Items: []*profile.Job{job}}
	}

	logger.Info("loaded records", zap.Int("candidates", candidates.Len()), zap.Int("jobs", jobs.Len()))

	if candidates.Len() == 0 || jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "nothing to match"))
		return
	}

	logger.Debug("candidates to rank", zap.Strings("ids", candidates.IDs()))

	candidateGraphs, err := e.buildCandidates(ctx, candidatesFile, candidates)
	if err != nil {
		logger.Fatal("building candidate graphs", zap.Error(err))
	}

	collectors := metrics.New()
	reports, err := rank(ctx, e, candidateGraphs, jobs, collectors)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if file := cmd.Flag("metrics-file").Value.String(); file != "" {
		if err := collectors.WriteToTextfile(file); err != nil {
			logger.Fatal("writing metrics", zap.Error(err))
		}
		logger.Info("metrics written", zap.String("filename", file))
	}

	for _, r := range reports {
		if err := renderRanking(os.Stdout, r); err != nil {
			logger.Fatal("rendering ranking", zap.Error(err))
		}
	}

	if id := cmd.Flag("candidate").Value.String(); id != "" {
		if err := renderCandidate(os.Stdout, reports, id); err != nil {
			logger.Fatal("rendering candidate breakdown", zap.Error(err))
		}
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, reports); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func rank(ctx context.Context, e *engine, candidateGraphs []*graph.Graph, jobs *profile.Jobs, observer matching.Observer) ([]jobReport, error) {
	workers := e.config.Scoring.Workers

	jobGraphs, err := e.builder.BuildJobs(ctx, jobs.Items, workers)
	if err != nil {
		return nil, fmt.Errorf("building job graphs: %w", err)
	}

	ranker, err := matching.NewRanker(e.registry, workers, e.config.Scoring.MinimumScore, e.logger.Named("matching"),
		matching.WithObserver(observer),
	)
	if err != nil {
		return nil, err
	}
	defer ranker.Release()

	reports := make([]jobReport, 0, len(jobGraphs))
	for i, jobGraph := range jobGraphs {
		results, err := ranker.Rank(ctx, candidateGraphs, jobGraph)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", jobs.Items[i].ID, err)
		}
		reports = append(reports, jobReport{job: jobs.Items[i], results: results})
	}

	return reports, nil
}

func handleAction(action string, logger *zap.Logger, reports []jobReport) error {
	switch action {
	case PromptBreakdown:
		result, err := selectResult(reports)
		if err != nil {
			return err
		}
		return renderBreakdown(os.Stdout, result)
	case PromptDump:
		for _, r := range reports {
			filename, err := r.results.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump results to file: %w", err)
			}
			logger.Info("dumping result to file", zap.String("job", r.job.ID), zap.String("filename", filename))
		}
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func selectResult(reports []jobReport) (*matching.MatchResult, error) {
	var (
		items   []string
		results []*matching.MatchResult
	)
	for _, r := range reports {
		for _, result := range r.results.Items {
			items = append(items, fmt.Sprintf("%s / %s (%.3f)", r.job.ID, result.CandidateID, result.TotalScore))
			results = append(results, result)
		}
	}

	if len(items) == 0 {
		return nil, errors.New("no results to show")
	}

	selector := promptui.Select{
		Label: "Match",
		Items: items,
		Size:  10,
	}

	i, _, err := selector.Run()
	if err != nil {
		return nil, err
	}

	return results[i], nil
}

// renderCandidate prints the breakdown of one candidate for every job it was
// ranked against.
func renderCandidate(w io.Writer, reports []jobReport, id string) error {
	nodeID := graph.NodeID(graph.KindCandidate, id)

	found := false
	for _, r := range reports {
		if result := r.results.FindByCandidate(nodeID); result != nil {
			found = true
			if err := renderBreakdown(w, result); err != nil {
				return err
			}
		}
	}
	if !found {
		return fmt.Errorf("candidate %q has no results above the minimum score", id)
	}
	return nil
}

func renderRanking(w io.Writer, r jobReport) error {
	fmt.Fprintf(w, "\n%s (%s): %d candidates\n", r.job.Title, r.job.ID, r.results.Len())

	factors := matching.DefaultFactors()
	header := []any{"#", "Candidate", "Score"}
	for _, f := range factors {
		header = append(header, f.Name())
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)

	for i, result := range r.results.Items {
		row := []any{i + 1, result.CandidateID, score(result.TotalScore)}
		for _, f := range factors {
			row = append(row, score(result.Breakdown[f.Name()]))
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}

	return table.Render()
}

func renderBreakdown(w io.Writer, result *matching.MatchResult) error {
	fmt.Fprintf(w, "\n%s x %s: %s\n", result.CandidateID, result.JobID, score(result.TotalScore))

	factors := tablewriter.NewWriter(w)
	factors.Header("Factor", "Weight", "Score", "Contribution")
	for _, f := range matching.DefaultFactors() {
		s := result.Breakdown[f.Name()]
		if err := factors.Append(f.Name(), score(f.Weight()), score(s), score(f.Weight()*s)); err != nil {
			return err
		}
	}
	if err := factors.Render(); err != nil {
		return err
	}

	if len(result.SkillMatches) > 0 {
		skills := tablewriter.NewWriter(w)
		skills.Header("Required", "Importance", "Min level", "Matched", "Similarity", "Ratio")
		for _, m := range result.SkillMatches {
			matched := m.Matched
			if matched == "" {
				matched = "-"
			}
			if err := skills.Append(m.Required, score(m.Importance), score(m.MinLevel), matched, score(m.Similarity), score(m.Ratio)); err != nil {
				return err
			}
		}
		if err := skills.Render(); err != nil {
			return err
		}
	}

	for _, insight := range result.Insights {
		fmt.Fprintf(w, "  - %s\n", insight)
	}

	return nil
}

func score(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
