package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/community"
	"github.com/spigell/talentgraph/internal/metrics"
	"github.com/spigell/talentgraph/internal/profile"
	"github.com/spigell/talentgraph/internal/scheduler"
)

const (
	communitiesTask = "communities"
	shutdownTimeout = 10 * time.Second
)

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Group candidates into communities of similar profiles",
	Run: func(cmd *cobra.Command, _ []string) {
		communities(cmd)
	},
}

func init() {
	rootCmd.AddCommand(communitiesCmd)

	communitiesCmd.Flags().StringP("candidates", "c", "", "file with candidate records (json or yaml)")
	communitiesCmd.Flags().Bool("serve", false, "keep running and recompute communities on the configured schedule")
	communitiesCmd.Flags().String("schedule", "", "cron schedule of the recomputation in serve mode")
	communitiesCmd.Flags().String("metrics-addr", "", "address of the prometheus endpoint in serve mode")

	communitiesCmd.MarkFlagRequired("candidates")

	viper.BindPFlag("community.schedule", communitiesCmd.Flags().Lookup("schedule"))
	viper.BindPFlag("community.metrics-addr", communitiesCmd.Flags().Lookup("metrics-addr"))
}

func communities(cmd *cobra.Command) {
	ctx := context.Background()
	config, logger := setup("communities")

	e, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading knowledge", zap.Error(err))
	}

	path := cmd.Flag("candidates").Value.String()
	candidates, err := profile.LoadCandidates(path)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	collectors := metrics.New()
	service, err := newCommunityService(e, collectors)
	if err != nil {
		logger.Fatal("creating community service", zap.Error(err))
	}
	defer service.Release()

	snapshot, err := service.Run(ctx, candidates.Items)
	if err != nil {
		logger.Fatal("detecting communities", zap.Error(err))
	}

	if err := renderCommunities(os.Stdout, snapshot); err != nil {
		logger.Fatal("rendering communities", zap.Error(err))
	}

	if cmd.Flag("serve").Value.String() != "true" {
		return
	}

	if err := serve(e, service, collectors, path); err != nil {
		logger.Fatal("serving communities", zap.Error(err))
	}
}

func newCommunityService(e *engine, collectors *metrics.Collectors) (*community.Service, error) {
	cfg := e.config.Community

	detector := community.NewDetector(
		community.WithSimilarity(community.Cosine{Extractor: community.Extractor{
			Ontology:   e.registry.Current(),
			Industries: e.knowledge,
		}}),
		community.WithAlgorithm(community.Louvain{MaxIterations: cfg.MaxIterations}),
		community.WithThreshold(cfg.Threshold),
		community.WithObserver(collectors),
		community.WithLogger(e.logger.Named("community")),
	)

	return community.NewService(detector, cfg.Workers, e.logger.Named("community"))
}

// serve recomputes the communities on schedule until SIGINT or SIGTERM.
func serve(e *engine, service *community.Service, collectors *metrics.Collectors, path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := e.config.Community
	logger := e.logger

	var server *http.Server
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collectors.Handler())
		server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			logger.Info("serving metrics", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	sched := scheduler.New(logger)
	err := sched.AddTask(communitiesTask, cfg.Schedule, func(ctx context.Context) error {
		return refresh(ctx, service, path, logger)
	})
	if err != nil {
		return fmt.Errorf("scheduling %q: %w", cfg.Schedule, err)
	}

	sched.Start()
	<-ctx.Done()
	logger.Info("shutting down", zap.String("reason", "signal received"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sched.Stop(shutdownCtx)
	if server != nil {
		return server.Shutdown(shutdownCtx)
	}
	return nil
}

// refresh reloads the candidate file and recomputes the communities when the
// population changed.
func refresh(ctx context.Context, service *community.Service, path string, logger *zap.Logger) error {
	candidates, err := profile.LoadCandidates(path)
	if err != nil {
		return err
	}

	if !service.Stale(candidates.Items) {
		logger.Debug("skipping community refresh", zap.String("reason", "population unchanged"))
		return nil
	}

	done, ok := service.Refresh(ctx, candidates.Items)
	if !ok {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if snapshot := service.Latest(); snapshot != nil {
		logger.Info("communities refreshed",
			zap.Int("candidates", candidates.Len()),
			zap.Int("communities", len(snapshot.Communities)),
		)
	}
	return nil
}

func renderCommunities(w io.Writer, snapshot *community.Snapshot) error {
	fmt.Fprintf(w, "\nsnapshot %s: %d communities\n", snapshot.ID, len(snapshot.Communities))
	if snapshot.Fallback {
		fmt.Fprintln(w, "no community structure found, every candidate is its own community")
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Size", "Cohesion", "Seniority", "Top skills", "Industries", "Members")

	for _, c := range snapshot.Communities {
		err := table.Append(
			c.ID,
			c.Profile.Size,
			fmt.Sprintf("%.3f", c.CohesionScore),
			c.Profile.Seniority,
			strings.Join(c.Profile.TopSkills, ", "),
			strings.Join(c.Profile.Industries, ", "),
			strings.Join(c.Members, ", "),
		)
		if err != nil {
			return err
		}
	}

	return table.Render()
}
