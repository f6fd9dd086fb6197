// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/shoprunner/config"
	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/ingest"
	"github.com/cardinalhq/shoprunner/internal/pipeline"
	"github.com/cardinalhq/shoprunner/internal/queue"
	"github.com/cardinalhq/shoprunner/internal/sink"
	"github.com/cardinalhq/shoprunner/internal/trigger"
	"github.com/cardinalhq/shoprunner/internal/workerpool"
)

var (
	csvDir     string
	logDir     string
	requestDir string
	outputDir  string
	grpcPort   int
)

func init() {
	processCmd.Flags().StringVar(&csvDir, "csv-dir", "", "Directory receiving reference CSV drops")
	processCmd.Flags().StringVar(&logDir, "log-dir", "", "Directory receiving event log drops")
	processCmd.Flags().StringVar(&requestDir, "request-dir", "", "Directory receiving request drops")
	processCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for analytic output files")
	processCmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "Port for the log ingest gRPC server")

	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process [input-queue-capacity [output-queue-capacity [worker-count]]]",
	Short: "Run the streaming analytics pipeline",
	Long:  "Watch the drop directories, serve the log ingest RPC, and flush the five analytic summaries on their cadences.",
	Args:  cobra.MaximumNArgs(3),
	RunE:  runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cfg)
	if err := applyPositionalArgs(cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(cfg.Dirs.Output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	setupLogging("shoprunner-process")
	slog.Info("Starting pipeline",
		slog.Int("inputQueueSize", cfg.Pipeline.InputQueueSize),
		slog.Int("outputQueueSize", cfg.Pipeline.OutputQueueSize),
		slog.Int("workers", cfg.Pipeline.Workers),
		slog.Int("grpcPort", cfg.Ingest.GRPCPort))

	ctx, stop := handleSignals(context.Background())
	defer stop()

	refQ := queue.New[*frame.Table](cfg.Pipeline.InputQueueSize)
	logQ := queue.New[*frame.Table](cfg.Pipeline.InputQueueSize)
	reqQ := queue.New[*frame.Table](cfg.Pipeline.InputQueueSize)

	pool := workerpool.New(cfg.Pipeline.Workers)
	p := pipeline.Build(pipeline.Config{
		LogQ:          logQ,
		RefQ:          refQ,
		ReqQ:          reqQ,
		QueueCapacity: cfg.Pipeline.OutputQueueSize,
	}, pool)

	monitor := ingest.NewMonitor(ingest.MonitorConfig{
		CSVDir:         cfg.Dirs.CSV,
		LogDir:         cfg.Dirs.Log,
		RequestDir:     cfg.Dirs.Request,
		ReferenceFiles: cfg.Ingest.ReferenceFiles,
		Delimiter:      cfg.Delim(),
		RefQ:           refQ,
		LogQ:           logQ,
		ReqQ:           reqQ,
	})
	svc := ingest.NewService(ingest.ServiceConfig{
		GRPCPort:  cfg.Ingest.GRPCPort,
		Delimiter: cfg.Delim(),
		LogQ:      logQ,
	})

	// Ingestion triggers: the monitor fills the source queues, then the
	// pipeline pump walks the batches down the graph.
	scanTrigger := trigger.NewTimerTrigger(cfg.Ingest.ScanPeriod)
	scanTrigger.Register(monitor)
	scanTrigger.Register(p)
	requestTrigger := trigger.NewRequestTrigger(cfg.Ingest.RequestMin, cfg.Ingest.RequestMax)
	requestTrigger.Register(monitor)
	requestTrigger.Register(p)

	// Flush triggers: per-minute analytics and per-hour rankings.
	minuteTrigger := trigger.NewTimerTrigger(cfg.Flush.MinutePeriod)
	hourTrigger := trigger.NewTimerTrigger(cfg.Flush.HourPeriod)
	var repos []*sink.DataRepo
	for _, name := range pipeline.MinuteAnalytics {
		repo := sink.NewDataRepo(name, p.Slot(name), cfg.Dirs.Output, cfg.Delim())
		repos = append(repos, repo)
		minuteTrigger.Register(repo)
	}
	for _, name := range pipeline.HourAnalytics {
		repo := sink.NewDataRepo(name, p.Slot(name), cfg.Dirs.Output, cfg.Delim())
		repos = append(repos, repo)
		hourTrigger.Register(repo)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(gctx) })

	triggers := []interface {
		Activate() error
		Deactivate() error
	}{scanTrigger, requestTrigger, minuteTrigger, hourTrigger}
	for _, tr := range triggers {
		if err := tr.Activate(); err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("activate trigger: %w", err)
		}
	}

	err = g.Wait()
	slog.Info("Shutting down")

	var errs *multierror.Error
	errs = multierror.Append(errs, err)
	for _, tr := range triggers {
		errs = multierror.Append(errs, tr.Deactivate())
	}

	// Stop intake, let the pool finish the in-flight pump, then walk the
	// graph once more synchronously so every batch reaches its slot, and
	// write whatever accumulated.
	refQ.Close()
	logQ.Close()
	reqQ.Close()
	pool.Shutdown()
	p.DrainSync()
	for _, repo := range repos {
		repo.OnTimeTick()
	}

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	slog.Info("Shutdown complete")
	return nil
}

// applyFlagOverrides copies set flags over the loaded configuration.
func applyFlagOverrides(cfg *config.Config) {
	if csvDir != "" {
		cfg.Dirs.CSV = csvDir
	}
	if logDir != "" {
		cfg.Dirs.Log = logDir
	}
	if requestDir != "" {
		cfg.Dirs.Request = requestDir
	}
	if outputDir != "" {
		cfg.Dirs.Output = outputDir
	}
	if grpcPort != 0 {
		cfg.Ingest.GRPCPort = grpcPort
	}
}

// applyPositionalArgs parses the optional positional arguments:
// input-queue-capacity, output-queue-capacity, worker-count.
func applyPositionalArgs(cfg *config.Config, args []string) error {
	targets := []*int{
		&cfg.Pipeline.InputQueueSize,
		&cfg.Pipeline.OutputQueueSize,
		&cfg.Pipeline.Workers,
	}
	names := []string{"input-queue-capacity", "output-queue-capacity", "worker-count"}
	for i, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 31)
		if err != nil || n == 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", names[i], arg)
		}
		*targets[i] = int(n)
	}
	return nil
}
