package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/internal/platform/artifact"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/internal/platform/notify"
	"github.com/mwozniak/jobrank/internal/platform/observability"
	"github.com/mwozniak/jobrank/modules/filter"
)

// Process exit codes. 0 and the generic fatal code follow the usual Unix
// convention; auth failure and user cancellation get their own codes so a
// caller script can tell "bad credentials" and "I hit ctrl-C" apart from
// an ordinary bug without scraping log output.
const (
	exitOK           = 0
	exitFatal        = 1
	exitAuthFailure  = 2
	exitCancellation = 3
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	if cfg.Observability.SentryDSN != "" {
		if err := observability.Init(cfg.Observability); err != nil {
			lg.Sugar().Warnw("failed to initialize crash reporting", "error", err)
		} else {
			defer observability.Flush(2 * time.Second)
		}
	}

	root := &cobra.Command{
		Use:   "jobrank",
		Short: "Scrapes, ranks, and autosaves co-op job postings against a résumé",
	}

	root.AddCommand(
		newBatchCmd(cfg, lg),
		newStreamCmd(cfg, lg),
		newDBStatsCmd(cfg, lg),
		newDBExportCmd(cfg, lg),
		newClearCacheCmd(cfg, lg),
		newAnalyzeCmd(cfg, lg),
		newCoverLetterCmd(cfg, lg),
		newApplyCmd(cfg, lg),
	)

	if err := root.Execute(); err != nil {
		observability.CaptureError("cli", err)
		os.Exit(exitCodeFor(err, lg))
	}
}

// exitCodeFor logs the failure and maps it to a process exit code,
// distinguishing auth failures and user cancellation from ordinary
// fatal errors.
func exitCodeFor(err error, lg *logger.Logger) int {
	switch {
	case errors.Is(err, context.Canceled):
		lg.Sugar().Warnw("run cancelled", "error", err)
		return exitCancellation
	case errs.KindOf(err) == errs.KindAuth:
		lg.Sugar().Errorw("authentication failed", "error", err)
		return exitAuthFailure
	default:
		lg.Sugar().Errorw("command failed", "error", err)
		return exitFatal
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// applyOverrides patches the config fields a subcommand is allowed to
// override at the CLI, leaving zero-value flags (not passed) untouched.
func applyOverrides(cfg *config.Config, folder string, minScore float64, maxItems int) *config.Config {
	out := *cfg
	if folder != "" {
		out.Pipeline.PortalFolder = folder
	}
	if minScore > 0 {
		out.Filter.MinMatchScore = minScore
	}
	if maxItems > 0 {
		out.Pipeline.MaxItems = maxItems
	}
	return &out
}

func addOverrideFlags(cmd *cobra.Command, folder *string, minScore *float64, maxItems *int) {
	cmd.Flags().StringVar(folder, "folder", "", "override the portal folder jobs are autosaved into")
	cmd.Flags().Float64Var(minScore, "min-score", 0, "override the minimum fit score required to keep a job")
	cmd.Flags().IntVar(maxItems, "max-items", 0, "override the maximum number of jobs processed in this run")
}

func newBatchCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var folder string
	var minScore float64
	var maxItems int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Enumerate every posting, score it, and print the filtered, ranked survivors",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			runCfg := applyOverrides(cfg, folder, minScore, maxItems)
			a, err := buildApp(ctx, runCfg, lg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			pairs, summary, err := a.orchestrator.RunBatch(ctx)
			if err != nil {
				return err
			}

			lg.Sugar().Infow("batch run complete",
				"jobs_enumerated", summary.JobsEnumerated,
				"jobs_scored", summary.JobsScored,
				"cache_hits", summary.CacheHits,
				"kept", summary.Kept,
				"errors", summary.Errors,
			)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pairs)
		},
	}
	addOverrideFlags(cmd, &folder, &minScore, &maxItems)
	return cmd
}

func newStreamCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var folder string
	var minScore float64
	var maxItems int
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Process postings as they are enumerated, autosaving qualifying jobs inline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			runCfg := applyOverrides(cfg, folder, minScore, maxItems)
			a, err := buildApp(ctx, runCfg, lg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.orchestrator.RunStream(ctx)
			if err != nil {
				return err
			}

			lg.Sugar().Infow("stream run complete",
				"jobs_enumerated", summary.JobsEnumerated,
				"jobs_scored", summary.JobsScored,
				"cache_hits", summary.CacheHits,
				"kept", summary.Kept,
				"autosaved", summary.Autosaved,
				"errors", summary.Errors,
			)

			if notify.Enabled(cfg.Notify) {
				n := notify.New(cfg.Notify)
				body := fmt.Sprintf(
					"enumerated=%d scored=%d cache_hits=%d kept=%d autosaved=%d errors=%d",
					summary.JobsEnumerated, summary.JobsScored, summary.CacheHits, summary.Kept, summary.Autosaved, summary.Errors,
				)
				if err := n.SendRunSummary(ctx, "jobrank stream run summary", body); err != nil {
					lg.Sugar().Warnw("failed to send run summary email", "error", err)
				}
			}
			return nil
		},
	}
	addOverrideFlags(cmd, &folder, &minScore, &maxItems)
	return cmd
}

func newDBStatsCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "db-stats",
		Short: "Print total and active job counts from the local store (match-cache rows are not counted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, lg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			total, err := a.jobs.Count(ctx)
			if err != nil {
				return err
			}
			active, err := a.jobs.Active(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("jobs_total=%d jobs_active=%d\n", total, len(active))
			return nil
		},
	}
}

func newDBExportCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var outPath string
	var minScore float64
	var maxItems int
	cmd := &cobra.Command{
		Use:   "db-export",
		Short: "Emit ranked matches for every active job as a human-readable report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			runCfg := applyOverrides(cfg, "", minScore, maxItems)
			a, err := buildApp(ctx, runCfg, lg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			active, err := a.jobs.Active(ctx)
			if err != nil {
				return err
			}

			pairs := make([]filter.Pair, 0, len(active))
			for _, job := range active {
				result, _, err := a.cache.Resolve(ctx, job, false)
				if err != nil {
					lg.Sugar().Warnw("scoring failed, skipping", "job_id", job.JobID, "error", err)
					continue
				}
				pairs = append(pairs, filter.Pair{Job: job, Result: result})
			}
			ranked := a.filter.ApplyBatch(pairs)
			if runCfg.Pipeline.MaxItems > 0 && len(ranked) > runCfg.Pipeline.MaxItems {
				ranked = ranked[:runCfg.Pipeline.MaxItems]
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			for i, p := range ranked {
				fmt.Fprintf(out, "%3d. %-60s fit=%.1f  %s @ %s\n", i+1, p.Job.Title, p.Result.FitScore, p.Job.Company, p.Job.Location)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write export to this path instead of stdout")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "override the minimum fit score required to appear in the report")
	cmd.Flags().IntVar(&maxItems, "max-items", 0, "limit the report to this many ranked jobs")
	return cmd
}

func newClearCacheCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached match result, forcing a full rescore on next run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, lg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.cache.Clear(ctx)
			if err != nil {
				return err
			}
			lg.Info("cache cleared", zap.Int("rows", n))
			return nil
		},
	}
}

func newAnalyzeCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Recompute and print the match result for a single stored job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" {
				return fmt.Errorf("--job-id is required")
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, lg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			job, err := a.jobs.Get(ctx, jobID)
			if err != nil {
				return err
			}

			result, _, err := a.cache.Resolve(ctx, job, true)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "job_id to analyze")
	return cmd
}

func newCoverLetterCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "cover-letter",
		Short: "Generate and render a cover letter for a stored job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" {
				return fmt.Errorf("--job-id is required")
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, lg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			job, err := a.jobs.Get(ctx, jobID)
			if err != nil {
				return err
			}

			id, outPath, err := a.coverLetters.Generate(ctx, job)
			if err != nil {
				return err
			}

			if artifact.Enabled(cfg.Artifact) {
				mirror, mErr := artifact.New(cfg.Artifact)
				if mErr != nil {
					lg.Sugar().Warnw("artifact mirror unavailable", "error", mErr)
				} else {
					key := fmt.Sprintf("cover-letters/%s.docx", jobID)
					if upErr := mirror.UploadFile(ctx, key, outPath, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"); upErr != nil {
						lg.Sugar().Warnw("failed to mirror cover letter", "error", upErr)
					}
				}
			}

			fmt.Printf("cover_letter_id=%d output_path=%s\n", id, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "job_id to generate a cover letter for")
	return cmd
}

func newApplyCmd(cfg *config.Config, lg *logger.Logger) *cobra.Command {
	var jobID string
	var coverLetterID int64
	var documents []string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Upload any given documents then submit an application for a stored job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" {
				return fmt.Errorf("--job-id is required")
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, lg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			var coverLetterIDPtr *int64
			if coverLetterID > 0 {
				coverLetterIDPtr = &coverLetterID
			}

			application, err := a.applications.Submit(ctx, jobID, coverLetterIDPtr, documents)
			if err != nil {
				return err
			}

			lg.Sugar().Infow("application submitted", "job_id", jobID, "status", application.Status)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(application)
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "job_id to apply to")
	cmd.Flags().Int64Var(&coverLetterID, "cover-letter-id", 0, "id of a previously generated cover letter to link")
	cmd.Flags().StringArrayVar(&documents, "document", nil, "path to a document to upload before applying (repeatable)")
	return cmd
}
