package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/platform/llm"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/internal/platform/portal"
	"github.com/mwozniak/jobrank/internal/platform/render"
	"github.com/mwozniak/jobrank/internal/platform/store"
	applicationrepository "github.com/mwozniak/jobrank/modules/applications/repository"
	applicationservice "github.com/mwozniak/jobrank/modules/applications/service"
	coverletterrepository "github.com/mwozniak/jobrank/modules/coverletters/repository"
	coverletterservice "github.com/mwozniak/jobrank/modules/coverletters/service"
	"github.com/mwozniak/jobrank/modules/embedding"
	"github.com/mwozniak/jobrank/modules/filter"
	foldersrepository "github.com/mwozniak/jobrank/modules/folders/repository"
	folderservice "github.com/mwozniak/jobrank/modules/folders/service"
	jobrepository "github.com/mwozniak/jobrank/modules/jobs/repository"
	jobservice "github.com/mwozniak/jobrank/modules/jobs/service"
	"github.com/mwozniak/jobrank/modules/lexicon"
	"github.com/mwozniak/jobrank/modules/matcher"
	"github.com/mwozniak/jobrank/modules/matchcache"
	matchcacherepository "github.com/mwozniak/jobrank/modules/matchcache/repository"
	cacheservice "github.com/mwozniak/jobrank/modules/matchcache/service"
	"github.com/mwozniak/jobrank/modules/pipeline"
	"github.com/mwozniak/jobrank/modules/requirements"
	"github.com/mwozniak/jobrank/modules/resumeindex"
)

// app bundles every wired collaborator a subcommand might need.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Client

	jobs         *jobservice.JobService
	cache        *cacheservice.CacheService
	filter       *filter.Engine
	folders      *folderservice.FolderService
	coverLetters *coverletterservice.CoverLetterService
	applications *applicationservice.ApplicationService
	orchestrator *pipeline.Orchestrator

	session portal.Session
}

// buildApp wires every collaborator a subcommand might need. needsPortal
// controls whether a browser session (and the folder/application services
// that depend on one) is constructed: analyze, db-stats, db-export, and
// clear-cache never touch the portal and must not pay its startup cost
// or require a reachable browser.
func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger, needsPortal bool) (*app, error) {
	storeClient, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.RunMigrations(cfg.Store, storeClient, log); err != nil {
		storeClient.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	lx, err := lexicon.Load(cfg.Matcher.TechLexiconPath)
	if err != nil {
		storeClient.Close()
		return nil, fmt.Errorf("load tech lexicon: %w", err)
	}
	skip, err := requirements.LoadSkipList(cfg.Matcher.NoiseSkipPhrasesPath)
	if err != nil {
		storeClient.Close()
		return nil, fmt.Errorf("load noise skip list: %w", err)
	}

	var resumeText string
	if strings.EqualFold(filepath.Ext(cfg.Matcher.ResumeSourcePath), ".pdf") {
		resumeText, err = resumeindex.ExtractText(cfg.Matcher.ResumeSourcePath)
	} else {
		var resumeBytes []byte
		resumeBytes, err = os.ReadFile(cfg.Matcher.ResumeSourcePath)
		resumeText = string(resumeBytes)
	}
	if err != nil {
		storeClient.Close()
		return nil, fmt.Errorf("read resume source: %w", err)
	}

	embedder := embedding.NewHashProvider()

	index, loadErr := resumeindex.Load(cfg.Matcher.IndexManifestPath)
	if loadErr != nil || resumeindex.NeedsRebuild(index.Manifest, resumeText, embedding.ModelID) {
		log.Sugar().Infow("rebuilding resume index", "path", cfg.Matcher.IndexManifestPath)
		var buildErr error
		index, buildErr = resumeindex.Build(ctx, embedder, resumeText, embedding.ModelID)
		if buildErr != nil {
			storeClient.Close()
			return nil, fmt.Errorf("build resume index: %w", buildErr)
		}
		if err := index.Save(cfg.Matcher.IndexManifestPath); err != nil {
			log.Sugar().Warnw("failed to persist resume index", "error", err)
		}
	}

	version := matchcache.EngineVersion(cfg.Matcher.Weights, cfg.Matcher.SimilarityThreshold, lx.Hash(), skip.Hash(), embedding.ModelID)
	scorer := matcher.NewScorer(lx, skip, embedder, index, resumeText, cfg.Matcher, version)

	jobRepo := jobrepository.NewJobRepository(storeClient.DB)
	jobSvc := jobservice.New(jobRepo, log)

	matchRepo := matchcacherepository.NewMatchRepository(storeClient.DB)
	cache := cacheservice.New(matchRepo, scorer, version, log)

	flt := filter.New(cfg.Filter)

	coverRepo := coverletterrepository.NewCoverLetterRepository(storeClient.DB)
	llmClient := llm.New(cfg.LLM.APIKey, cfg.LLM.Model)
	renderer := render.NewDocxRenderer()
	coverLetters := coverletterservice.New(coverRepo, llmClient, renderer, cfg.Pipeline.OutputPath, resumeText)

	result := &app{
		cfg:          cfg,
		log:          log,
		store:        storeClient,
		jobs:         jobSvc,
		cache:        cache,
		filter:       flt,
		coverLetters: coverLetters,
	}

	if !needsPortal {
		return result, nil
	}

	session, err := portal.New(cfg.Portal, log)
	if err != nil {
		storeClient.Close()
		return nil, fmt.Errorf("create portal session: %w", err)
	}

	folderRepo := foldersrepository.NewFolderRepository(storeClient.DB)
	folders := folderservice.New(folderRepo, session, log)

	appRepo := applicationrepository.NewApplicationRepository(storeClient.DB)
	applications := applicationservice.New(appRepo, session)

	orch := pipeline.New(session, jobSvc, cache, flt, folders, log, cfg.Pipeline, llmClient)

	result.folders = folders
	result.applications = applications
	result.orchestrator = orch
	result.session = session

	return result, nil
}

func (a *app) Close() {
	if a.orchestrator != nil {
		if err := a.orchestrator.Close(); err != nil {
			a.log.Sugar().Warnw("error closing portal session", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Sugar().Warnw("error closing store", "error", err)
	}
}
