package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/sprintlens/sprintlens/internal/adapters/jira"
    "github.com/sprintlens/sprintlens/internal/cache"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/engine"
    httpx "github.com/sprintlens/sprintlens/internal/http"
    "github.com/sprintlens/sprintlens/internal/jobs"
    "github.com/sprintlens/sprintlens/internal/logger"
    "github.com/sprintlens/sprintlens/internal/obs"
    "github.com/sprintlens/sprintlens/internal/repo"
    "github.com/sprintlens/sprintlens/internal/services"
    "github.com/sprintlens/sprintlens/internal/snapshot"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB
    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()
    repository := repo.NewRepository(db, log)

    // Engine
    eng := engine.New(log, engine.Options{
        DevStatuses:    cfg.DevStatuses,
        EndStatuses:    cfg.EndStatuses,
        QAStatuses:     cfg.QAStatuses,
        TeamWindow:     cfg.TeamWindow,
        DefaultTeamKey: cfg.DefaultTeamKey,
        Workers:        cfg.WorkersChangelog,
    })

    // Collaborators
    var changelog engine.ChangelogProvider
    if cfg.JiraBaseURL != "" {
        changelog = jira.NewClient(cfg, log)
    } else {
        log.Warn().Msg("JIRA_BASE_URL not set; delivery-time computation disabled")
    }

    mets := obs.New()
    snaps := snapshot.NewManager(log, repository, eng)
    svc := services.New(cfg, log, repository, eng, snaps, changelog, cache.New(), mets)

    // HTTP (gin)
    router := httpx.NewRouter(cfg, log, svc, mets)

    // Cron
    cr := jobs.NewCron(cfg, log, svc, repository)
    cr.Start()
    defer cr.Stop()

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
