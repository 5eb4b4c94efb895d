package services

import (
    "context"
    "fmt"
    "time"

    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/cache"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/domain"
    "github.com/sprintlens/sprintlens/internal/engine"
    "github.com/sprintlens/sprintlens/internal/obs"
    "github.com/sprintlens/sprintlens/internal/snapshot"
)

// Store is the read side of the sprint/ticket mirror plus snapshot access.
type Store interface {
    ListSprints(ctx context.Context, states ...string) ([]domain.Sprint, error)
    GetSprint(ctx context.Context, sprintID int64) (domain.Sprint, error)
    GetSnapshot(ctx context.Context, sprintID int64) (*domain.SprintSnapshot, error)
    ClosedSprintsWithoutSnapshot(ctx context.Context) ([]int64, error)
}

// ReportOptions is the query shape of a delivery report request.
type ReportOptions struct {
    TeamWindow      int  // most recent N sprints per team; 0 uses the configured default
    IncludeDelivery bool // opt into the expensive per-ticket timing computation
}

func (o ReportOptions) cacheKey() string {
    return fmt.Sprintf("report:w=%d:d=%t", o.TeamWindow, o.IncludeDelivery)
}

// ReportPayload carries every derived view for one report request.
type ReportPayload struct {
    GeneratedAt time.Time                         `json:"generatedAt"`
    Sprints     []engine.SprintMetricsView        `json:"sprints"`
    Risk        engine.RiskView                   `json:"risk"`
    BugAging    []engine.TeamBugAging             `json:"bugAging"`
    Capacity    engine.CapacityView               `json:"capacity"`
    Comparisons []engine.PeriodComparison         `json:"comparisons"`
    Delivery    map[string][]domain.DeliveryEntry `json:"delivery,omitempty"`
    TimingFailures int                            `json:"timingFailures,omitempty"`
}

type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    store Store
    eng   *engine.Engine
    snaps *snapshot.Manager
    jira  engine.ChangelogProvider
    cache *cache.Cache
    mets  *obs.Metrics
}

func New(cfg config.Config, log zerolog.Logger, store Store, eng *engine.Engine, snaps *snapshot.Manager, jira engine.ChangelogProvider, c *cache.Cache, mets *obs.Metrics) *Service {
    return &Service{cfg: cfg, log: log, store: store, eng: eng, snaps: snaps, jira: jira, cache: c, mets: mets}
}

// DeliveryReport assembles the full metrics payload over the team-scoped,
// recency-limited sprint sets. A short TTL cache keyed by query shape
// absorbs bursty repeated reads.
func (s *Service) DeliveryReport(ctx context.Context, opts ReportOptions) (*ReportPayload, error) {
    if opts.TeamWindow <= 0 { opts.TeamWindow = s.cfg.TeamWindow }
    if v, ok := s.cache.Get(opts.cacheKey()); ok {
        if p, ok := v.(*ReportPayload); ok {
            s.mets.ReportCacheHits.Inc()
            return p, nil
        }
    }
    s.mets.ReportRequests.Inc()
    now := time.Now().UTC()

    current, err := s.store.ListSprints(ctx, domain.SprintActive, domain.SprintClosed)
    if err != nil { return nil, fmt.Errorf("report: list sprints: %w", err) }
    backlog, err := s.store.ListSprints(ctx, domain.SprintBacklog, domain.SprintPlanned)
    if err != nil { return nil, fmt.Errorf("report: list backlog: %w", err) }

    limited := s.eng.LimitPerTeam(current, opts.TeamWindow)

    payload := &ReportPayload{GeneratedAt: now}
    var closed []domain.Sprint
    for _, sp := range limited {
        payload.Sprints = append(payload.Sprints, s.eng.SprintMetrics(sp))
        if sp.State == domain.SprintClosed { closed = append(closed, sp) }
    }
    payload.Risk = s.eng.RiskSignals(limited, now)
    payload.BugAging = s.eng.BugAging(limited, backlog, now)

    for _, sp := range limited {
        if sp.State != domain.SprintActive { continue }
        if cmp := s.eng.ComparePrevious(sp, limited, now); cmp != nil {
            payload.Comparisons = append(payload.Comparisons, *cmp)
        }
    }

    timings := map[int64][]domain.TicketTiming{}
    if opts.IncludeDelivery && s.jira != nil {
        payload.Delivery = map[string][]domain.DeliveryEntry{}
        for _, sp := range limited {
            mined, failures := s.eng.MineTimings(ctx, sp.Tickets, s.jira)
            if failures > 0 { s.mets.ChangelogFailures.Add(float64(failures)) }
            payload.TimingFailures += failures
            timings[sp.ID] = mined
            if table := s.eng.DeliveryTable(mined, sp.Tickets); len(table) > 0 {
                payload.Delivery[sp.Name] = table
            }
        }
    }
    payload.Capacity = s.eng.Capacity(closed, timings)

    s.cache.Put(opts.cacheKey(), payload, s.cfg.CacheTTL)
    return payload, nil
}

// EnsureSnapshot is the sprint-closure entry point; safe under at-least-once
// delivery of closure events.
func (s *Service) EnsureSnapshot(ctx context.Context, sprintID int64, override *domain.SnapshotTotals) (*domain.SprintSnapshot, error) {
    snap, err := s.snaps.Ensure(ctx, sprintID, snapshot.EnsureOptions{
        TotalsOverride: override,
        Changelog:      s.jira,
    })
    if err != nil { return nil, err }
    s.mets.SnapshotsWritten.Inc()
    s.cache.Flush()
    return snap, nil
}

// GetSnapshot reads a stored snapshot for historical reporting.
func (s *Service) GetSnapshot(ctx context.Context, sprintID int64) (*domain.SprintSnapshot, error) {
    return s.store.GetSnapshot(ctx, sprintID)
}

// SweepSnapshots converges closed sprints that missed their closure event.
// Per-sprint failures are logged and skipped; the sweep itself never fails.
func (s *Service) SweepSnapshots(ctx context.Context) error {
    ids, err := s.store.ClosedSprintsWithoutSnapshot(ctx)
    if err != nil { return err }
    for _, id := range ids {
        if _, err := s.EnsureSnapshot(ctx, id, nil); err != nil {
            s.log.Error().Err(err).Int64("sprint", id).Msg("sweep: snapshot failed")
        }
    }
    if len(ids) > 0 { s.log.Info().Int("count", len(ids)).Msg("sweep: snapshots ensured") }
    return nil
}
