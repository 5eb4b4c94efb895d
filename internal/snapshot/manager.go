// Package snapshot freezes a closed sprint's derived metrics into a durable
// record for historical reporting.
package snapshot

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/domain"
    "github.com/sprintlens/sprintlens/internal/engine"
)

// Store persists snapshots keyed by sprint ID. Upsert must be idempotent:
// closure events arrive at least once.
type Store interface {
    GetSprint(ctx context.Context, sprintID int64) (domain.Sprint, error)
    UpsertSnapshot(ctx context.Context, snap *domain.SprintSnapshot) error
}

// EnsureOptions carries the optional inputs of an Ensure call.
type EnsureOptions struct {
    // TotalsOverride replaces the recomputed totals wholesale, for closure
    // events that carry authoritative numbers from the tracker.
    TotalsOverride *domain.SnapshotTotals
    // Changelog enables the expensive per-ticket delivery-time tables. Nil
    // skips them; the snapshot is still complete without timing data.
    Changelog engine.ChangelogProvider
}

type Manager struct {
    log   zerolog.Logger
    store Store
    eng   *engine.Engine
    now   func() time.Time
}

func NewManager(log zerolog.Logger, store Store, eng *engine.Engine) *Manager {
    return &Manager{log: log, store: store, eng: eng, now: time.Now}
}

// Ensure recomputes the closed sprint's derived view and upserts it as the
// sprint's snapshot. Repeated closure events for an unchanged sprint converge
// to identical snapshot content. A single ticket's changelog failure degrades
// that ticket to "no timing data" without failing the snapshot.
func (m *Manager) Ensure(ctx context.Context, sprintID int64, opts EnsureOptions) (*domain.SprintSnapshot, error) {
    sp, err := m.store.GetSprint(ctx, sprintID)
    if err != nil { return nil, fmt.Errorf("snapshot: load sprint %d: %w", sprintID, err) }

    view := m.eng.SprintMetrics(sp)
    snap := &domain.SprintSnapshot{
        SprintID:   sp.ID,
        SprintName: sp.Name,
        TeamKey:    view.TeamKey,
        CapturedAt: m.now().UTC(),
        Totals: domain.SnapshotTotals{
            TotalTickets:         view.TotalTickets,
            ScopeTickets:         view.ScopeTickets,
            PlannedTickets:       view.PlannedTickets,
            AddedTickets:         view.AddedTickets,
            RemovedTickets:       view.RemovedTickets,
            ClosedTickets:        view.ClosedTickets,
            SuccessPercent:       view.SuccessPercent,
            StoryPointsTotal:     view.StoryPointsTotal,
            StoryPointsCompleted: view.StoryPointsCompleted,
        },
    }

    if opts.Changelog != nil {
        timings, failures := m.eng.MineTimings(ctx, sp.Tickets, opts.Changelog)
        if failures > 0 {
            m.log.Warn().Int64("sprint", sprintID).Int("failures", failures).Msg("snapshot: partial timing data")
        }
        snap.Totals.WorkedTickets = countWorked(sp, timings)
        if b, err := json.Marshal(timings); err == nil { snap.DeliveryJSON = b }
    }

    if opts.TotalsOverride != nil { snap.Totals = *opts.TotalsOverride }

    if b, err := json.Marshal(sp.Tickets); err == nil { snap.TicketsJSON = b }
    if b, err := json.Marshal(view.Assignees); err == nil { snap.AssigneesJSON = b }

    if err := m.store.UpsertSnapshot(ctx, snap); err != nil {
        return nil, fmt.Errorf("snapshot: upsert sprint %d: %w", sprintID, err)
    }
    m.log.Info().Int64("sprint", sprintID).Str("team", snap.TeamKey).Msg("snapshot ensured")
    return snap, nil
}

// countWorked counts tickets whose whole cycle window sits inside the
// sprint's own bounds; work spilling past either edge belongs to another
// sprint's story.
func countWorked(sp domain.Sprint, timings []domain.TicketTiming) int {
    if sp.StartAt == nil || sp.EndAt == nil { return 0 }
    n := 0
    for _, tm := range timings {
        if !tm.DevStart.Before(*sp.StartAt) && !tm.EndAt.After(*sp.EndAt) { n++ }
    }
    return n
}
