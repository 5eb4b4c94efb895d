package snapshot

import (
    "context"
    "errors"
    "reflect"
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/domain"
    "github.com/sprintlens/sprintlens/internal/engine"
)

type fakeStore struct {
    sprints map[int64]domain.Sprint
    saved   map[int64]domain.SprintSnapshot
    upserts int
    failUp  bool
}

func newFakeStore() *fakeStore {
    return &fakeStore{sprints: map[int64]domain.Sprint{}, saved: map[int64]domain.SprintSnapshot{}}
}

func (f *fakeStore) GetSprint(_ context.Context, id int64) (domain.Sprint, error) {
    sp, ok := f.sprints[id]
    if !ok { return domain.Sprint{}, errors.New("sprint not found") }
    return sp, nil
}

func (f *fakeStore) UpsertSnapshot(_ context.Context, snap *domain.SprintSnapshot) error {
    if f.failUp { return errors.New("db down") }
    f.upserts++
    f.saved[snap.SprintID] = *snap
    return nil
}

type fakeChangelog struct {
    byKey   map[string][]domain.ChangelogEvent
    failFor map[string]bool
}

func (f *fakeChangelog) Changelog(_ context.Context, key string) ([]domain.ChangelogEvent, error) {
    if f.failFor[key] { return nil, errors.New("upstream timeout") }
    return f.byKey[key], nil
}

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestManager(store Store) *Manager {
    m := NewManager(zerolog.Nop(), store, engine.New(zerolog.Nop(), engine.Options{}))
    at := day(2024, time.August, 1)
    m.now = func() time.Time { return at }
    return m
}

func closedSprint() domain.Sprint {
    start := day(2024, time.July, 1)
    end := day(2024, time.July, 12)
    pts := 5.0
    return domain.Sprint{
        ID: 11, Name: "ABC Sprint 6", State: domain.SprintClosed, StartAt: &start, EndAt: &end,
        Tickets: []domain.Ticket{
            {Key: "ABC-1", Assignee: "alice", Status: "Done", StoryPoints: &pts},
            {Key: "ABC-2", Assignee: "bob", Status: "In Progress"},
        },
    }
}

func TestEnsureIdempotent(t *testing.T) {
    store := newFakeStore()
    store.sprints[11] = closedSprint()
    m := newTestManager(store)

    first, err := m.Ensure(context.Background(), 11, EnsureOptions{})
    if err != nil { t.Fatalf("first ensure: %v", err) }
    second, err := m.Ensure(context.Background(), 11, EnsureOptions{})
    if err != nil { t.Fatalf("second ensure: %v", err) }

    if store.upserts != 2 { t.Fatalf("upserts = %d, want 2 (each event writes)", store.upserts) }
    if !reflect.DeepEqual(first.Totals, second.Totals) {
        t.Fatalf("repeated closure events must converge:\n%#v\n%#v", first.Totals, second.Totals)
    }
    if first.Totals.ClosedTickets != 1 || first.Totals.SuccessPercent != 50.0 {
        t.Fatalf("Totals = %#v, want 1 closed of 2, 50.0%%", first.Totals)
    }
    if first.TeamKey != "ABC" { t.Fatalf("TeamKey = %q", first.TeamKey) }
}

func TestEnsureTotalsOverride(t *testing.T) {
    store := newFakeStore()
    store.sprints[11] = closedSprint()
    m := newTestManager(store)

    override := domain.SnapshotTotals{TotalTickets: 9, ClosedTickets: 9, SuccessPercent: 100}
    snap, err := m.Ensure(context.Background(), 11, EnsureOptions{TotalsOverride: &override})
    if err != nil { t.Fatalf("ensure: %v", err) }
    if !reflect.DeepEqual(snap.Totals, override) {
        t.Fatalf("override must replace totals wholesale: %#v", snap.Totals)
    }
}

func TestEnsureChangelogFailureDegrades(t *testing.T) {
    store := newFakeStore()
    store.sprints[11] = closedSprint()
    m := newTestManager(store)

    cl := &fakeChangelog{
        byKey: map[string][]domain.ChangelogEvent{
            "ABC-1": {
                {At: day(2024, time.July, 2), Field: "status", From: "To Do", To: "In Progress"},
                {At: day(2024, time.July, 9), Field: "status", From: "In Progress", To: "Done"},
            },
        },
        failFor: map[string]bool{"ABC-2": true},
    }
    snap, err := m.Ensure(context.Background(), 11, EnsureOptions{Changelog: cl})
    if err != nil { t.Fatalf("a single ticket's fetch failure must not fail the snapshot: %v", err) }
    if snap.Totals.WorkedTickets != 1 {
        t.Fatalf("WorkedTickets = %d, want 1 (only the mined in-window cycle)", snap.Totals.WorkedTickets)
    }
    if len(snap.DeliveryJSON) == 0 { t.Fatalf("timing data should be captured") }
}

func TestEnsureErrors(t *testing.T) {
    store := newFakeStore()
    m := newTestManager(store)
    if _, err := m.Ensure(context.Background(), 99, EnsureOptions{}); err == nil {
        t.Fatalf("missing sprint must error")
    }

    store.sprints[11] = closedSprint()
    store.failUp = true
    if _, err := m.Ensure(context.Background(), 11, EnsureOptions{}); err == nil {
        t.Fatalf("store failure must surface")
    }
}
