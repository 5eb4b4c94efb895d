package engine

import (
    "context"
    "sort"
    "strings"
    "sync"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// ChangelogProvider fetches the full transition history of one ticket. It may
// fail per call; a failure never aborts a batch.
type ChangelogProvider interface {
    Changelog(ctx context.Context, key string) ([]domain.ChangelogEvent, error)
}

// MineCycle walks a ticket's transition history and extracts its cycle
// window: first entry into a development status, then the first later entry
// into an end status. Events are replayed chronologically; ties keep source
// order. The assignee is captured at the moment development starts, since the
// ticket may change hands afterwards. Returns ok=false when either end of the
// window is missing: an incomplete cycle contributes nothing, not zero.
func (e *Engine) MineCycle(key string, events []domain.ChangelogEvent) (domain.TicketTiming, bool) {
    evs := make([]domain.ChangelogEvent, len(events))
    copy(evs, events)
    sort.SliceStable(evs, func(i, j int) bool { return evs[i].At.Before(evs[j].At) })

    var t domain.TicketTiming
    t.Key = key
    currentAssignee := ""
    started := false
    for _, ev := range evs {
        if strings.EqualFold(ev.Field, "assignee") {
            currentAssignee = strings.TrimSpace(ev.To)
            continue
        }
        if !strings.EqualFold(ev.Field, "status") { continue }
        if !started {
            if domain.MatchesAny(ev.To, e.opts.DevStatuses) {
                t.DevStart = ev.At
                t.AssigneeAtStart = currentAssignee
                started = true
            }
            continue
        }
        if domain.MatchesAny(ev.To, e.opts.EndStatuses) {
            t.EndAt = ev.At
            t.WorkHours = BusinessHours(t.DevStart, t.EndAt)
            return t, true
        }
    }
    return domain.TicketTiming{Key: key}, false
}

// CountBounceBacks counts qa -> dev regressions in the history. This is a
// separate pass from cycle mining: a ticket bounces even if it never reaches
// an end status.
func (e *Engine) CountBounceBacks(events []domain.ChangelogEvent) int {
    n := 0
    for _, ev := range events {
        if !strings.EqualFold(ev.Field, "status") { continue }
        if domain.MatchesAny(ev.From, e.opts.QAStatuses) && domain.MatchesAny(ev.To, e.opts.DevStatuses) {
            n++
        }
    }
    return n
}

// MineTimings fetches and mines changelogs for a batch of tickets with a
// bounded fan-out so upstream rate limits are respected. Results are reduced
// on the receiving side only; worker goroutines share no mutable state. A
// failed or timed-out fetch degrades that ticket to "no timing data" and is
// reported in the failure count.
func (e *Engine) MineTimings(ctx context.Context, tickets []domain.Ticket, cl ChangelogProvider) ([]domain.TicketTiming, int) {
    if cl == nil || len(tickets) == 0 { return nil, 0 }

    type mined struct {
        timing domain.TicketTiming
        ok     bool
        err    error
    }
    jobs := make(chan domain.Ticket)
    results := make(chan mined)
    var wg sync.WaitGroup
    for w := 0; w < e.opts.Workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for tk := range jobs {
                events, err := cl.Changelog(ctx, tk.Key)
                if err != nil {
                    results <- mined{timing: domain.TicketTiming{Key: tk.Key}, err: err}
                    continue
                }
                t, ok := e.MineCycle(tk.Key, events)
                results <- mined{timing: t, ok: ok}
            }
        }()
    }
    go func() {
        for _, tk := range tickets { jobs <- tk }
        close(jobs)
    }()
    go func() { wg.Wait(); close(results) }()

    var out []domain.TicketTiming
    failures := 0
    for r := range results {
        if r.err != nil {
            failures++
            e.log.Error().Err(r.err).Str("key", r.timing.Key).Msg("changelog fetch failed; ticket skipped")
            continue
        }
        if r.ok { out = append(out, r.timing) }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
    return out, failures
}
