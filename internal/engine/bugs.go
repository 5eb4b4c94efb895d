package engine

import (
    "sort"
    "strings"
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// TeamBugAging summarizes bug flow for one team over its windowed sprints.
type TeamBugAging struct {
    TeamKey       string  `json:"teamKey"`
    Created       int     `json:"created"`
    Closed        int     `json:"closed"`
    Open          int     `json:"open"`
    AvgCloseDays  float64 `json:"avgCloseDays"`
    OldestCloseDays float64 `json:"oldestCloseDays"`
}

// BugAging reports bug creation/closure/aging per team. Bugs are deduplicated
// by key across the sprint and backlog pools before counting: a bug can
// surface in both, and the last-seen copy wins. Each sprint contributes the
// window [start, min(end, now)] so an active sprint is measured only up to
// the present.
func (e *Engine) BugAging(sprints, backlog []domain.Sprint, now time.Time) []TeamBugAging {
    type bugRef struct {
        ticket domain.Ticket
        team   string
    }
    bugs := map[string]bugRef{}
    collect := func(pool []domain.Sprint) {
        for _, sp := range pool {
            team := e.TeamKey(sp.Name)
            for _, t := range sp.Tickets {
                if !strings.Contains(strings.ToLower(t.Type), "bug") { continue }
                bugs[t.Key] = bugRef{ticket: t, team: team}
            }
        }
    }
    collect(sprints)
    collect(backlog)

    type window struct{ start, end time.Time }
    teamWindows := map[string][]window{}
    for _, sp := range sprints {
        if sp.StartAt == nil || sp.EndAt == nil { continue }
        end := *sp.EndAt
        if sp.State == domain.SprintActive && now.Before(end) { end = now }
        teamWindows[e.TeamKey(sp.Name)] = append(teamWindows[e.TeamKey(sp.Name)], window{start: *sp.StartAt, end: end})
    }

    stats := map[string]*TeamBugAging{}
    teamStat := func(team string) *TeamBugAging {
        st, ok := stats[team]
        if !ok {
            st = &TeamBugAging{TeamKey: team}
            stats[team] = st
        }
        return st
    }

    closeAges := map[string][]float64{}
    for _, b := range bugs {
        st := teamStat(b.team)
        t := b.ticket
        inAnyWindow := func(at *time.Time) bool {
            if at == nil { return false }
            for _, w := range teamWindows[b.team] {
                if !at.Before(w.start) && !at.After(w.end) { return true }
            }
            return false
        }
        if inAnyWindow(t.CreatedAt) { st.Created++ }
        closed := domain.IsStrictClosed(t.Status)
        if closed && inAnyWindow(t.ClosedAt) {
            st.Closed++
            if t.CreatedAt != nil && t.ClosedAt != nil {
                closeAges[b.team] = append(closeAges[b.team], BusinessDays(*t.CreatedAt, *t.ClosedAt))
            }
        }
        if !closed && !domain.Classify(t.Status).Cancelled { st.Open++ }
    }

    out := make([]TeamBugAging, 0, len(stats))
    for team, st := range stats {
        ages := closeAges[team]
        if len(ages) > 0 {
            sum, oldest := 0.0, 0.0
            for _, a := range ages {
                sum += a
                if a > oldest { oldest = a }
            }
            st.AvgCloseDays = sum / float64(len(ages))
            st.OldestCloseDays = oldest
        }
        out = append(out, *st)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].TeamKey < out[j].TeamKey })
    return out
}
