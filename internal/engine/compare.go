package engine

import (
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// PeriodComparison pits an active sprint against the team's previous sprint
// at the same relative day, not against its full-sprint totals.
type PeriodComparison struct {
    SprintName     string  `json:"sprintName"`
    PreviousName   string  `json:"previousName"`
    ElapsedDays    int     `json:"elapsedDays"`
    ClosedNow      int     `json:"closedNow"`
    ClosedPrevious int     `json:"closedPrevious"`
    PointsNow      float64 `json:"pointsNow"`
    PointsPrevious float64 `json:"pointsPrevious"`
}

// ComparePrevious projects the active sprint's elapsed window onto the most
// recent earlier sprint of the same team. Comparing "at day N" keeps the
// comparison fair mid-sprint. Returns nil when the sprint has no start date
// or the team has no earlier sprint to compare against.
func (e *Engine) ComparePrevious(active domain.Sprint, history []domain.Sprint, now time.Time) *PeriodComparison {
    if active.StartAt == nil { return nil }
    team := e.TeamKey(active.Name)

    var prev *domain.Sprint
    for i := range history {
        h := &history[i]
        if h.ID == active.ID || e.TeamKey(h.Name) != team { continue }
        if h.StartAt == nil || !h.StartAt.Before(*active.StartAt) { continue }
        if prev == nil || h.StartAt.After(*prev.StartAt) { prev = h }
    }
    if prev == nil { return nil }

    elapsed := now.Sub(*active.StartAt)
    if elapsed < 0 { elapsed = 0 }
    prevCutoff := prev.StartAt.Add(elapsed)

    cmp := &PeriodComparison{
        SprintName:   active.Name,
        PreviousName: prev.Name,
        ElapsedDays:  int(elapsed.Hours() / 24),
    }
    cmp.ClosedNow, cmp.PointsNow = closedBy(active.Tickets, now)
    cmp.ClosedPrevious, cmp.PointsPrevious = closedBy(prev.Tickets, prevCutoff)
    return cmp
}

// closedBy counts strictly-closed tickets whose closure happened by the
// cutoff. A closed ticket without a closure timestamp counts on current
// status alone: there is nothing to place it after the cutoff with.
func closedBy(tickets []domain.Ticket, cutoff time.Time) (int, float64) {
    n, pts := 0, 0.0
    for _, t := range tickets {
        if !domain.IsStrictClosed(t.Status) { continue }
        if t.ClosedAt != nil && t.ClosedAt.After(cutoff) { continue }
        n++
        pts += points(t)
    }
    return n, pts
}
