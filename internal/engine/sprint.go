package engine

import (
    "sort"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// SprintMetricsView is the per-sprint health view.
type SprintMetricsView struct {
    SprintID   int64  `json:"sprintId"`
    SprintName string `json:"sprintName"`
    TeamKey    string `json:"teamKey"`
    State      string `json:"state"`

    TotalTickets   int `json:"totalTickets"`
    PlannedTickets int `json:"plannedTickets"`
    AddedTickets   int `json:"addedTickets"`
    RemovedTickets int `json:"removedTickets"`
    ScopeTickets   int `json:"scopeTickets"`
    ClosedTickets  int `json:"closedTickets"`

    SuccessPercent float64 `json:"successPercent"`

    // Status buckets are independent classifiers, not a partition: one
    // ticket can count toward several of them.
    InDev      int `json:"inDev"`
    InQA       int `json:"inQa"`
    QAReady    int `json:"qaReady"`
    FinalPhase int `json:"finalPhase"`
    Done       int `json:"done"`

    StoryPointsTotal     float64 `json:"storyPointsTotal"`
    StoryPointsCompleted float64 `json:"storyPointsCompleted"`

    Assignees []domain.AssigneeStat `json:"assignees"`
}

// SprintMetrics aggregates one sprint and its tickets into the health view.
// Precomputed sprint totals win over derived counts when present: tickets
// removed after closure are invisible to a live sum but still reflected in
// the stored totals.
func (e *Engine) SprintMetrics(sp domain.Sprint) SprintMetricsView {
    v := SprintMetricsView{
        SprintID:   sp.ID,
        SprintName: sp.Name,
        TeamKey:    e.TeamKey(sp.Name),
        State:      sp.State,
    }

    derivedClosed := 0
    for _, t := range sp.Tickets {
        traits := domain.Classify(t.Status)
        if traits.Dev { v.InDev++ }
        if traits.QAActive { v.InQA++ }
        if traits.QAReady { v.QAReady++ }
        if traits.FinalPhase() { v.FinalPhase++ }
        if traits.StrictClosed() {
            v.Done++
            derivedClosed++
            v.StoryPointsCompleted += points(t)
        }
    }

    v.TotalTickets = countOr(sp.TotalTickets, len(sp.Tickets))
    v.PlannedTickets = countOr(sp.PlannedTickets, len(sp.Tickets))
    v.AddedTickets = countOr(sp.AddedTickets, 0)
    v.RemovedTickets = countOr(sp.RemovedTickets, 0)
    v.ClosedTickets = countOr(sp.ClosedTickets, derivedClosed)

    v.ScopeTickets = v.PlannedTickets + v.AddedTickets - v.RemovedTickets
    if v.ScopeTickets < 0 { v.ScopeTickets = 0 }

    denom := v.ScopeTickets
    if denom == 0 { denom = v.TotalTickets }
    v.SuccessPercent = pct(float64(v.ClosedTickets), float64(denom))

    if sp.StoryPointsTotal != nil && *sp.StoryPointsTotal > 0 {
        v.StoryPointsTotal = *sp.StoryPointsTotal
    } else {
        for _, t := range sp.Tickets { v.StoryPointsTotal += points(t) }
    }

    v.Assignees = e.assigneeRollup(sp.Tickets)
    return v
}

// assigneeRollup accumulates per-assignee totals. Unassigned tickets are
// skipped: an empty name would skew rankings, absence contributes nothing.
func (e *Engine) assigneeRollup(tickets []domain.Ticket) []domain.AssigneeStat {
    byName := map[string]*domain.AssigneeStat{}
    for _, t := range tickets {
        if t.Assignee == "" { continue }
        st, ok := byName[t.Assignee]
        if !ok {
            st = &domain.AssigneeStat{Name: t.Assignee}
            byName[t.Assignee] = st
        }
        traits := domain.Classify(t.Status)
        st.Tickets++
        st.StoryPoints += points(t)
        if traits.StrictClosed() {
            st.ClosedTickets++
            st.ClosedStoryPoints += points(t)
        }
        if traits.FinalPhase() { st.FinalPhaseTickets++ }
    }
    out := make([]domain.AssigneeStat, 0, len(byName))
    for _, st := range byName { out = append(out, *st) }
    sort.Slice(out, func(i, j int) bool {
        if out[i].StoryPoints != out[j].StoryPoints { return out[i].StoryPoints > out[j].StoryPoints }
        return out[i].Name < out[j].Name
    })
    return out
}

// countOr prefers a stored non-negative total over the derived fallback.
func countOr(stored *int, derived int) int {
    if stored != nil && *stored >= 0 { return *stored }
    return derived
}
