package engine

import (
    "fmt"
    "sort"
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// Risk score weights. Bounce-backs dominate carryovers; a past-due ticket
// outweighs both.
const (
    riskWeightBounce    = 3
    riskWeightCarryover = 2
    riskWeightFinalOpen = 2
    riskWeightPastDue   = 5
)

// RiskView exposes the highest-scoring open tickets plus tallies.
type RiskView struct {
    Top      []domain.RiskSignal `json:"top"`
    Total    int                 `json:"total"`
    BySprint map[string]int      `json:"bySprint"`
}

// RiskSignals scores every non-strictly-closed ticket in the team-scoped
// sprint set. A ticket appears only when at least one reason contributes;
// silence means healthy.
func (e *Engine) RiskSignals(sprints []domain.Sprint, now time.Time) RiskView {
    view := RiskView{BySprint: map[string]int{}}
    var all []domain.RiskSignal

    for _, sp := range sprints {
        for _, t := range sp.Tickets {
            traits := domain.Classify(t.Status)
            if traits.StrictClosed() || traits.Cancelled { continue }

            score := 0
            var reasons []string
            if t.BounceBacks > 0 {
                score += t.BounceBacks * riskWeightBounce
                reasons = append(reasons, fmt.Sprintf("bounced back %d time(s)", t.BounceBacks))
            }
            if t.Carryovers > 0 {
                score += t.Carryovers * riskWeightCarryover
                reasons = append(reasons, fmt.Sprintf("carried over %d sprint(s)", t.Carryovers))
            }
            if traits.FinalPhase() {
                score += riskWeightFinalOpen
                reasons = append(reasons, "stuck in final phase")
            }
            if t.DueAt != nil && t.DueAt.Before(now) {
                score += riskWeightPastDue
                reasons = append(reasons, "past due date")
            }
            if len(reasons) == 0 { continue }

            all = append(all, domain.RiskSignal{
                Key:        t.Key,
                SprintName: sp.Name,
                Assignee:   t.Assignee,
                Status:     t.Status,
                Score:      score,
                AgeDays:    e.ticketAgeDays(t, now),
                Reasons:    reasons,
            })
            view.BySprint[sp.Name]++
        }
    }

    sort.SliceStable(all, func(i, j int) bool {
        if all[i].Score != all[j].Score { return all[i].Score > all[j].Score }
        return all[i].AgeDays > all[j].AgeDays
    })
    view.Total = len(all)
    if len(all) > riskTopN { all = all[:riskTopN] }
    view.Top = all
    return view
}

// ticketAgeDays measures business-day age from creation, falling back to the
// last update when creation is unknown. Both absent yields 0 age rather than
// an arbitrary epoch-based number.
func (e *Engine) ticketAgeDays(t domain.Ticket, now time.Time) float64 {
    ref := t.CreatedAt
    if ref == nil { ref = t.UpdatedAt }
    if ref == nil { return 0 }
    return BusinessDays(*ref, now)
}
