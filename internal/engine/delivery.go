package engine

import (
    "sort"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// DeliveryTable folds mined timings into per-assignee delivery aggregates.
// The carryover rate comes from the sprint's current ticket state, the hours
// from the mined cycle windows; tickets without timing data contribute to
// neither (absent, not zero).
func (e *Engine) DeliveryTable(timings []domain.TicketTiming, tickets []domain.Ticket) []domain.DeliveryEntry {
    carryoversByKey := map[string]int{}
    for _, t := range tickets { carryoversByKey[t.Key] = t.Carryovers }

    type acc struct {
        entry      domain.DeliveryEntry
        carryovers int
    }
    byAssignee := map[string]*acc{}
    for _, tm := range timings {
        name := tm.AssigneeAtStart
        if name == "" { continue }
        a, ok := byAssignee[name]
        if !ok {
            a = &acc{entry: domain.DeliveryEntry{Assignee: name}}
            byAssignee[name] = a
        }
        a.entry.Tickets++
        a.entry.TotalHours += tm.WorkHours
        if carryoversByKey[tm.Key] > 0 { a.carryovers++ }
    }

    out := make([]domain.DeliveryEntry, 0, len(byAssignee))
    for _, a := range byAssignee {
        if a.entry.Tickets > 0 {
            a.entry.AverageHours = float64(a.entry.TotalHours) / float64(a.entry.Tickets)
            a.entry.CarryoverRate = pct(float64(a.carryovers), float64(a.entry.Tickets))
        }
        out = append(out, a.entry)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Assignee < out[j].Assignee })
    return out
}
