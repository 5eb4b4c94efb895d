package engine

import (
    "sort"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// CapacityEntry is one assignee's story-point throughput per business day in
// one closed sprint.
type CapacityEntry struct {
    Assignee     string  `json:"assignee"`
    SprintName   string  `json:"sprintName"`
    ClosedPoints float64 `json:"closedPoints"`
    PointsPerDay float64 `json:"pointsPerDay"`
    Itemized     bool    `json:"itemized"`
}

// CapacityView rolls capacity entries up to a per-assignee average.
type CapacityView struct {
    Entries     []CapacityEntry    `json:"entries"`
    PerAssignee map[string]float64 `json:"perAssignee"`
}

// Capacity derives points-closed-per-business-day for each assignee in each
// closed sprint. When mined timings are available and the cycle window falls
// fully inside the sprint, the assignee's actual worked days divide their
// points; otherwise the points spread evenly over the sprint's business-day
// length.
func (e *Engine) Capacity(closed []domain.Sprint, timings map[int64][]domain.TicketTiming) CapacityView {
    view := CapacityView{PerAssignee: map[string]float64{}}
    sums := map[string]float64{}
    counts := map[string]int{}

    for _, sp := range closed {
        if sp.StartAt == nil || sp.EndAt == nil { continue }
        sprintDays := BusinessDays(*sp.StartAt, *sp.EndAt)
        if sprintDays <= 0 { sprintDays = 1 }

        closedPoints := map[string]float64{}
        for _, t := range sp.Tickets {
            if t.Assignee == "" || !domain.IsStrictClosed(t.Status) { continue }
            closedPoints[t.Assignee] += points(t)
        }

        // worked business days per assignee, from timings bounded by the
        // sprint window
        workedDays := map[string]float64{}
        for _, tm := range timings[sp.ID] {
            if tm.AssigneeAtStart == "" { continue }
            if tm.DevStart.Before(*sp.StartAt) || tm.EndAt.After(*sp.EndAt) { continue }
            workedDays[tm.AssigneeAtStart] += float64(tm.WorkHours) / HoursPerBusinessDay
        }

        for assignee, pts := range closedPoints {
            if pts <= 0 { continue }
            entry := CapacityEntry{Assignee: assignee, SprintName: sp.Name, ClosedPoints: pts}
            if days := workedDays[assignee]; days > 0 {
                entry.PointsPerDay = pts / days
                entry.Itemized = true
            } else {
                entry.PointsPerDay = pts / sprintDays
            }
            view.Entries = append(view.Entries, entry)
            sums[assignee] += entry.PointsPerDay
            counts[assignee]++
        }
    }

    for assignee, sum := range sums {
        view.PerAssignee[assignee] = sum / float64(counts[assignee])
    }
    sort.Slice(view.Entries, func(i, j int) bool {
        if view.Entries[i].Assignee != view.Entries[j].Assignee {
            return view.Entries[i].Assignee < view.Entries[j].Assignee
        }
        return view.Entries[i].SprintName < view.Entries[j].SprintName
    })
    return view
}
