package engine

import (
    "testing"

    "github.com/sprintlens/sprintlens/internal/domain"
)

func intp(v int) *int          { return &v }
func floatp(v float64) *float64 { return &v }

func TestSprintMetricsDerived(t *testing.T) {
    e := newTestEngine()
    sp := domain.Sprint{ID: 7, Name: "ABC Sprint 7", State: domain.SprintActive}
    for i := 0; i < 6; i++ {
        sp.Tickets = append(sp.Tickets, domain.Ticket{Key: "ABC-" + string(rune('a'+i)), Status: "Done", StoryPoints: floatp(2)})
    }
    for i := 0; i < 3; i++ {
        sp.Tickets = append(sp.Tickets, domain.Ticket{Key: "ABC-x" + string(rune('a'+i)), Status: "In Progress", StoryPoints: floatp(3)})
    }
    sp.Tickets = append(sp.Tickets, domain.Ticket{Key: "ABC-q", Status: "In QA"})

    v := e.SprintMetrics(sp)
    if v.TotalTickets != 10 || v.ClosedTickets != 6 { t.Fatalf("totals = %d/%d, want 10/6", v.TotalTickets, v.ClosedTickets) }
    if v.SuccessPercent != 60.0 { t.Fatalf("SuccessPercent = %v, want 60.0", v.SuccessPercent) }
    if v.TeamKey != "ABC" { t.Fatalf("TeamKey = %q, want ABC", v.TeamKey) }
    if v.InDev != 3 || v.InQA != 1 || v.Done != 6 {
        t.Fatalf("buckets dev/qa/done = %d/%d/%d, want 3/1/6", v.InDev, v.InQA, v.Done)
    }
    if v.StoryPointsTotal != 21 || v.StoryPointsCompleted != 12 {
        t.Fatalf("points = %v/%v, want 21/12", v.StoryPointsTotal, v.StoryPointsCompleted)
    }
}

func TestSprintMetricsStoredTotalsWin(t *testing.T) {
    e := newTestEngine()
    sp := domain.Sprint{
        Name:           "ABC Sprint 8",
        TotalTickets:   intp(12),
        ClosedTickets:  intp(9),
        PlannedTickets: intp(10),
        AddedTickets:   intp(4),
        RemovedTickets: intp(2),
        // Live ticket state disagrees with the stored closure totals.
        Tickets: []domain.Ticket{{Key: "ABC-1", Status: "In Progress"}},
    }
    v := e.SprintMetrics(sp)
    if v.TotalTickets != 12 || v.ClosedTickets != 9 {
        t.Fatalf("stored totals must win, got %d/%d", v.TotalTickets, v.ClosedTickets)
    }
    if v.ScopeTickets != 12 { t.Fatalf("scope = %d, want 10+4-2=12", v.ScopeTickets) }
    if v.SuccessPercent != 75.0 { t.Fatalf("SuccessPercent = %v, want 75.0", v.SuccessPercent) }
}

func TestSprintMetricsScopeClamp(t *testing.T) {
    e := newTestEngine()
    sp := domain.Sprint{
        Name:           "ABC Sprint 9",
        PlannedTickets: intp(1),
        RemovedTickets: intp(5),
    }
    v := e.SprintMetrics(sp)
    if v.ScopeTickets != 0 { t.Fatalf("negative scope must clamp to 0, got %d", v.ScopeTickets) }
    if v.SuccessPercent != 0 { t.Fatalf("empty sprint SuccessPercent = %v, want 0", v.SuccessPercent) }
}

func TestAssigneeRollupOrdering(t *testing.T) {
    e := newTestEngine()
    tickets := []domain.Ticket{
        {Key: "ABC-1", Assignee: "bob", Status: "Done", StoryPoints: floatp(5)},
        {Key: "ABC-2", Assignee: "alice", Status: "In Progress", StoryPoints: floatp(5)},
        {Key: "ABC-3", Assignee: "carol", Status: "Ready for QA", StoryPoints: floatp(8)},
        {Key: "ABC-4", Status: "Done", StoryPoints: floatp(13)},
    }
    out := e.assigneeRollup(tickets)
    if len(out) != 3 { t.Fatalf("unassigned must be skipped, got %#v", out) }
    if out[0].Name != "carol" || out[1].Name != "alice" || out[2].Name != "bob" {
        t.Fatalf("order = %s/%s/%s, want carol/alice/bob (points desc, name asc)", out[0].Name, out[1].Name, out[2].Name)
    }
    if out[2].ClosedTickets != 1 || out[2].ClosedStoryPoints != 5 {
        t.Fatalf("bob closed stats = %#v", out[2])
    }
    if out[0].FinalPhaseTickets != 1 { t.Fatalf("qa-ready counts as final phase: %#v", out[0]) }
}
