package engine

import (
    "testing"
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

func TestComparePreviousAtSameRelativeDay(t *testing.T) {
    e := newTestEngine()
    activeStart := day(2024, time.July, 15)
    prevStart := day(2024, time.July, 1)
    now := activeStart.AddDate(0, 0, 3)

    closedEarly := prevStart.AddDate(0, 0, 2)
    closedLate := prevStart.AddDate(0, 0, 8)
    closedNow := activeStart.AddDate(0, 0, 1)

    active := domain.Sprint{
        ID: 2, Name: "ABC Sprint 2", State: domain.SprintActive, StartAt: &activeStart,
        Tickets: []domain.Ticket{
            {Key: "ABC-10", Status: "Done", ClosedAt: &closedNow, StoryPoints: floatp(3)},
            {Key: "ABC-11", Status: "In Progress"},
        },
    }
    history := []domain.Sprint{
        {ID: 1, Name: "ABC Sprint 1", State: domain.SprintClosed, StartAt: &prevStart,
            Tickets: []domain.Ticket{
                {Key: "ABC-1", Status: "Done", ClosedAt: &closedEarly, StoryPoints: floatp(2)},
                {Key: "ABC-2", Status: "Done", ClosedAt: &closedLate, StoryPoints: floatp(8)},
            }},
        {ID: 3, Name: "XYZ Sprint 1", State: domain.SprintClosed, StartAt: &prevStart},
    }

    cmp := e.ComparePrevious(active, history, now)
    if cmp == nil { t.Fatalf("expected a comparison") }
    if cmp.PreviousName != "ABC Sprint 1" { t.Fatalf("PreviousName = %q", cmp.PreviousName) }
    if cmp.ElapsedDays != 3 { t.Fatalf("ElapsedDays = %d, want 3", cmp.ElapsedDays) }
    if cmp.ClosedNow != 1 || cmp.PointsNow != 3 {
        t.Fatalf("now = %d/%v, want 1/3", cmp.ClosedNow, cmp.PointsNow)
    }
    // At day 3 of the previous sprint only the early closure had happened.
    if cmp.ClosedPrevious != 1 || cmp.PointsPrevious != 2 {
        t.Fatalf("previous = %d/%v, want 1/2", cmp.ClosedPrevious, cmp.PointsPrevious)
    }
}

func TestComparePreviousNoHistory(t *testing.T) {
    e := newTestEngine()
    start := day(2024, time.July, 15)
    earlier := day(2024, time.July, 1)
    active := domain.Sprint{ID: 2, Name: "ABC Sprint 2", StartAt: &start}
    otherTeam := domain.Sprint{ID: 1, Name: "XYZ Sprint 1", StartAt: &earlier}

    if cmp := e.ComparePrevious(active, []domain.Sprint{otherTeam}, start); cmp != nil {
        t.Fatalf("no same-team predecessor must yield nil, got %#v", cmp)
    }
    if cmp := e.ComparePrevious(domain.Sprint{Name: "ABC Sprint 2"}, nil, start); cmp != nil {
        t.Fatalf("missing start date must yield nil, got %#v", cmp)
    }
}

func TestClosedByUnknownTimestamp(t *testing.T) {
    cutoff := day(2024, time.July, 3)
    n, pts := closedBy([]domain.Ticket{
        {Key: "ABC-1", Status: "Done", StoryPoints: floatp(5)},
    }, cutoff)
    if n != 1 || pts != 5 {
        t.Fatalf("closed ticket without timestamp counts on status: %d/%v", n, pts)
    }
}
