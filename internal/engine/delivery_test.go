package engine

import (
    "testing"
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

func TestDeliveryTable(t *testing.T) {
    e := newTestEngine()
    timings := []domain.TicketTiming{
        {Key: "ABC-1", AssigneeAtStart: "alice", DevStart: day(2024, time.May, 6), EndAt: day(2024, time.May, 8), WorkHours: 16},
        {Key: "ABC-2", AssigneeAtStart: "alice", DevStart: day(2024, time.May, 6), EndAt: day(2024, time.May, 10), WorkHours: 32},
        {Key: "ABC-3", AssigneeAtStart: "bob", DevStart: day(2024, time.May, 6), EndAt: day(2024, time.May, 7), WorkHours: 8},
        {Key: "ABC-4", AssigneeAtStart: "", DevStart: day(2024, time.May, 6), EndAt: day(2024, time.May, 7), WorkHours: 8},
    }
    tickets := []domain.Ticket{
        {Key: "ABC-1", Carryovers: 1},
        {Key: "ABC-2"},
        {Key: "ABC-3"},
    }

    out := e.DeliveryTable(timings, tickets)
    if len(out) != 2 { t.Fatalf("entries = %#v, want alice and bob only", out) }
    alice := out[0]
    if alice.Assignee != "alice" { t.Fatalf("sorted by assignee, got %#v", out) }
    if alice.Tickets != 2 || alice.TotalHours != 48 || alice.AverageHours != 24 {
        t.Fatalf("alice = %#v, want 2 tickets, 48h, avg 24", alice)
    }
    if alice.CarryoverRate != 50.0 {
        t.Fatalf("alice CarryoverRate = %v, want 50.0", alice.CarryoverRate)
    }
    if out[1].CarryoverRate != 0 { t.Fatalf("bob CarryoverRate = %v, want 0", out[1].CarryoverRate) }
}

func TestDeliveryTableEmpty(t *testing.T) {
    e := newTestEngine()
    if out := e.DeliveryTable(nil, nil); len(out) != 0 {
        t.Fatalf("no timings must yield no entries, got %#v", out)
    }
}
