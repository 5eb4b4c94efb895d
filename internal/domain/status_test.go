package domain

import (
    "testing"
)

func TestIsStrictClosed(t *testing.T) {
    cases := []struct {
        status string
        want   bool
    }{
        {"Done", true},
        {"Closed", true},
        {"closed - released", true},
        {"Closed - Cancelled", false},
        {"Cancelled", false},
        {"Canceled", false},
        {"In Progress", false},
        {"", false},
    }
    for _, c := range cases {
        if got := IsStrictClosed(c.status); got != c.want {
            t.Fatalf("IsStrictClosed(%q) = %v, want %v", c.status, got, c.want)
        }
    }
}

func TestClassifyBucketsAreIndependent(t *testing.T) {
    tr := Classify("Ready for QA")
    if !tr.QAReady { t.Fatalf("expected QAReady for %q: %#v", "Ready for QA", tr) }
    if tr.Closed { t.Fatalf("qa-ready must not be closed: %#v", tr) }
    if !tr.FinalPhase() { t.Fatalf("qa-ready is final phase: %#v", tr) }

    tr = Classify("In Progress")
    if !tr.Dev || tr.QAActive || tr.Closed { t.Fatalf("unexpected traits for In Progress: %#v", tr) }

    tr = Classify("Done - Cancelled")
    if tr.FinalPhase() || tr.StrictClosed() {
        t.Fatalf("cancellation excludes done semantics: %#v", tr)
    }
}

func TestSnapshotDecodeLenient(t *testing.T) {
    s := SprintSnapshot{
        TicketsJSON:   []byte(`{"not":"an array"`),
        AssigneesJSON: []byte(`[{"name":"alice","tickets":2}]`),
    }
    if got := s.DecodeTickets(); got != nil {
        t.Fatalf("malformed blob should decode to empty, got %#v", got)
    }
    as := s.DecodeAssignees()
    if len(as) != 1 || as[0].Name != "alice" || as[0].Tickets != 2 {
        t.Fatalf("unexpected assignees: %#v", as)
    }
    if got := s.DecodeDelivery(); got != nil {
        t.Fatalf("absent blob should decode to empty, got %#v", got)
    }
}
