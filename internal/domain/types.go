package domain

import "time"

// Sprint lifecycle states as reported by the external tracker mirror.
const (
    SprintPlanned = "planned"
    SprintActive  = "active"
    SprintClosed  = "closed"
    SprintBacklog = "backlog"
)

// Ticket is a mirrored tracker issue. Status is free text from the tracker,
// classified downstream by keyword matching, never an enum. Nil timestamps
// and points mean "unknown", not zero.
type Ticket struct {
    Key         string     `json:"key"`
    Summary     string     `json:"summary"`
    Status      string     `json:"status"`
    Assignee    string     `json:"assignee,omitempty"`
    Type        string     `json:"type"`
    StoryPoints *float64   `json:"storyPoints,omitempty"`
    BounceBacks int        `json:"bounceBacks"`
    Carryovers  int        `json:"carryovers"`
    CreatedAt   *time.Time `json:"createdAt,omitempty"`
    ClosedAt    *time.Time `json:"closedAt,omitempty"`
    UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
    DueAt       *time.Time `json:"dueAt,omitempty"`
}

// Sprint owns a collection of tickets. The precomputed totals, when present
// (non-negative counts, positive points), take precedence over summing the
// current ticket state: they may reflect scope changes no longer visible.
type Sprint struct {
    ID      int64      `json:"id"`
    Name    string     `json:"name"`
    State   string     `json:"state"`
    StartAt *time.Time `json:"startAt,omitempty"`
    EndAt   *time.Time `json:"endAt,omitempty"`

    TotalTickets     *int     `json:"totalTickets,omitempty"`
    ClosedTickets    *int     `json:"closedTickets,omitempty"`
    PlannedTickets   *int     `json:"plannedTickets,omitempty"`
    AddedTickets     *int     `json:"addedTickets,omitempty"`
    RemovedTickets   *int     `json:"removedTickets,omitempty"`
    StoryPointsTotal *float64 `json:"storyPointsTotal,omitempty"`

    Tickets []Ticket `json:"tickets,omitempty"`
}

// ChangelogEvent is one field transition from a ticket's history. Transient:
// fetched on demand, replayed, never persisted by this engine.
type ChangelogEvent struct {
    At    time.Time
    Field string
    From  string
    To    string
}

// TicketTiming is the mined cycle window for a single ticket.
type TicketTiming struct {
    Key             string    `json:"key"`
    AssigneeAtStart string    `json:"assigneeAtStart,omitempty"`
    DevStart        time.Time `json:"devStart"`
    EndAt           time.Time `json:"endAt"`
    WorkHours       int       `json:"workHours"`
}

// DeliveryEntry is a per-assignee timing aggregate, derived, not persisted.
type DeliveryEntry struct {
    Assignee      string  `json:"assignee"`
    Tickets       int     `json:"tickets"`
    TotalHours    int     `json:"totalHours"`
    AverageHours  float64 `json:"averageHours"`
    CarryoverRate float64 `json:"carryoverRate"`
}

// RiskSignal is computed at request time for a single open ticket.
type RiskSignal struct {
    Key        string   `json:"key"`
    SprintName string   `json:"sprintName"`
    Assignee   string   `json:"assignee,omitempty"`
    Status     string   `json:"status"`
    Score      int      `json:"score"`
    AgeDays    float64  `json:"ageDays"`
    Reasons    []string `json:"reasons"`
}

// AssigneeStat is the per-assignee rollup inside one sprint.
type AssigneeStat struct {
    Name              string  `json:"name"`
    Tickets           int     `json:"tickets"`
    ClosedTickets     int     `json:"closedTickets"`
    FinalPhaseTickets int     `json:"finalPhaseTickets"`
    StoryPoints       float64 `json:"storyPoints"`
    ClosedStoryPoints float64 `json:"closedStoryPoints"`
}

// SnapshotTotals is the frozen totals blob of a closed sprint.
type SnapshotTotals struct {
    TotalTickets         int     `json:"totalTickets"`
    ScopeTickets         int     `json:"scopeTickets"`
    PlannedTickets       int     `json:"plannedTickets"`
    AddedTickets         int     `json:"addedTickets"`
    RemovedTickets       int     `json:"removedTickets"`
    ClosedTickets        int     `json:"closedTickets"`
    SuccessPercent       float64 `json:"successPercent"`
    StoryPointsTotal     float64 `json:"storyPointsTotal"`
    StoryPointsCompleted float64 `json:"storyPointsCompleted"`
    WorkedTickets        int     `json:"workedTickets"`
}

// SprintSnapshot is the durable point-in-time freeze of a closed sprint,
// keyed 1:1 with the sprint and upserted idempotently on closure events.
type SprintSnapshot struct {
    SprintID      int64          `json:"sprintId"`
    SprintName    string         `json:"sprintName"`
    TeamKey       string         `json:"teamKey"`
    Totals        SnapshotTotals `json:"totals"`
    TicketsJSON   []byte         `json:"-"`
    AssigneesJSON []byte         `json:"-"`
    DeliveryJSON  []byte         `json:"-"`
    CapturedAt    time.Time      `json:"capturedAt"`
}
