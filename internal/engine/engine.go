package engine

import (
    "math"

    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/domain"
)

// Options tune the engine. Zero values fall back to the defaults below, so a
// bare Engine{} is usable in tests.
type Options struct {
    DevStatuses []string // targets that open a cycle window
    EndStatuses []string // targets that close it (qa-ready/closed terms)
    QAStatuses  []string // sources counted as bounce-back origins

    TeamWindow     int    // most recent N sprints kept per team
    DefaultTeamKey string // team key for unparseable sprint names
    Workers        int    // changelog fan-out cap
}

const (
    defaultTeamWindow = 5
    defaultTeamKey    = "Team"
    defaultWorkers    = 6
    riskTopN          = 8
)

// Engine derives delivery analytics from mirrored sprint/ticket state. It is
// stateless: every method is a pure computation over its inputs, except the
// changelog fan-out which calls out through the provider it is handed.
type Engine struct {
    log  zerolog.Logger
    opts Options
}

func New(log zerolog.Logger, opts Options) *Engine {
    if len(opts.DevStatuses) == 0 { opts.DevStatuses = domain.DevKeywords }
    if len(opts.EndStatuses) == 0 {
        opts.EndStatuses = append(append([]string{}, domain.QAReadyKeywords...), domain.ClosedKeywords...)
    }
    if len(opts.QAStatuses) == 0 { opts.QAStatuses = domain.QAActiveKeywords }
    if opts.TeamWindow <= 0 { opts.TeamWindow = defaultTeamWindow }
    if opts.DefaultTeamKey == "" { opts.DefaultTeamKey = defaultTeamKey }
    if opts.Workers <= 0 { opts.Workers = defaultWorkers }
    return &Engine{log: log, opts: opts}
}

// pct is the single percentage rule of the engine: one decimal place from
// counts, zero denominator yields 0, never NaN.
func pct(n, d float64) float64 {
    if d == 0 { return 0 }
    return math.Round(n/d*1000) / 10
}

func points(t domain.Ticket) float64 {
    if t.StoryPoints == nil { return 0 }
    return *t.StoryPoints
}
