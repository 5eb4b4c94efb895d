package domain

import "strings"

// Status vocabulary is configurable per tracker project, so classification is
// keyword matching over the free-text label, not an enum. The traits are
// independent classifiers: one label can carry several of them.
type StatusTraits struct {
    Dev       bool
    QAActive  bool
    QAReady   bool
    Closed    bool
    Cancelled bool
}

// FinalPhase reports whether the ticket sits in the release-ready tail of the
// workflow: qa-ready, done or closed, with cancellations excluded everywhere.
func (t StatusTraits) FinalPhase() bool {
    return (t.QAReady || t.Closed) && !t.Cancelled
}

// StrictClosed means delivered: done/closed and not cancelled. A cancelled
// ticket is neither open-risk nor delivered.
func (t StatusTraits) StrictClosed() bool { return t.Closed && !t.Cancelled }

// Default keyword sets. Matching is always case-insensitive substring.
var (
    DevKeywords      = []string{"in progress", "in development", "in refinement", "doing"}
    QAActiveKeywords = []string{"in qa", "qa", "in test", "testing", "review"}
    QAReadyKeywords  = []string{"ready for qa", "qa ready", "ready4test", "ready to test", "ready to deploy"}
    ClosedKeywords   = []string{"closed", "done"}
    CancelKeywords   = []string{"cancelled", "canceled"}
)

// MatchesAny reports whether the label contains any of the keywords,
// case-insensitively.
func MatchesAny(status string, keywords []string) bool {
    s := strings.ToLower(strings.TrimSpace(status))
    if s == "" { return false }
    for _, k := range keywords {
        if k != "" && strings.Contains(s, k) { return true }
    }
    return false
}

// Classify computes the trait set for a free-text status label once; callers
// reuse the result instead of re-matching substrings per call site.
func Classify(status string) StatusTraits {
    return StatusTraits{
        Dev:       MatchesAny(status, DevKeywords),
        QAActive:  MatchesAny(status, QAActiveKeywords),
        QAReady:   MatchesAny(status, QAReadyKeywords),
        Closed:    MatchesAny(status, ClosedKeywords),
        Cancelled: MatchesAny(status, CancelKeywords),
    }
}

// IsStrictClosed is the delivered test on a raw label.
func IsStrictClosed(status string) bool { return Classify(status).StrictClosed() }
