package engine

import (
    "sort"
    "strings"
    "time"

    "github.com/sprintlens/sprintlens/internal/domain"
)

// TeamKey derives a team identifier from a sprint name: the leading maximal
// run of alphanumeric characters, uppercased. "ABC-123 Sprint 4" -> "ABC".
// A name without such a run is uppercased whole; a blank name maps to the
// configured default so teamless sprints still bucket together.
func (e *Engine) TeamKey(sprintName string) string {
    name := strings.TrimSpace(sprintName)
    if name == "" { return e.opts.DefaultTeamKey }
    end := 0
    for end < len(name) {
        c := name[end]
        if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
            end++
            continue
        }
        break
    }
    if end == 0 { return strings.ToUpper(name) }
    return strings.ToUpper(name[:end])
}

// LimitPerTeam windows a sprint list to the most recent N per team by end
// date. Teams run wildly different cadences; without this cap a team with a
// long closed-sprint history would dominate any cross-team averaging.
func (e *Engine) LimitPerTeam(sprints []domain.Sprint, limit int) []domain.Sprint {
    if limit <= 0 || len(sprints) == 0 { return nil }
    sorted := make([]domain.Sprint, len(sprints))
    copy(sorted, sprints)
    sortByEndDesc(sorted)

    counts := map[string]int{}
    out := make([]domain.Sprint, 0, len(sorted))
    for _, sp := range sorted {
        key := e.TeamKey(sp.Name)
        if counts[key] >= limit { continue }
        counts[key]++
        out = append(out, sp)
    }
    sortByEndDesc(out)
    return out
}

func sortByEndDesc(sprints []domain.Sprint) {
    sort.SliceStable(sprints, func(i, j int) bool {
        return endOrZero(sprints[i]).After(endOrZero(sprints[j]))
    })
}

func endOrZero(sp domain.Sprint) time.Time {
    if sp.EndAt == nil { return time.Time{} }
    return *sp.EndAt
}
