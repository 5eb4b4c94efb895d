// Package jira is the changelog provider: the one upstream call the engine
// makes per ticket. Everything else about the tracker is mirrored into
// Postgres by external collaborators.
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/domain"
)

type Client struct {
    baseURL string
    token   string
    user    string
    pass    string
    http    *http.Client
    log     zerolog.Logger
    apiVer  string
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: cfg.JiraBaseURL,
        token:   cfg.JiraPAT,
        user:    cfg.JiraUsername,
        pass:    cfg.JiraPassword,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
        apiVer:  cfg.JiraAPIVersion,
    }
}

// Changelog returns every field transition of the ticket, paged through the
// changelog endpoint. Order is whatever the server returns; the miner sorts.
func (c *Client) Changelog(ctx context.Context, key string) ([]domain.ChangelogEvent, error) {
    if key == "" { return nil, errors.New("jira: empty ticket key") }
    var out []domain.ChangelogEvent
    startAt := 0
    for {
        page, err := c.changelogPage(ctx, key, startAt, 100)
        if err != nil { return nil, err }
        var histories []any
        if vv, ok := page["values"].([]any); ok { histories = vv } else if vv, ok := page["histories"].([]any); ok { histories = vv }
        if len(histories) == 0 { break }
        for _, h0 := range histories {
            hv, _ := h0.(map[string]any)
            if hv == nil { continue }
            at := parseTimeUTC(hv["created"])
            if at == nil { continue }
            items, _ := hv["items"].([]any)
            for _, it0 := range items {
                itm, _ := it0.(map[string]any)
                if itm == nil { continue }
                out = append(out, domain.ChangelogEvent{
                    At:    *at,
                    Field: toStr(itm["field"]),
                    From:  toStr(itm["fromString"]),
                    To:    toStr(itm["toString"]),
                })
            }
        }
        total, _ := page["total"].(float64)
        startResp, _ := page["startAt"].(float64)
        maxResp, _ := page["maxResults"].(float64)
        if total > 0 && maxResp > 0 {
            next := int(startResp) + int(maxResp)
            if float64(next) >= total { break }
            startAt = next
            continue
        }
        if len(histories) < 100 { break }
        startAt += len(histories)
    }
    return out, nil
}

func (c *Client) changelogPage(ctx context.Context, key string, startAt, max int) (map[string]any, error) {
    q := url.Values{}
    if startAt > 0 { q.Set("startAt", fmt.Sprint(startAt)) }
    if max > 0 { q.Set("maxResults", fmt.Sprint(max)) }
    path := "/rest/api/3/issue/" + url.PathEscape(key) + "/changelog"
    if c.apiVer == "2" { path = "/rest/api/2/issue/" + url.PathEscape(key) + "/changelog" }
    return c.doJSON(ctx, http.MethodGet, c.apiURL(path, q))
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) doJSON(ctx context.Context, method, u string) (map[string]any, error) {
    if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        req, err := http.NewRequestWithContext(ctx, method, u, nil)
        if err != nil { return nil, err }
        if c.token != "" {
            req.Header.Set("Authorization", "Bearer "+c.token)
        } else if c.user != "" && c.pass != "" {
            req.SetBasicAuth(c.user, c.pass)
        }
        resp, err := c.http.Do(req)
        if err != nil {
            lastErr = err
        } else {
            body, decodeErr := decodeOrError(resp)
            if decodeErr == nil { return body, nil }
            // retry only on 429/5xx
            var se statusError
            if !errors.As(decodeErr, &se) || (se.code != 429 && se.code < 500) { return nil, decodeErr }
            lastErr = decodeErr
        }
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
        }
    }
    return nil, lastErr
}

type statusError struct {
    code int
    body string
}

func (e statusError) Error() string { return fmt.Sprintf("jira api status=%d body=%s", e.code, e.body) }

func decodeOrError(resp *http.Response) (map[string]any, error) {
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return nil, statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
    }
    var out map[string]any
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return nil, err }
    return out, nil
}

func parseTimeUTC(v any) *time.Time {
    s, _ := v.(string)
    if s == "" { return nil }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil {
            tt := t.UTC()
            return &tt
        }
    }
    return nil
}

func toStr(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}
