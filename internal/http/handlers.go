package http

import (
    "context"
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/domain"
    "github.com/sprintlens/sprintlens/internal/services"
)

type service interface {
    DeliveryReport(ctx context.Context, opts services.ReportOptions) (*services.ReportPayload, error)
    EnsureSnapshot(ctx context.Context, sprintID int64, override *domain.SnapshotTotals) (*domain.SprintSnapshot, error)
    GetSnapshot(ctx context.Context, sprintID int64) (*domain.SprintSnapshot, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) Report(c *gin.Context) {
    opts := services.ReportOptions{}
    if v := c.Query("window"); v != "" {
        if n, err := strconv.Atoi(v); err == nil { opts.TeamWindow = n }
    }
    opts.IncludeDelivery = c.Query("delivery") == "true"
    payload, err := h.svc.DeliveryReport(c.Request.Context(), opts)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, payload)
}

// SprintClosed is invoked by the external closure-event handler. Signature
// verification happens upstream; this endpoint only kicks off the snapshot.
func (h *Handlers) SprintClosed(c *gin.Context) {
    var req struct {
        SprintID int64                  `json:"sprintId"`
        Totals   *domain.SnapshotTotals `json:"totals,omitempty"`
    }
    if err := c.ShouldBindJSON(&req); err != nil || req.SprintID == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "sprintId required"})
        return
    }
    // detached from the request so a slow snapshot does not block the caller
    go func() {
        if _, err := h.svc.EnsureSnapshot(context.Background(), req.SprintID, req.Totals); err != nil {
            h.log.Error().Err(err).Int64("sprint", req.SprintID).Msg("sprint-closed: snapshot failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handlers) Snapshot(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("sprintID"), 10, 64)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sprint id"})
        return
    }
    snap, err := h.svc.GetSnapshot(c.Request.Context(), id)
    if err != nil || snap == nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "snapshot":  snap,
        "tickets":   snap.DecodeTickets(),
        "assignees": snap.DecodeAssignees(),
        "delivery":  snap.DecodeDelivery(),
    })
}

func (h *Handlers) EnsureSnapshot(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("sprintID"), 10, 64)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sprint id"})
        return
    }
    snap, err := h.svc.EnsureSnapshot(c.Request.Context(), id, nil)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, snap)
}
