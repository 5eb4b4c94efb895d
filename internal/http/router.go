package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/obs"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc service, mets *obs.Metrics) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)
    r.GET("/metrics", gin.WrapH(mets.Handler()))

    r.GET("/api/report", h.Report)
    r.POST("/webhooks/sprint-closed", h.SprintClosed)

    r.GET("/admin/snapshots/:sprintID", h.Snapshot)
    r.POST("/admin/snapshot/:sprintID", h.EnsureSnapshot)

    return r
}
