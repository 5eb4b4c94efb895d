package repo

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"
    "github.com/sprintlens/sprintlens/internal/config"
    "github.com/sprintlens/sprintlens/internal/domain"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

// Repository reads the sprint/ticket mirror maintained by external
// collaborators and owns the sprint_snapshots table.
type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

const sprintCols = `id, name, COALESCE(state,''), start_at, end_at,
        total_tickets, closed_tickets, planned_tickets, added_tickets, removed_tickets, story_points_total`

func scanSprint(row pgx.Row) (domain.Sprint, error) {
    var sp domain.Sprint
    err := row.Scan(&sp.ID, &sp.Name, &sp.State, &sp.StartAt, &sp.EndAt,
        &sp.TotalTickets, &sp.ClosedTickets, &sp.PlannedTickets, &sp.AddedTickets, &sp.RemovedTickets, &sp.StoryPointsTotal)
    return sp, err
}

// ListSprints returns sprints in the given lifecycle states, most recent end
// date first, each with its current tickets attached.
func (r *Repository) ListSprints(ctx context.Context, states ...string) ([]domain.Sprint, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT `+sprintCols+` FROM sprints WHERE state = ANY($1) ORDER BY end_at DESC NULLS LAST, id DESC`, states)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Sprint
    for rows.Next() {
        sp, err := scanSprint(rows)
        if err != nil { return nil, err }
        out = append(out, sp)
    }
    if err := rows.Err(); err != nil { return nil, err }
    for i := range out {
        tickets, err := r.ticketsBySprint(ctx, out[i].ID)
        if err != nil { return nil, err }
        out[i].Tickets = tickets
    }
    return out, nil
}

func (r *Repository) GetSprint(ctx context.Context, id int64) (domain.Sprint, error) {
    sp, err := scanSprint(r.db.Pool.QueryRow(ctx, `SELECT `+sprintCols+` FROM sprints WHERE id=$1`, id))
    if err != nil { return domain.Sprint{}, err }
    sp.Tickets, err = r.ticketsBySprint(ctx, id)
    return sp, err
}

func (r *Repository) ticketsBySprint(ctx context.Context, sprintID int64) ([]domain.Ticket, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT key, COALESCE(summary,''), COALESCE(status,''), COALESCE(assignee,''), COALESCE(type,''),
            story_points, COALESCE(bounce_backs,0), COALESCE(carryovers,0), created_at, closed_at, updated_at, due_at
        FROM tickets WHERE sprint_id=$1 ORDER BY key`, sprintID)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Ticket
    for rows.Next() {
        var t domain.Ticket
        if err := rows.Scan(&t.Key, &t.Summary, &t.Status, &t.Assignee, &t.Type,
            &t.StoryPoints, &t.BounceBacks, &t.Carryovers, &t.CreatedAt, &t.ClosedAt, &t.UpdatedAt, &t.DueAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// UpsertSnapshot writes the snapshot keyed by sprint ID. Repeated closure
// events overwrite in place, never append.
func (r *Repository) UpsertSnapshot(ctx context.Context, snap *domain.SprintSnapshot) error {
    totals, err := json.Marshal(snap.Totals)
    if err != nil { return err }
    const q = `
        INSERT INTO sprint_snapshots(sprint_id, sprint_name, team_key, totals, tickets, assignees, delivery, captured_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT(sprint_id) DO UPDATE SET
            sprint_name=EXCLUDED.sprint_name,
            team_key=EXCLUDED.team_key,
            totals=EXCLUDED.totals,
            tickets=EXCLUDED.tickets,
            assignees=EXCLUDED.assignees,
            delivery=EXCLUDED.delivery,
            captured_at=EXCLUDED.captured_at`
    _, err = r.db.Pool.Exec(ctx, q, snap.SprintID, snap.SprintName, snap.TeamKey,
        totals, snap.TicketsJSON, snap.AssigneesJSON, snap.DeliveryJSON, snap.CapturedAt)
    return err
}

func (r *Repository) GetSnapshot(ctx context.Context, sprintID int64) (*domain.SprintSnapshot, error) {
    const q = `SELECT sprint_id, sprint_name, team_key, totals, tickets, assignees, delivery, captured_at
        FROM sprint_snapshots WHERE sprint_id=$1`
    var snap domain.SprintSnapshot
    var totals []byte
    err := r.db.Pool.QueryRow(ctx, q, sprintID).Scan(&snap.SprintID, &snap.SprintName, &snap.TeamKey,
        &totals, &snap.TicketsJSON, &snap.AssigneesJSON, &snap.DeliveryJSON, &snap.CapturedAt)
    if err != nil { return nil, err }
    // malformed totals degrade to zeroes, same as the other blobs
    _ = json.Unmarshal(totals, &snap.Totals)
    return &snap, nil
}

// ClosedSprintsWithoutSnapshot feeds the cron sweep: closure events can be
// missed, the sweep converges the stragglers.
func (r *Repository) ClosedSprintsWithoutSnapshot(ctx context.Context) ([]int64, error) {
    rows, err := r.db.Pool.Query(ctx, `
        SELECT s.id FROM sprints s
        LEFT JOIN sprint_snapshots ss ON ss.sprint_id = s.id
        WHERE s.state = $1 AND ss.sprint_id IS NULL
        ORDER BY s.end_at DESC NULLS LAST`, domain.SprintClosed)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []int64
    for rows.Next() {
        var id int64
        if err := rows.Scan(&id); err != nil { return nil, err }
        out = append(out, id)
    }
    return out, rows.Err()
}
