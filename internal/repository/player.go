package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerRepository is the SQLite-backed primary store. It implements the
// storage capability set consumed by the failover backend.
type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const playerColumns = `id, name, position, team, rank, projected_points,
	age, experience_years, drafted, drafted_by, drafted_at, source,
	created_at, updated_at`

// INSERT OR REPLACE covers both conflict paths: a re-put of a known id and a
// re-ingested record that collides on the (name, position) unique index.
const upsertPlayerSQL = `INSERT OR REPLACE INTO players (` + playerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *PlayerRepository) Put(ctx context.Context, players []domain.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPlayerSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(players) {
			end = len(players)
		}

		for _, p := range players[i:end] {
			if _, err := stmt.ExecContext(ctx,
				p.ID,
				p.Name,
				string(p.Position),
				p.Team,
				p.Rank,
				p.ProjectedPoints,
				nullableInt(p.Age),
				nullableInt(p.ExperienceYears),
				p.Drafted,
				p.DraftedBy,
				nullableTime(p.DraftedAt),
				p.Source,
				p.CreatedAt,
				p.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *PlayerRepository) GetAll(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)

	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Player{}, err
	}
	return p, nil
}

func (r *PlayerRepository) SetDrafted(ctx context.Context, id, owner string, drafted bool) error {
	now := time.Now()

	var draftedAt any
	if drafted {
		draftedAt = now
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET drafted = ?, drafted_by = ?, drafted_at = ?, updated_at = ? WHERE id = ?`,
		drafted, owner, draftedAt, now, id)
	if err != nil {
		return fmt.Errorf("failed to update drafted status for %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.logger.Debug().
		Str("id", id).
		Str("owner", owner).
		Bool("drafted", drafted).
		Msg("drafted status updated")
	return nil
}

func (r *PlayerRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var (
		p         domain.Player
		position  string
		age       sql.NullInt64
		exp       sql.NullInt64
		draftedAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&position,
		&p.Team,
		&p.Rank,
		&p.ProjectedPoints,
		&age,
		&exp,
		&p.Drafted,
		&p.DraftedBy,
		&draftedAt,
		&p.Source,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, err
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to scan player: %w", err)
	}

	p.Position = domain.Position(position)
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if exp.Valid {
		v := int(exp.Int64)
		p.ExperienceYears = &v
	}
	if draftedAt.Valid {
		p.DraftedAt = draftedAt.Time
	}
	return p, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
