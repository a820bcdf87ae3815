package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
)

// SQLSTATE codes the store translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	defaultPostgresMaxConns = 10
	postgresConnectTimeout  = 2 * time.Second
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL DEFAULT '',
		education TEXT NOT NULL DEFAULT '',
		skills    TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS hackathons (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		skills_required TEXT[] NOT NULL DEFAULT '{}',
		start_date      TIMESTAMPTZ NOT NULL,
		end_date        TIMESTAMPTZ NOT NULL CHECK (end_date >= start_date),
		mode            TEXT NOT NULL,
		status          TEXT NOT NULL,
		image_url       TEXT NOT NULL DEFAULT '',
		prize_pool      TEXT NOT NULL DEFAULT '',
		organizer       TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		max_team_size   INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS hackathons_start_date_idx ON hackathons (start_date, id)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id           UUID PRIMARY KEY,
		user_id      TEXT NOT NULL,
		hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, hackathon_id)
	)`,
}

// PostgresStore persists to postgres through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    queries
}

// PostgresOption configures the pool before it connects.
type PostgresOption func(*pgxpool.Config)

// WithMaxConns caps the pool size.
func WithMaxConns(n int32) PostgresOption {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = n
		}
	}
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = defaultPostgresMaxConns
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, postgresConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return &PostgresStore{pool: pool, q: newQueries(sq.Dollar)}, nil
}

func (s *PostgresStore) query(ctx context.Context, b sq.SelectBuilder) (pgx.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return s.pool.Query(ctx, query, args...)
}

// UpsertProfile implements Seeder.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p model.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, name, email, education, skills) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email,
			education = EXCLUDED.education, skills = EXCLUDED.skills`,
		p.ID, p.Name, p.Email, string(p.Education), skills)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// UpsertHackathon implements Seeder.
func (s *PostgresStore) UpsertHackathon(ctx context.Context, h model.Hackathon) error {
	if err := validateHackathon(h); err != nil {
		return err
	}
	required := h.SkillsRequired
	if required == nil {
		required = []string{}
	}
	var maxTeam pgtype.Int4
	if h.MaxTeamSize != nil {
		maxTeam = pgtype.Int4{Int32: int32(*h.MaxTeamSize), Valid: true} //nolint:gosec // team sizes are small
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hackathons (id, title, description, skills_required, start_date, end_date,
			mode, status, image_url, prize_pool, organizer, location, max_team_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			skills_required = EXCLUDED.skills_required,
			start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			mode = EXCLUDED.mode, status = EXCLUDED.status,
			image_url = EXCLUDED.image_url, prize_pool = EXCLUDED.prize_pool,
			organizer = EXCLUDED.organizer, location = EXCLUDED.location,
			max_team_size = EXCLUDED.max_team_size`,
		h.ID, h.Title, h.Description, required, h.StartDate, h.EndDate,
		string(h.Mode), string(h.Status), h.ImageURL, h.PrizePool, h.Organizer, h.Location, maxTeam)
	if err != nil {
		return fmt.Errorf("upsert hackathon %s: %w", h.ID, err)
	}
	return nil
}

// FetchProfile implements Store.
func (s *PostgresStore) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	rows, err := s.query(ctx, s.q.profile(userID))
	if err != nil {
		return model.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPostgresProfile)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}

// FetchOtherProfiles implements Store.
func (s *PostgresStore) FetchOtherProfiles(ctx context.Context, userID string) ([]model.Profile, error) {
	rows, err := s.query(ctx, s.q.otherProfiles(userID))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanPostgresProfile)
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return out, nil
}

// FetchHackathons implements Store.
func (s *PostgresStore) FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error) {
	rows, err := s.query(ctx, s.q.hackathons(statuses))
	if err != nil {
		return nil, fmt.Errorf("query hackathons: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Hackathon, error) {
		var (
			h            model.Hackathon
			mode, status string
			maxTeam      pgtype.Int4
		)
		err := row.Scan(&h.ID, &h.Title, &h.Description, &h.SkillsRequired, &h.StartDate, &h.EndDate,
			&mode, &status, &h.ImageURL, &h.PrizePool, &h.Organizer, &h.Location, &maxTeam)
		h.Mode, h.Status = model.Mode(mode), model.Status(status)
		if maxTeam.Valid {
			n := int(maxTeam.Int32)
			h.MaxTeamSize = &n
		}
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan hackathons: %w", err)
	}
	return out, nil
}

// FetchEnrollments implements Store.
func (s *PostgresStore) FetchEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	rows, err := s.query(ctx, s.q.enrollments(userID))
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Enrollment, error) {
		var (
			e  model.Enrollment
			id uuid.UUID
		)
		err := row.Scan(&id, &e.UserID, &e.HackathonID, &e.CreatedAt)
		e.ID = id.String()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan enrollments: %w", err)
	}
	return out, nil
}

// CreateEnrollment implements Store. Duplicates and unknown hackathons are
// detected from the constraint violation codes.
func (s *PostgresStore) CreateEnrollment(ctx context.Context, userID, hackathonID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO enrollments (id, user_id, hackathon_id) VALUES ($1, $2, $3)`,
		uuid.New(), userID, hackathonID)
	return translatePgError(err, userID, hackathonID)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func translatePgError(err error, userID, hackathonID string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("user %s hackathon %s: %w", userID, hackathonID, enrollment.ErrAlreadyEnrolled)
		case pgForeignKeyViolation:
			return fmt.Errorf("hackathon %s: %w", hackathonID, ErrNotFound)
		}
	}
	return fmt.Errorf("insert enrollment: %w", err)
}

func scanPostgresProfile(row pgx.CollectableRow) (model.Profile, error) {
	var (
		p         model.Profile
		education string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Email, &education, &p.Skills)
	p.Education = model.Education(education)
	return p, err
}
