package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Timestamps are stored as fixed-width UTC text so lexical order is time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL DEFAULT '',
		education TEXT NOT NULL DEFAULT '',
		skills    TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS hackathons (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		skills_required TEXT NOT NULL DEFAULT '[]',
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
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
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
		created_at   TEXT NOT NULL,
		UNIQUE (user_id, hackathon_id)
	)`,
}

// SQLiteStore persists to a local sqlite file through modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	q   queries
	now func() time.Time
}

// OpenSQLite opens (and migrates) the sqlite database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// One writer keeps sqlite from returning SQLITE_BUSY under concurrent enrollments.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return &SQLiteStore{db: db, q: newQueries(sq.Question), now: time.Now}, nil
}

// UpsertProfile implements Seeder.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p model.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	skills, err := encodeTags(p.Skills)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, email, education, skills) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, email = excluded.email,
			education = excluded.education, skills = excluded.skills`,
		p.ID, p.Name, p.Email, string(p.Education), skills)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// UpsertHackathon implements Seeder.
func (s *SQLiteStore) UpsertHackathon(ctx context.Context, h model.Hackathon) error {
	if err := validateHackathon(h); err != nil {
		return err
	}
	required, err := encodeTags(h.SkillsRequired)
	if err != nil {
		return err
	}
	var maxTeam sql.NullInt64
	if h.MaxTeamSize != nil {
		maxTeam = sql.NullInt64{Int64: int64(*h.MaxTeamSize), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hackathons (id, title, description, skills_required, start_date, end_date,
			mode, status, image_url, prize_pool, organizer, location, max_team_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, description = excluded.description,
			skills_required = excluded.skills_required,
			start_date = excluded.start_date, end_date = excluded.end_date,
			mode = excluded.mode, status = excluded.status,
			image_url = excluded.image_url, prize_pool = excluded.prize_pool,
			organizer = excluded.organizer, location = excluded.location,
			max_team_size = excluded.max_team_size`,
		h.ID, h.Title, h.Description, required,
		h.StartDate.UTC().Format(sqliteTimeLayout), h.EndDate.UTC().Format(sqliteTimeLayout),
		string(h.Mode), string(h.Status), h.ImageURL, h.PrizePool, h.Organizer, h.Location, maxTeam)
	if err != nil {
		return fmt.Errorf("upsert hackathon %s: %w", h.ID, err)
	}
	return nil
}

// FetchProfile implements Store.
func (s *SQLiteStore) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	query, args, err := s.q.profile(userID).ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	p, err := scanSQLiteProfile(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return p, err
}

// FetchOtherProfiles implements Store.
func (s *SQLiteStore) FetchOtherProfiles(ctx context.Context, userID string) ([]model.Profile, error) {
	query, args, err := s.q.otherProfiles(userID).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanSQLiteProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FetchHackathons implements Store.
func (s *SQLiteStore) FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error) {
	query, args, err := s.q.hackathons(statuses).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hackathons: %w", err)
	}
	defer rows.Close()

	out := make([]model.Hackathon, 0)
	for rows.Next() {
		var (
			h                    model.Hackathon
			required, start, end string
			mode, status         string
			maxTeam              sql.NullInt64
		)
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &required, &start, &end,
			&mode, &status, &h.ImageURL, &h.PrizePool, &h.Organizer, &h.Location, &maxTeam); err != nil {
			return nil, fmt.Errorf("scan hackathon: %w", err)
		}
		if h.SkillsRequired, err = decodeTags(required); err != nil {
			return nil, err
		}
		if h.StartDate, err = time.Parse(sqliteTimeLayout, start); err != nil {
			return nil, fmt.Errorf("hackathon %s start_date: %w", h.ID, err)
		}
		if h.EndDate, err = time.Parse(sqliteTimeLayout, end); err != nil {
			return nil, fmt.Errorf("hackathon %s end_date: %w", h.ID, err)
		}
		h.Mode, h.Status = model.Mode(mode), model.Status(status)
		if maxTeam.Valid {
			n := int(maxTeam.Int64)
			h.MaxTeamSize = &n
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// FetchEnrollments implements Store.
func (s *SQLiteStore) FetchEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	query, args, err := s.q.enrollments(userID).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Enrollment, 0)
	for rows.Next() {
		var (
			e       model.Enrollment
			created string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.HackathonID, &created); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		if e.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("enrollment %s created_at: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEnrollment implements Store. The unique (user_id, hackathon_id)
// constraint is the source of truth for duplicates.
func (s *SQLiteStore) CreateEnrollment(ctx context.Context, userID, hackathonID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := s.q.hackathonExists(hackathonID).ToSql()
	if err != nil {
		return err
	}
	var one int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("hackathon %s: %w", hackathonID, ErrNotFound)
		}
		return fmt.Errorf("lookup hackathon: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO enrollments (id, user_id, hackathon_id, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, hackathon_id) DO NOTHING`,
		uuid.NewString(), userID, hackathonID, s.now().UTC().Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s hackathon %s: %w", userID, hackathonID, enrollment.ErrAlreadyEnrolled)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var (
		p         model.Profile
		education string
		skills    string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &education, &skills); err != nil {
		return model.Profile{}, err
	}
	p.Education = model.Education(education)
	tags, err := decodeTags(skills)
	if err != nil {
		return model.Profile{}, err
	}
	p.Skills = tags
	return p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
