package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/okian/skillhive/internal/domain/model"
)

var (
	profileColumns   = []string{"id", "name", "email", "education", "skills"}
	hackathonColumns = []string{
		"id", "title", "description", "skills_required", "start_date", "end_date",
		"mode", "status", "image_url", "prize_pool", "organizer", "location", "max_team_size",
	}
	enrollmentColumns = []string{"id", "user_id", "hackathon_id", "created_at"}
)

// queries builds the statements shared by the SQL stores. Only the
// placeholder format differs between sqlite and postgres.
type queries struct {
	b sq.StatementBuilderType
}

func newQueries(format sq.PlaceholderFormat) queries {
	return queries{b: sq.StatementBuilder.PlaceholderFormat(format)}
}

func (q queries) profile(userID string) sq.SelectBuilder {
	return q.b.Select(profileColumns...).From("profiles").Where(sq.Eq{"id": userID})
}

func (q queries) otherProfiles(userID string) sq.SelectBuilder {
	return q.b.Select(profileColumns...).From("profiles").
		Where(sq.NotEq{"id": userID}).
		OrderBy("name ASC", "id ASC")
}

func (q queries) hackathons(statuses []model.Status) sq.SelectBuilder {
	sel := q.b.Select(hackathonColumns...).From("hackathons").OrderBy("start_date ASC", "id ASC")
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		sel = sel.Where(sq.Eq{"status": names})
	}
	return sel
}

func (q queries) hackathonExists(id string) sq.SelectBuilder {
	return q.b.Select("1").From("hackathons").Where(sq.Eq{"id": id})
}

func (q queries) enrollments(userID string) sq.SelectBuilder {
	return q.b.Select(enrollmentColumns...).From("enrollments").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC")
}
