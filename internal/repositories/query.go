package repositories

import (
	"fmt"
	"strings"
)

// Shared column lists. Owner columns use the "owner." prefix so sqlx maps
// them onto the embedded models.OwnerProfile.
const (
	videoColumns = `v.id, v.owner_id, v.video_file, v.thumbnail, v.title, v.description,
		v.duration, v.views, v.is_published, v.created_at, v.updated_at`

	ownerColumns = `u.id AS "owner.id", u.username AS "owner.username",
		u.full_name AS "owner.full_name", u.avatar AS "owner.avatar",
		u.created_at AS "owner.created_at", u.updated_at AS "owner.updated_at"`

	tweetColumns = `t.id, t.owner_id, t.content, t.created_at, t.updated_at`

	userColumns = `id, auth_uid, username, full_name, email, avatar, cover_image,
		watch_history, created_at, updated_at`
)

// queryBuilder accumulates WHERE conditions and positional arguments
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

// arg registers a value and returns its placeholder
func (q *queryBuilder) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *queryBuilder) where(cond string) {
	q.conditions = append(q.conditions, cond)
}

func (q *queryBuilder) whereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}
