// ===============================
// internal/models/user.go - User and Channel Profile Models
// ===============================

package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ===============================
// STRING SLICE TYPE (for PostgreSQL arrays)
// ===============================

// StringSlice stores identifier lists such as the watch history. Values are
// UUIDs so no element ever contains a comma or quote.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(s, ",") + "}", nil
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}

	str = strings.Trim(str, "{}")
	if str == "" {
		*s = []string{}
		return nil
	}
	*s = strings.Split(str, ",")
	return nil
}

// ===============================
// USER MODEL
// ===============================

type User struct {
	ID           string      `db:"id" json:"_id"`
	AuthUID      string      `db:"auth_uid" json:"-"`
	Username     string      `db:"username" json:"username"`
	FullName     string      `db:"full_name" json:"fullName"`
	Email        string      `db:"email" json:"email"`
	Avatar       string      `db:"avatar" json:"avatar"`
	CoverImage   string      `db:"cover_image" json:"coverImage"`
	WatchHistory StringSlice `db:"watch_history" json:"watchHistory"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// OwnerProfile is the public projection of a user joined onto videos and tweets
type OwnerProfile struct {
	ID        string    `db:"id" json:"_id"`
	Username  string    `db:"username" json:"username"`
	FullName  string    `db:"full_name" json:"fullName"`
	Avatar    string    `db:"avatar" json:"avatar"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AuthIdentity is what a verified Firebase token says about the caller
type AuthIdentity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}
