// ===============================
// internal/models/video.go - Video Models, Listing Filters and Detail Views
// ===============================

package models

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ===============================
// VIDEO MODEL
// ===============================

type Video struct {
	ID          string    `db:"id" json:"_id"`
	OwnerID     string    `db:"owner_id" json:"owner"`
	VideoFile   string    `db:"video_file" json:"videoFile"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Duration    float64   `db:"duration" json:"duration"`
	Views       int64     `db:"views" json:"views"`
	IsPublished bool      `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// VideoWithOwner is a listing row: the video plus its owner's public profile
type VideoWithOwner struct {
	Video
	Owner OwnerProfile `db:"owner" json:"owner"`
}

// VideoDetail is the single video view with derived counts and caller state
type VideoDetail struct {
	VideoWithOwner
	TotalLikes       int64 `db:"total_likes" json:"totalLikes"`
	TotalComments    int64 `db:"total_comments" json:"totalComments"`
	TotalSubscribers int64 `db:"total_subscribers" json:"totalSubscribers"`
	IsLiked          bool  `db:"is_liked" json:"isLiked"`
	IsSubscribed     bool  `db:"is_subscribed" json:"isSubscribed"`
}

// ===============================
// CREATE / UPDATE INPUTS
// ===============================

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// PublishVideoInput carries a new upload. File paths point at local temp files.
type PublishVideoInput struct {
	OwnerID       string
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

func (in *PublishVideoInput) Validate() []string {
	var errors []string

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		errors = append(errors, "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		errors = append(errors, "title must be 200 characters or less")
	}
	if description == "" {
		errors = append(errors, "description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		errors = append(errors, "description must be 5000 characters or less")
	}
	if in.VideoPath == "" {
		errors = append(errors, "videoFile is required")
	}
	if in.ThumbnailPath == "" {
		errors = append(errors, "thumbnail is required")
	}

	return errors
}

// UpdateVideoInput carries optional changes. Nil means "leave unchanged".
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

// Normalize trims fields and drops blank ones
func (in *UpdateVideoInput) Normalize() {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			in.Title = nil
		} else {
			in.Title = &t
		}
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
}

func (in *UpdateVideoInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.ThumbnailPath == ""
}

// VideoChanges is the coalesced set of column updates applied in one statement
type VideoChanges struct {
	Title       *string
	Description *string
	Thumbnail   *string
}

// ===============================
// VIDEO LISTING
// ===============================

const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// sortColumns maps public sort fields to columns
var sortColumns = map[string]string{
	"createdAt": "v.created_at",
	"updatedAt": "v.updated_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

// SortColumn returns the column for a public sort field
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// ParseSortDirection accepts asc/desc and the numeric 1/-1 form
func ParseSortDirection(raw string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "desc", "-1":
		return SortDesc, true
	case "asc", "1":
		return SortAsc, true
	default:
		return "", false
	}
}

// VideoListQuery is the raw query string of GET /videos
type VideoListQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Query    string `form:"query"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
	UserID   string `form:"userId"`
}

// Filter parses and range checks the query. Identifier checks are left to
// the caller.
func (q VideoListQuery) Filter() (VideoListFilter, []string) {
	var errors []string
	f := VideoListFilter{
		Page:    DefaultPage,
		Limit:   DefaultPageLimit,
		Query:   strings.TrimSpace(q.Query),
		SortBy:  "createdAt",
		OwnerID: strings.TrimSpace(q.UserID),
	}

	if raw := strings.TrimSpace(q.Page); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errors = append(errors, "page must be a positive integer")
		} else {
			f.Page = page
		}
	}
	if raw := strings.TrimSpace(q.Limit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageLimit {
			errors = append(errors, "limit must be between 1 and 100")
		} else {
			f.Limit = limit
		}
	}
	if raw := strings.TrimSpace(q.SortBy); raw != "" {
		if _, ok := SortColumn(raw); !ok {
			errors = append(errors, "sortBy must be one of createdAt, updatedAt, views, duration, title")
		} else {
			f.SortBy = raw
		}
	}
	direction, ok := ParseSortDirection(q.SortType)
	if !ok {
		errors = append(errors, "sortType must be asc or desc")
	}
	f.SortDirection = direction

	return f, errors
}

type VideoListFilter struct {
	Page          int
	Limit         int
	Query         string
	SortBy        string
	SortDirection SortDirection
	OwnerID       string
}

func (f *VideoListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type VideoPage struct {
	Videos     []VideoWithOwner `json:"videos"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// NewVideoPage computes page metadata
func NewVideoPage(videos []VideoWithOwner, total int64, f VideoListFilter) *VideoPage {
	if videos == nil {
		videos = []VideoWithOwner{}
	}
	pages := 0
	if f.Limit > 0 {
		pages = int((total + int64(f.Limit) - 1) / int64(f.Limit))
	}
	return &VideoPage{
		Videos:     videos,
		TotalCount: total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: pages,
	}
}
