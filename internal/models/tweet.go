// ===============================
// internal/models/tweet.go - Tweet Models
// ===============================

package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTweetLength = 280

type Tweet struct {
	ID        string    `db:"id" json:"_id"`
	OwnerID   string    `db:"owner_id" json:"owner"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TweetWithLikes is a tweet row annotated with its like count
type TweetWithLikes struct {
	Tweet
	TotalLikes int64 `db:"total_likes" json:"totalTweetLikes"`
}

// TweetAuthor is the profile block returned next to a user's tweets
type TweetAuthor struct {
	OwnerProfile
	IsTweetOwner bool `json:"isTweetOwner"`
}

type UserTweets struct {
	Tweets    []TweetWithLikes `json:"tweet"`
	TweetedBy TweetAuthor      `json:"tweetedBy"`
}

type TweetContentRequest struct {
	Content string `json:"content" form:"content"`
}

// ValidateTweetContent trims content and checks it is postable
func ValidateTweetContent(content string) (string, []string) {
	var errors []string

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		errors = append(errors, "content can't be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxTweetLength {
		errors = append(errors, "content must be 280 characters or less")
	}

	return trimmed, errors
}
