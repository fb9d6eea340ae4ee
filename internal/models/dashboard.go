// ===============================
// internal/models/dashboard.go - Channel Dashboard Models
// ===============================

package models

// ChannelStats is always fully populated; zero means none
type ChannelStats struct {
	TotalVideos      int64 `db:"total_videos" json:"totalVideos"`
	TotalViews       int64 `db:"total_views" json:"totalViews"`
	TotalComments    int64 `db:"total_comments" json:"totalComments"`
	TotalLikes       int64 `db:"total_likes" json:"totalLikes"`
	TotalSubscribers int64 `db:"total_subscribers" json:"totalSubscribers"`
}

// ChannelVideo is one of the caller's own videos with engagement counts
type ChannelVideo struct {
	Video
	TotalLikes    int64 `db:"total_likes" json:"totalLikes"`
	TotalComments int64 `db:"total_comments" json:"totalComments"`
}

// CascadeResult reports what a cascade delete removed
type CascadeResult struct {
	CommentsDeleted     int64 `json:"commentsDeleted"`
	LikesDeleted        int64 `json:"likesDeleted"`
	CommentLikesDeleted int64 `json:"commentLikesDeleted"`
}
