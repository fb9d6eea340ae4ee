package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"videotube/internal/models"
	"videotube/internal/repositories"

	"github.com/google/uuid"
)

var errStore = errors.New("store unavailable")

// ===============================
// VIDEOS
// ===============================

type fakeVideoStore struct {
	mu       sync.Mutex
	videos   map[string]*models.Video
	owners   map[string]models.OwnerProfile
	comments map[string]int // video id -> comment count
	likes    map[string]int // video id -> like count

	// commentLikes counts likes on a video's comments
	commentLikes map[string]int
	history      map[string][]string

	createErr  error
	updateErr  error
	dropOnRead bool
	clock      time.Time
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		videos:       map[string]*models.Video{},
		owners:       map[string]models.OwnerProfile{},
		comments:     map[string]int{},
		likes:        map[string]int{},
		commentLikes: map[string]int{},
		history:      map[string][]string{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeVideoStore) add(owner string, title string, published bool) *models.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	v := &models.Video{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		VideoFile:   "https://cdn.test/videos/" + title + ".mp4",
		Thumbnail:   "https://cdn.test/images/" + title + ".jpg",
		Title:       title,
		Description: "about " + title,
		IsPublished: published,
		CreatedAt:   f.clock,
		UpdatedAt:   f.clock,
	}
	f.videos[v.ID] = v
	return v
}

func (f *fakeVideoStore) GetByID(_ context.Context, id string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoStore) IsPublished(_ context.Context, id string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return false, false, nil
	}
	return true, v.IsPublished, nil
}

func (f *fakeVideoStore) List(_ context.Context, filter models.VideoListFilter) ([]models.VideoWithOwner, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Video
	for _, v := range f.videos {
		if !v.IsPublished {
			continue
		}
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Query != "" && !strings.Contains(v.Title+" "+v.Description, filter.Query) {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortDirection == models.SortAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := []models.VideoWithOwner{}
	for i := filter.Offset(); i < len(matched) && len(page) < filter.Limit; i++ {
		page = append(page, models.VideoWithOwner{Video: *matched[i], Owner: f.owners[matched[i].OwnerID]})
	}
	return page, int64(len(matched)), nil
}

func (f *fakeVideoStore) GetDetail(_ context.Context, videoID, _ string) (*models.VideoDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok || !v.IsPublished {
		return nil, nil
	}
	return &models.VideoDetail{
		VideoWithOwner: models.VideoWithOwner{Video: *v, Owner: f.owners[v.OwnerID]},
		TotalLikes:     int64(f.likes[videoID]),
		TotalComments:  int64(f.comments[videoID]),
	}, nil
}

func (f *fakeVideoStore) Create(_ context.Context, video *models.Video) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	video.ID = uuid.NewString()
	video.CreatedAt = f.clock
	video.UpdatedAt = f.clock
	if !f.dropOnRead {
		cp := *video
		f.videos[video.ID] = &cp
	}
	return nil
}

func (f *fakeVideoStore) IncrementViews(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || !v.IsPublished {
		return false, nil
	}
	v.Views++
	return true, nil
}

func (f *fakeVideoStore) Update(_ context.Context, id, ownerID string, changes models.VideoChanges) (*models.Video, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.OwnerID != ownerID {
		return nil, nil
	}
	if changes.Title != nil {
		v.Title = *changes.Title
	}
	if changes.Description != nil {
		v.Description = *changes.Description
	}
	if changes.Thumbnail != nil {
		v.Thumbnail = *changes.Thumbnail
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoStore) TogglePublish(_ context.Context, id, ownerID string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.OwnerID != ownerID {
		return nil, nil
	}
	v.IsPublished = !v.IsPublished
	cp := *v
	return &cp, nil
}

// DeleteCascade holds the store lock for the whole call, like the row lock
// held by the real transaction
func (f *fakeVideoStore) DeleteCascade(_ context.Context, id string, guard repositories.DeleteGuard[models.Video]) (*models.Video, *models.CascadeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var row *models.Video
	if v, ok := f.videos[id]; ok {
		cp := *v
		row = &cp
	}
	if err := guard(row); err != nil {
		return nil, nil, err
	}

	result := &models.CascadeResult{
		CommentsDeleted:     int64(f.comments[id]),
		LikesDeleted:        int64(f.likes[id]),
		CommentLikesDeleted: int64(f.commentLikes[id]),
	}
	delete(f.comments, id)
	delete(f.likes, id)
	delete(f.commentLikes, id)
	delete(f.videos, id)
	return row, result, nil
}

func (f *fakeVideoStore) AppendWatchHistory(_ context.Context, userID, videoID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.history[userID] {
		if id == videoID {
			return false, nil
		}
	}
	f.history[userID] = append(f.history[userID], videoID)
	return true, nil
}

// ===============================
// MEDIA
// ===============================

type fakeMedia struct {
	mu       sync.Mutex
	failOn   map[string]bool
	uploaded []string
	deleted  []string
	n        int
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failOn: map[string]bool{}}
}

func (m *fakeMedia) Upload(_ context.Context, localPath string) (*models.UploadedMedia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[localPath] {
		return nil, fmt.Errorf("upload of %s failed", localPath)
	}
	m.n++
	key := fmt.Sprintf("media/%d_%s", m.n, localPath[strings.LastIndex(localPath, "/")+1:])
	url := "https://cdn.test/" + key
	m.uploaded = append(m.uploaded, url)
	return &models.UploadedMedia{URL: url, Key: key, Duration: 42.5}, nil
}

func (m *fakeMedia) Delete(_ context.Context, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
}

// ===============================
// TWEETS AND USERS
// ===============================

type fakeTweetStore struct {
	mu         sync.Mutex
	tweets     map[string]*models.Tweet
	likes      map[string]int
	dropOnRead bool
}

func newFakeTweetStore() *fakeTweetStore {
	return &fakeTweetStore{tweets: map[string]*models.Tweet{}, likes: map[string]int{}}
}

func (f *fakeTweetStore) add(owner, content string) *models.Tweet {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &models.Tweet{ID: uuid.NewString(), OwnerID: owner, Content: content}
	f.tweets[t.ID] = t
	return t
}

func (f *fakeTweetStore) Create(_ context.Context, tweet *models.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tweet.ID = uuid.NewString()
	if !f.dropOnRead {
		cp := *tweet
		f.tweets[tweet.ID] = &cp
	}
	return nil
}

func (f *fakeTweetStore) GetByID(_ context.Context, id string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tweets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTweetStore) ListByOwnerWithLikes(_ context.Context, ownerID string) ([]models.TweetWithLikes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.TweetWithLikes{}
	for _, t := range f.tweets {
		if t.OwnerID == ownerID {
			out = append(out, models.TweetWithLikes{Tweet: *t, TotalLikes: int64(f.likes[t.ID])})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTweetStore) UpdateContent(_ context.Context, id, ownerID, content string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tweets[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	t.Content = content
	cp := *t
	return &cp, nil
}

func (f *fakeTweetStore) DeleteCascade(_ context.Context, id string, guard repositories.DeleteGuard[models.Tweet]) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var row *models.Tweet
	if t, ok := f.tweets[id]; ok {
		cp := *t
		row = &cp
	}
	if err := guard(row); err != nil {
		return 0, err
	}
	likes := int64(f.likes[id])
	delete(f.likes, id)
	delete(f.tweets, id)
	return likes, nil
}

type fakeProfiles map[string]models.OwnerProfile

func (p fakeProfiles) GetProfile(_ context.Context, id string) (*models.OwnerProfile, error) {
	profile, ok := p[id]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

type fakeUserStore struct {
	byUID   map[string]*models.User
	ensured []*models.User
	taken   map[string]bool
	tried   []string
	getErr  error
}

func (f *fakeUserStore) GetByAuthUID(_ context.Context, authUID string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byUID[authUID], nil
}

func (f *fakeUserStore) Ensure(_ context.Context, user *models.User) (*models.User, error) {
	f.tried = append(f.tried, user.Username)
	if f.taken[user.Username] {
		return nil, repositories.ErrUsernameTaken
	}
	stored := *user
	stored.ID = uuid.NewString()
	f.ensured = append(f.ensured, &stored)
	f.byUID[user.AuthUID] = &stored
	return &stored, nil
}

// ===============================
// DASHBOARD
// ===============================

type fakeDashboardStore struct {
	stats  map[string]*models.ChannelStats
	videos map[string][]models.ChannelVideo
	calls  int
	err    error
}

func (f *fakeDashboardStore) ChannelStats(_ context.Context, ownerID string) (*models.ChannelStats, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.stats[ownerID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeDashboardStore) ChannelVideos(_ context.Context, ownerID string) ([]models.ChannelVideo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos[ownerID], nil
}

type memoryStatsCache struct {
	entries     map[string]models.ChannelStats
	invalidated []string
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{entries: map[string]models.ChannelStats{}}
}

func (c *memoryStatsCache) Get(_ context.Context, ownerID string) (*models.ChannelStats, bool) {
	s, ok := c.entries[ownerID]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *memoryStatsCache) Set(_ context.Context, ownerID string, stats *models.ChannelStats) {
	c.entries[ownerID] = *stats
}

func (c *memoryStatsCache) Invalidate(_ context.Context, ownerID string) {
	delete(c.entries, ownerID)
	c.invalidated = append(c.invalidated, ownerID)
}
