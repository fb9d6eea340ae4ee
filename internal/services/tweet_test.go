package services

import (
	"context"
	"testing"

	"videotube/internal/apperrors"
	"videotube/internal/logger"
	"videotube/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTweetFixture(profiles fakeProfiles) (*fakeTweetStore, *TweetService) {
	store := newFakeTweetStore()
	if profiles == nil {
		profiles = fakeProfiles{}
	}
	return store, NewTweetService(store, profiles, logger.Nop())
}

func TestCreateTweetRejectsEmptyContent(t *testing.T) {
	store, svc := newTweetFixture(nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.CreateTweet(context.Background(), uuid.NewString(), content)
		assert.True(t, apperrors.IsInvalidInput(err), "content %q", content)
	}
	assert.Empty(t, store.tweets)
}

func TestCreateTweetTrimsAndConfirms(t *testing.T) {
	store, svc := newTweetFixture(nil)
	owner := uuid.NewString()

	tweet, err := svc.CreateTweet(context.Background(), owner, "  hello world ")

	require.NoError(t, err)
	assert.Equal(t, "hello world", tweet.Content)
	assert.Equal(t, owner, tweet.OwnerID)
	assert.Contains(t, store.tweets, tweet.ID)
}

func TestCreateTweetMissingAfterWrite(t *testing.T) {
	store, svc := newTweetFixture(nil)
	store.dropOnRead = true

	_, err := svc.CreateTweet(context.Background(), uuid.NewString(), "hi")
	assert.True(t, apperrors.IsInternal(err))
}

func TestGetUserTweets(t *testing.T) {
	owner := uuid.NewString()
	store, svc := newTweetFixture(fakeProfiles{owner: {ID: owner, Username: "writer"}})
	first := store.add(owner, "one")
	second := store.add(owner, "two")
	store.likes[first.ID] = 4
	store.add(uuid.NewString(), "someone else")

	res, err := svc.GetUserTweets(context.Background(), owner, owner)

	require.NoError(t, err)
	require.Len(t, res.Tweets, 2)
	assert.True(t, res.Tweets[0].ID < res.Tweets[1].ID)
	likes := map[string]int64{}
	for _, tw := range res.Tweets {
		likes[tw.ID] = tw.TotalLikes
	}
	assert.Equal(t, int64(4), likes[first.ID])
	assert.Equal(t, int64(0), likes[second.ID])
	assert.Equal(t, "writer", res.TweetedBy.Username)
	assert.True(t, res.TweetedBy.IsTweetOwner)

	res, err = svc.GetUserTweets(context.Background(), owner, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, res.TweetedBy.IsTweetOwner)
}

func TestGetUserTweetsNoneOrInvalid(t *testing.T) {
	_, svc := newTweetFixture(nil)

	_, err := svc.GetUserTweets(context.Background(), uuid.NewString(), uuid.NewString())
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetUserTweets(context.Background(), "bogus", uuid.NewString())
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestNonOwnerCannotChangeTweet(t *testing.T) {
	store, svc := newTweetFixture(nil)
	owner := uuid.NewString()
	tweet := store.add(owner, "original")
	store.likes[tweet.ID] = 2
	intruder := uuid.NewString()

	_, err := svc.UpdateTweet(context.Background(), tweet.ID, intruder, "hacked")
	assert.True(t, apperrors.IsForbidden(err))

	err = svc.DeleteTweet(context.Background(), tweet.ID, intruder)
	assert.True(t, apperrors.IsForbidden(err))

	require.Contains(t, store.tweets, tweet.ID)
	assert.Equal(t, "original", store.tweets[tweet.ID].Content)
	assert.Equal(t, 2, store.likes[tweet.ID])
}

func TestUpdateTweet(t *testing.T) {
	store, svc := newTweetFixture(nil)
	owner := uuid.NewString()
	tweet := store.add(owner, "draft")

	updated, err := svc.UpdateTweet(context.Background(), tweet.ID, owner, " final ")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	_, err = svc.UpdateTweet(context.Background(), tweet.ID, owner, " ")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = svc.UpdateTweet(context.Background(), uuid.NewString(), owner, "x")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteTweetRemovesLikes(t *testing.T) {
	store, svc := newTweetFixture(nil)
	owner := uuid.NewString()
	tweet := store.add(owner, "bye")
	store.likes[tweet.ID] = 3

	require.NoError(t, svc.DeleteTweet(context.Background(), tweet.ID, owner))
	assert.NotContains(t, store.tweets, tweet.ID)
	assert.NotContains(t, store.likes, tweet.ID)

	err := svc.DeleteTweet(context.Background(), tweet.ID, owner)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTweetContentTooLong(t *testing.T) {
	_, svc := newTweetFixture(nil)
	long := make([]rune, models.MaxTweetLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.CreateTweet(context.Background(), uuid.NewString(), string(long))
	assert.True(t, apperrors.IsInvalidInput(err))
}
