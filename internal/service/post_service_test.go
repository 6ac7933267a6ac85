package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/testutil"
)

func newPostService(t *testing.T) (*PostService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	return NewPostService(repository.NewPostRepository(db)), db
}

func TestCreatePost(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")

	post, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Title:    "Hello",
		Body:     "first post",
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "first post"+models.SummaryMarker, post.Summary)
	assert.Equal(t, "author", post.Author.Username)
}

func TestCreatePostKeepsExplicitSummary(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")

	post, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Title:    "Hello",
		Summary:  "hand written",
		Body:     "first post",
	})
	require.NoError(t, err)
	assert.Equal(t, "hand written", post.Summary)
}

func TestCreatePostReportsEveryBadField(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePostInput{AuthorID: author.ID})
	fields := requireFieldError(t, err)
	assert.Equal(t, "Title is required.", fields["title"])
	assert.Equal(t, "Body is required.", fields["body"])

	_, err = svc.Create(ctx, CreatePostInput{
		AuthorID: author.ID,
		Title:    strings.Repeat("x", 256),
		Body:     "ok",
	})
	fields = requireFieldError(t, err)
	assert.Equal(t, "Title must less than 255 characters.", fields["title"])
	assert.NotContains(t, fields, "body")

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Title length is measured in characters, not bytes.
func TestCreatePostTitleLengthInRunes(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")

	_, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Title:    strings.Repeat("é", 255),
		Body:     "ok",
	})
	assert.NoError(t, err)
}

func TestGetDetailCountsViews(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "post")
	ctx := context.Background()

	first, err := svc.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)

	second, err := svc.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)

	// A plain Get does not count.
	plain, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), plain.Views)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")
	stranger := testutil.CreateUser(t, db, "stranger")
	post := testutil.CreatePost(t, db, author.ID, "post")
	ctx := context.Background()

	title, body := "New title", "new body"
	_, err := svc.Update(ctx, UpdatePostInput{ActorID: stranger.ID, PostID: post.ID, Title: &title, Body: &body})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	updated, err := svc.Update(ctx, UpdatePostInput{ActorID: author.ID, PostID: post.ID, Title: &title, Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "new body", updated.Body)
}

func TestUpdatePostRequiresTitleAndBody(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "post")

	title := "only a title"
	_, err := svc.Update(context.Background(), UpdatePostInput{ActorID: author.ID, PostID: post.ID, Title: &title})
	fields := requireFieldError(t, err)
	assert.Equal(t, "Body is required.", fields["body"])
}

func TestDeletePostAuthorOnly(t *testing.T) {
	svc, db := newPostService(t)
	author := testutil.CreateUser(t, db, "author")
	stranger := testutil.CreateUser(t, db, "stranger")
	post := testutil.CreatePost(t, db, author.ID, "post")
	ctx := context.Background()

	err := svc.Delete(ctx, stranger.ID, post.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	require.NoError(t, svc.Delete(ctx, author.ID, post.ID))
	_, err = svc.Get(ctx, post.ID)
	assert.Error(t, err)
}
