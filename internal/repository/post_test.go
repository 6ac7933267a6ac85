package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
	"microblog/internal/testutil"
)

func TestIncrementViews(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author.ID, "post")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(ctx, post.ID))
	}

	loaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.Views)
}

func TestPostDeleteCascadesToCommentsAndLikes(t *testing.T) {
	db := testutil.OpenDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	liker := testutil.CreateUser(t, db, "liker")
	post := testutil.CreatePost(t, db, author.ID, "doomed")
	other := testutil.CreatePost(t, db, author.ID, "survivor")

	root := testutil.CreateComment(t, db, author.ID, post.ID, nil, "root")
	testutil.CreateComment(t, db, author.ID, post.ID, &root.ID, "reply")
	keep := testutil.CreateComment(t, db, author.ID, other.ID, nil, "keep")
	require.NoError(t, commentRepo.Like(ctx, liker.ID, root.ID))

	require.NoError(t, postRepo.Delete(ctx, post.ID))

	_, err := postRepo.GetByID(ctx, post.ID)
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.CommentLike{}).Where("comment_id = ?", root.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = commentRepo.GetByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestListNewestFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	base := time.Now().Add(-time.Hour)
	old := testutil.CreatePost(t, db, author.ID, "old")
	recent := testutil.CreatePost(t, db, author.ID, "recent")
	require.NoError(t, db.Model(old).UpdateColumn("created_at", base).Error)
	require.NoError(t, db.Model(recent).UpdateColumn("created_at", base.Add(time.Minute)).Error)

	posts, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "recent", posts[0].Title)
	assert.Equal(t, "old", posts[1].Title)
	assert.Equal(t, "author", posts[0].Author.Username)
}

func TestListFollowedOnlyFollowedAuthors(t *testing.T) {
	db := testutil.OpenDB(t)
	postRepo := NewPostRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader")
	followed := testutil.CreateUser(t, db, "followed")
	stranger := testutil.CreateUser(t, db, "stranger")

	testutil.CreatePost(t, db, followed.ID, "visible")
	testutil.CreatePost(t, db, stranger.ID, "hidden")
	testutil.CreatePost(t, db, reader.ID, "own")

	require.NoError(t, followRepo.Follow(ctx, reader.ID, followed.ID))

	posts, total, err := postRepo.ListFollowed(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Title)
}
