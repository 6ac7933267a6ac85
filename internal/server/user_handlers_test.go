package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
	"microblog/internal/testutil"
)

func TestCreateUserEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]any{
		"username": "susan",
		"email":    "susan@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "susan", body["username"])
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "password")

	id := body["id"].(float64)
	assert.Equal(t, fmt.Sprintf("/api/users/%d", int(id)), resp.Header.Get("Location"))
}

func TestCreateUserDuplicate(t *testing.T) {
	app, _, db := newTestApp(t)
	registerUser(t, db, "susan", "hunter2")

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]any{
		"username": "susan",
		"email":    "susan@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Bad Request", body["error"])

	fields, ok := body["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Please use a different username.", fields["username"])
	assert.Equal(t, "Please use a different email address.", fields["email"])
}

func TestCreateUserMissingFields(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fields, ok := body["message"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, fields, 3)
}

func TestGetUserProfileVisibility(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")
	header := bearerFor(t, s, susan)

	// Own profile includes the email.
	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", susan.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "susan@example.com", body["email"])
	assert.NotContains(t, body, "is_following")

	// Someone else's does not, but reports the follow state.
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", david.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "email")
	assert.Equal(t, false, body["is_following"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/9999", header, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/not-a-number", header, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUserSelfOnly(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")

	resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", david.ID), bearerFor(t, s, susan), map[string]any{
		"name": "Not Yours",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", susan.ID), bearerFor(t, s, susan), map[string]any{
		"name":     "Susan Q",
		"location": "Portland",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Susan Q", body["name"])
	assert.Equal(t, "Portland", body["location"])
	assert.Equal(t, "susan", body["username"])
}

func TestDeleteUserEndpoint(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")

	resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", susan.ID), bearerFor(t, s, david), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", susan.ID), bearerFor(t, s, susan), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", susan.ID), bearerFor(t, s, david), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowAndUnfollowEndpoints(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")
	header := bearerFor(t, s, susan)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follow/%d", david.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, fmt.Sprintf("You are now following %d.", david.ID), body["message"])

	// Following twice is a client error.
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follow/%d", david.ID), header, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follow/%d", susan.ID), header, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/unfollow/%d", david.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("You are not following %d anymore.", david.ID), body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/unfollow/%d", david.ID), header, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFollowerListings(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")
	mary := registerUser(t, db, "mary", "hunter2")

	header := bearerFor(t, s, susan)
	for _, target := range []*models.User{david, mary} {
		resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follow/%d", target.ID), header, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followeds/", susan.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Contains(t, first, "is_following")
	assert.Contains(t, first, "timestamp")

	meta := body["_meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total_items"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followers/", david.ID), bearerFor(t, s, david), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items = body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "susan", items[0].(map[string]any)["username"])
}

func TestFollowedPostsIsSelfOnly(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")

	resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followeds-posts/", david.ID), bearerFor(t, s, susan), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	testutil.CreatePost(t, db, david.ID, "from david")
	header := bearerFor(t, s, susan)
	doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/follow/%d", david.ID), header, nil)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followeds-posts/", susan.ID), header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "from david", items[0].(map[string]any)["title"])
}

func TestReceivedCommentsEndpoint(t *testing.T) {
	app, s, db := newTestApp(t)
	susan := registerUser(t, db, "susan", "hunter2")
	david := registerUser(t, db, "david", "hunter2")

	post := testutil.CreatePost(t, db, susan.ID, "post")
	testutil.CreateComment(t, db, david.ID, post.ID, nil, "from david")

	// Another user's received feed is off limits.
	resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/recived-comments/", susan.ID), bearerFor(t, s, david), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/recived-comments/", susan.ID), bearerFor(t, s, susan), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "from david", items[0].(map[string]any)["body"])
}
