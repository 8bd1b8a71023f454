package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/postline/postline/backend/go-services/internal/cache"
	"github.com/postline/postline/backend/go-services/internal/config"
	"github.com/postline/postline/backend/go-services/internal/posts"
	"github.com/postline/postline/backend/go-services/internal/sessions"
	"github.com/postline/postline/backend/go-services/internal/tokens"
	"github.com/postline/postline/backend/go-services/internal/users"
	"github.com/postline/postline/backend/go-services/pkg/middleware"
)

func newPostsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signer, err := tokens.NewSigner(config.JWTConfig{
		Secret:          "posts-test-secret-32-bytes-long!!!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	})
	require.NoError(t, err)

	repo := users.NewMemoryRepository()
	svc := sessions.NewService(
		signer,
		sessions.NewRevocationStore(cache.NewMemoryCache()),
		sessions.NewRefreshTokenRegistry(cache.NewMemoryCache()),
		repo,
	)
	postSvc := posts.NewService(posts.NewMemoryRepository(), cache.NewMemoryCache())

	r := gin.New()
	api := r.Group("/api/v1")
	NewAuthHandler(svc, repo).Register(api)
	NewPostHandler(postSvc).Register(api, middleware.AuthMiddleware(svc))
	return r
}

func TestPosts_ListEmpty(t *testing.T) {
	r := newPostsRouter(t)

	w := doJSON(t, r, "GET", "/api/v1/posts", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPosts_CreateRequiresToken(t *testing.T) {
	r := newPostsRouter(t)

	w := doJSON(t, r, "POST", "/api/v1/posts",
		`{"title":"hello","description":"world"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPosts_CreateListDetail(t *testing.T) {
	r := newPostsRouter(t)
	pair := signupAndLogin(t, r)

	w := doJSON(t, r, "POST", "/api/v1/posts",
		`{"title":"hello","description":"world"}`, pair.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var created posts.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	w = doJSON(t, r, "GET", "/api/v1/posts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "hello")

	w = doJSON(t, r, "GET", "/api/v1/posts/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/posts/999", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/posts/abc", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPosts_CreateWithRevokedToken(t *testing.T) {
	r := newPostsRouter(t)
	pair := signupAndLogin(t, r)

	w := doJSON(t, r, "POST", "/api/v1/logout", "", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/posts",
		`{"title":"hello","description":"world"}`, pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
