package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/bookmarks/internal/api/handler"
	"github.com/d60-Lab/bookmarks/internal/ranking"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/internal/testutil"
	"github.com/d60-Lab/bookmarks/pkg/auth"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	mr, client := testutil.NewRedis(t)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	imageRepo := repository.NewImageRepository(db)
	actionRepo := repository.NewActionRepository(db)

	tokens := auth.NewTokenManager("test", "bookmarks", time.Hour)
	actions := service.NewActionService(actionRepo, followRepo, userRepo, imageRepo, service.ActionOptions{})
	h := handler.NewHandler(
		service.NewAccountService(userRepo, tokens, actions),
		service.NewRelationshipService(followRepo, userRepo, actions),
		service.NewImageService(imageRepo, ranking.NewStore(client, ranking.Options{}), actions),
		actions,
		10,
	)
	return &testServer{t: t, engine: NewRouter(h, tokens, RouterOptions{}), redis: mr}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) register(name string) (id, token string) {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/account/register", "", map[string]string{
		"username": name, "email": name + "@example.com",
		"password": "password123", "password2": "password123",
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	var u struct {
		ID string `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &u))

	code, env = s.do(http.MethodPost, "/api/v1/account/login", "", map[string]string{
		"username": name + "@example.com", "password": "password123",
	})
	require.Equal(s.t, http.StatusOK, code, env.Message)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	return u.ID, login.Token
}

func TestBookmarkFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.register("alice")
	bobID, bob := s.register("bob")

	// alice 收藏一张图
	code, env := s.do(http.MethodPost, "/api/v1/images", alice, map[string]string{
		"title": "Mountain Lake", "url": "https://example.com/lake.jpg",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var img struct {
		ID   uint64 `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &img))
	assert.Equal(t, "mountain-lake", img.Slug)

	// bob 关注 alice、点赞
	code, _ = s.do(http.MethodPost, "/api/v1/relations/follow", bob, map[string]string{"user_id": aliceID})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/v1/images/1/like", bob, nil)
	require.Equal(t, http.StatusOK, code)

	// 详情计数
	for i := 1; i <= 2; i++ {
		code, env = s.do(http.MethodGet, "/api/v1/images/1", "", nil)
		require.Equal(t, http.StatusOK, code)
		var d struct {
			Views      int64 `json:"views"`
			TotalLikes int64 `json:"total_likes"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &d))
		assert.EqualValues(t, i, d.Views)
		assert.EqualValues(t, 1, d.TotalLikes)
	}

	code, env = s.do(http.MethodGet, "/api/v1/images/ranking", "", nil)
	require.Equal(t, http.StatusOK, code)
	var ranked []struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, img.ID, ranked[0].ID)

	// bob 只关注了 alice，看到 alice 的注册与收藏
	code, env = s.do(http.MethodGet, "/api/v1/dashboard", bob, nil)
	require.Equal(t, http.StatusOK, code)
	var feed []service.FeedEntry
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 2)
	for _, e := range feed {
		assert.Equal(t, aliceID, e.ActorID)
	}

	// alice 没关注任何人，看到除自己外的所有动态
	code, env = s.do(http.MethodGet, "/api/v1/dashboard", alice, nil)
	require.Equal(t, http.StatusOK, code)
	feed = nil
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.NotEmpty(t, feed)
	for _, e := range feed {
		assert.Equal(t, bobID, e.ActorID)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.register("alice")

	code, _ := s.do(http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/v1/relations/follow", alice, map[string]string{"user_id": aliceID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/v1/relations/follow", alice, map[string]string{"user_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/images/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/images/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/v1/account/register", "", map[string]string{
		"username": "alice", "email": "other@example.com",
		"password": "password123", "password2": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/v1/account/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRankingDegradesWhenRedisDown(t *testing.T) {
	s := newTestServer(t)
	s.redis.Close()

	code, env := s.do(http.MethodGet, "/api/v1/images/ranking", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
