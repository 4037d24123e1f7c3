package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/metrics"
	"github.com/iliyamo/chatapp-auth/internal/model"
	"github.com/iliyamo/chatapp-auth/internal/repository"
	"github.com/iliyamo/chatapp-auth/internal/service"
	"github.com/iliyamo/chatapp-auth/internal/utils"
)

const secret = "router-test-secret"

type app struct {
	e    *echo.Echo
	repo *repository.MemoryUserRepo
}

func newApp(t *testing.T) app {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	repo := repository.NewMemoryUserRepo()
	m := metrics.New()
	svc := service.NewAuthService(repo, utils.NewHasher(4), utils.NewTokenIssuer(secret, time.Hour), nil, log, m)
	return app{e: New(Options{Auth: svc, Metrics: m, Log: log}), repo: repo}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a app) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

type userData struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func decode(t *testing.T, env envelope) userData {
	t.Helper()
	var d userData
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func TestAliceEndToEnd(t *testing.T) {
	a := newApp(t)

	rec, env := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "User created successfully", env.Message)
	reg := decode(t, env)
	assert.NotEmpty(t, reg.User.ID)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotContains(t, rec.Body.String(), "s3cret!")

	stored, err := a.repo.GetByID(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)

	rec, env = a.do(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode(t, env)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, reg.User.ID, login.User.ID)

	for _, path := range []string{"/auth/profile", "/auth/test-auth"} {
		rec, env = a.do(t, http.MethodGet, path, "", "Bearer "+login.Token)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "You are authenticated!", env.Message)
		prof := decode(t, env)
		assert.Equal(t, reg.User.ID, prof.User.ID)
		assert.Equal(t, "user", prof.User.Role)
		assert.NotContains(t, rec.Body.String(), stored.PasswordHash)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	a := newApp(t)
	rec, _ := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPw, _ := a.do(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"nope"}`, "")
	unknown, _ := a.do(t, http.MethodPost, "/auth/login", `{"email":"bob@example.com","password":"s3cret!"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
	assert.JSONEq(t, `{"status":"fail","message":"Invalid credentials"}`, wrongPw.Body.String())
}

func TestProtect_TokenFailures(t *testing.T) {
	a := newApp(t)
	rec, env := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, env).User.ID

	forged, err := utils.NewTokenIssuer("another-secret", time.Hour).Issue(id)
	require.NoError(t, err)

	expiredIssuer := utils.NewTokenIssuer(secret, time.Millisecond)
	expired, err := expiredIssuer.Issue(id)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	good, err := utils.NewTokenIssuer(secret, time.Hour).Issue(id)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "You are not logged in. Please log in to get access."},
		{"no bearer prefix", good.Token, "You are not logged in. Please log in to get access."},
		{"basic scheme", "Basic dXNlcjpwdw==", "You are not logged in. Please log in to get access."},
		{"forged", "Bearer " + forged.Token, "Invalid token. Please log in again."},
		{"expired", "Bearer " + expired.Token, "Invalid token. Please log in again."},
		{"garbage", "Bearer abc.def.ghi", "Invalid token. Please log in again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := a.do(t, http.MethodGet, "/auth/profile", "", tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "fail", env.Status)
			assert.Equal(t, tc.msg, env.Message)
		})
	}

	a.repo.Delete(id)
	rec, env = a.do(t, http.MethodGet, "/auth/profile", "", "Bearer "+good.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "The user belonging to this token no longer exists.", env.Message)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	a := newApp(t)
	rec, _ := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice2","email":"Alice@Example.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Error creating user", env.Message)
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	a := newApp(t)
	bodies := []string{
		`{"username":"alice","email":"same@example.com","password":"pw"}`,
		`{"username":"alicia","email":"same@example.com","password":"pw"}`,
	}
	codes := make([]int, len(bodies))
	var wg sync.WaitGroup
	for i, b := range bodies {
		wg.Add(1)
		go func(i int, b string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(b))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			a.e.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i, b)
	}
	wg.Wait()
	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusInternalServerError}, codes)
}

func TestGetUser_AdminOnly(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	hasher := utils.NewHasher(4)
	hash, err := hasher.Hash("rootpw")
	require.NoError(t, err)
	_, err = a.repo.Create(ctx, &model.User{Username: "root", Email: "root@example.com", PasswordHash: hash, Role: model.RoleAdmin})
	require.NoError(t, err)

	rec, env := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	aliceID := decode(t, env).User.ID

	_, env = a.do(t, http.MethodPost, "/auth/login", `{"email":"root@example.com","password":"rootpw"}`, "")
	adminTok := decode(t, env).Token
	_, env = a.do(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"pw"}`, "")
	aliceTok := decode(t, env).Token

	rec, env = a.do(t, http.MethodGet, "/auth/users/"+aliceID, "", "Bearer "+aliceTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You do not have permission to perform this action", env.Message)

	rec, env = a.do(t, http.MethodGet, "/auth/users/"+aliceID, "", "Bearer "+adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode(t, env).User.Username)

	rec, env = a.do(t, http.MethodGet, "/auth/users/does-not-exist", "", "Bearer "+adminTok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)

	rec, _ = a.do(t, http.MethodGet, "/auth/users/"+aliceID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicRoutes(t *testing.T) {
	a := newApp(t)

	rec, _ := a.do(t, http.MethodGet, "/", "", "")
	assert.JSONEq(t, `{"message":"ChatApp Backend is running!"}`, rec.Body.String())

	rec, env := a.do(t, http.MethodGet, "/auth/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Auth route is working", env.Message)

	rec, _ = a.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = a.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatapp_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderAuthorization)
}

func newCachedApp(t *testing.T, ttl time.Duration) (app, *repository.CachedDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log, _ := logtest.NewNullLogger()
	repo := repository.NewMemoryUserRepo()
	dir := repository.NewCachedDirectory(repo, rdb, ttl, "test").(*repository.CachedDirectory)
	m := metrics.New()
	svc := service.NewAuthService(dir, utils.NewHasher(4), utils.NewTokenIssuer(secret, time.Hour), nil, log, m)
	return app{e: New(Options{Auth: svc, Metrics: m, Log: log}), repo: repo}, dir, mr
}

func registerAndProfile(t *testing.T, a app, username string) userData {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/auth/register",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	d := decode(t, env)

	rec, _ = a.do(t, http.MethodGet, "/auth/profile", "", "Bearer "+d.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	return d
}

func TestProtect_CachedUserDeletedAfterIssue(t *testing.T) {
	const ttl = 30 * time.Second
	a, dir, mr := newCachedApp(t, ttl)

	t.Run("delete through cache", func(t *testing.T) {
		d := registerAndProfile(t, a, "carol")
		require.NoError(t, dir.Delete(context.Background(), d.User.ID))

		rec, env := a.do(t, http.MethodGet, "/auth/profile", "", "Bearer "+d.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "The user belonging to this token no longer exists.", env.Message)
	})

	t.Run("backing store only", func(t *testing.T) {
		d := registerAndProfile(t, a, "dave")
		a.repo.Delete(d.User.ID)

		// the cached copy is served until it expires
		rec, _ := a.do(t, http.MethodGet, "/auth/profile", "", "Bearer "+d.Token)
		assert.Equal(t, http.StatusOK, rec.Code)

		mr.FastForward(ttl)
		rec, env := a.do(t, http.MethodGet, "/auth/profile", "", "Bearer "+d.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "The user belonging to this token no longer exists.", env.Message)
	})
}
