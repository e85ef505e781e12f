package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	apperrors "editor-board/internal/errors"
	"editor-board/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(srv.URL, 5*time.Second, zap.NewNop())
	c.backoff = time.Millisecond
	return c, srv
}

func TestIdentity_Me(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if cookie, err := r.Cookie("accessToken"); assert.NoError(t, err) {
			assert.Equal(t, "tok", cookie.Value)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"id":7,"email":"a@b.c","nickname":"cutter","profileImageUrl":"p/7.png","authority":"USER"}}`))
	})

	profile, err := c.Identity("tok").Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{ID: 7, Email: "a@b.c", Nickname: "cutter", ProfileImageURL: "p/7.png", Authority: "USER"}, profile)
	assert.False(t, profile.IsAdmin())
}

func TestIdentity_MeUnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Identity("expired").Me(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdentity_MeServerErrorIsNotUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Identity("tok").Me(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestIdentity_MeWithoutToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Identity("").Me(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestIdentity_MeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond, zap.NewNop())

	_, err := c.Identity("tok").Me(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnavailable))
}

func TestIdentity_VerifyAndLogout(t *testing.T) {
	var methods []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	id := c.Identity("tok")
	require.NoError(t, id.Verify(context.Background()))
	require.NoError(t, id.Logout(context.Background()))

	assert.Equal(t, []string{"HEAD /api/auth/me", "POST /api/auth/logout"}, methods)
}

func TestLoginURL(t *testing.T) {
	c := New("https://api.example.com/", time.Second, zap.NewNop())
	assert.Equal(t, "https://api.example.com/oauth2/authorization/google", c.LoginURL())
}

func TestParseCallback(t *testing.T) {
	token, err := ParseCallback(url.Values{"token": {" abc "}})
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ParseCallback(url.Values{"status": {"403"}})
	assert.True(t, errors.Is(err, ErrAccountDisabled))

	_, err = ParseCallback(url.Values{"error": {"access_denied"}})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = ParseCallback(url.Values{})
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestFetchListings_ArrayAndEnvelope(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs.json":
			_, _ = w.Write([]byte(`[{"id":1,"title":"Editor","publishedAt":"2024-01-01","videoType":"GAME","platform":"youtube"}]`))
		case "/posts.json":
			_, _ = w.Write([]byte(`{"code":200,"data":[{"id":2,"kind":"post","title":"Tips","videoType":["VLOG","ETC"]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	jobs, err := c.FetchListings(context.Background(), srv.URL+"/jobs.json", models.KindJob)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.KindJob, jobs[0].Kind)
	assert.Equal(t, models.Tags{"GAME"}, jobs[0].VideoTypes)

	posts, err := c.FetchListings(context.Background(), srv.URL+"/posts.json", models.KindPost)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, models.Tags{"VLOG", "ETC"}, posts[0].VideoTypes)

	_, err = c.FetchListings(context.Background(), srv.URL+"/missing.json", models.KindJob)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFetchListings_RetriesTransientFailures(t *testing.T) {
	var calls int32
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	listings, err := c.FetchListings(context.Background(), srv.URL+"/jobs.json", models.KindJob)
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchListings_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchListings(context.Background(), srv.URL+"/jobs.json", models.KindJob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestDecodeListings_Malformed(t *testing.T) {
	_, err := decodeListings([]byte(`{"data": {"id": 1}}`))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInternal))

	listings, err := decodeListings([]byte(`{"code":200,"data":null}`))
	require.NoError(t, err)
	assert.Empty(t, listings)
}
