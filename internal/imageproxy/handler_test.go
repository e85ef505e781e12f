package imageproxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	objects map[string]string
	err     error
	calls   []string
}

func (f *fakeStore) lookup(method, key string) (*Object, error) {
	f.calls = append(f.calls, method+" "+key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &Object{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentType:   "image/png",
		ContentLength: int64(len(body)),
		ETag:          `"abc"`,
	}, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (*Object, error) {
	return f.lookup("GET", key)
}

func (f *fakeStore) Head(_ context.Context, key string) (*Object, error) {
	obj, err := f.lookup("HEAD", key)
	if obj != nil {
		obj.Body = nil
	}
	return obj, err
}

func newTestHandler(store Store) http.Handler {
	return NewHandler(store, 0, zap.NewNop())
}

func TestHandler_GetServesObject(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"profiles/42.png": "png-bytes"}}
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/profiles/42.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "9", rec.Header().Get("Content-Length"))
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=14400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, HEAD, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, []string{"GET profiles/42.png"}, store.calls)
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"a.jpg": "data"}}
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/images/a.jpg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, []string{"HEAD a.jpg"}, store.calls)
}

func TestHandler_Options(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/images/a.jpg", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, store.calls)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestHandler(&fakeStore{}).ServeHTTP(rec, httptest.NewRequest(method, "/images/a.jpg", nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing object", path: "/images/missing.png"},
		{name: "empty key", path: "/images/"},
		{name: "other prefix", path: "/static/a.png"},
		{name: "traversal", path: "/images/../secret"},
		{name: "nested traversal", path: "/images/a/../../secret"},
		{name: "double slash", path: "/images//etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{objects: map[string]string{}}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path

			rec := httptest.NewRecorder()
			newTestHandler(store).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestHandler_UpstreamErrorIs500(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}

	rec := httptest.NewRecorder()
	newTestHandler(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestHandler_CustomMaxAge(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"a.png": "x"}}
	h := NewHandler(store, time.Hour, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))

	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestLogger_SetsRequestID(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/images/a.png", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	h := Recovery(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
