// Package imageproxy serves /images/{key} from an S3-compatible bucket.
//
// Routes:
//
//	GET     /images/{key}  → object body with upstream headers
//	HEAD    /images/{key}  → headers only
//	OPTIONS /images/{key}  → 204 preflight
package imageproxy

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	imagesPrefix  = "/images/"
	DefaultMaxAge = 4 * time.Hour
)

type Handler struct {
	store  Store
	maxAge time.Duration
	logger *zap.Logger
}

func NewHandler(store Store, maxAge time.Duration, logger *zap.Logger) *Handler {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Handler{store: store, maxAge: maxAge, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, ok := objectKey(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var (
		obj *Object
		err error
	)
	if r.Method == http.MethodHead {
		obj, err = h.store.Head(r.Context(), key)
	} else {
		obj, err = h.store.Get(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to fetch upstream object",
			zap.String("key", key),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if obj.Body != nil {
		defer obj.Body.Close()
	}

	header := w.Header()
	if obj.ContentType != "" {
		header.Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		header.Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	if obj.ETag != "" {
		header.Set("ETag", obj.ETag)
	}
	header.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(h.maxAge.Seconds())))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead || obj.Body == nil {
		return
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("Failed to stream object",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func setCORS(header http.Header) {
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
}

// objectKey extracts the bucket key, rejecting empty keys and any ".." segment.
func objectKey(path string) (string, bool) {
	if !strings.HasPrefix(path, imagesPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(path, imagesPrefix)
	if key == "" || strings.HasPrefix(key, "/") || strings.ContainsRune(key, 0) {
		return "", false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return key, true
}
