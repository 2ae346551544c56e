package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/errors"
)

var errTransient = errors.New(errors.ErrCodeNetwork, "transient")

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("success first try", func(t *testing.T) {
		calls := 0
		if err := Retry(ctx, 3, time.Millisecond, func() error { calls++; return nil }); err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Errorf("calls = %d", calls)
		}
	})

	t.Run("non-retryable stops", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error { calls++; return errTransient })
		if err != errTransient || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("retryable retries", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return Retryable(errTransient)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, time.Millisecond, func() error { calls++; return Retryable(errTransient) })
		if !IsRetryable(err) || calls != 2 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Retry(cctx, 3, time.Hour, func() error { return Retryable(errTransient) })
		if err != context.Canceled {
			t.Errorf("err = %v", err)
		}
	})
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(errTransient)
	if err.Error() != errTransient.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Error("code lost through RetryableError")
	}
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if !strings.HasPrefix(r.UserAgent(), "latticeview/") {
				t.Errorf("User-Agent = %q", r.UserAgent())
			}
			w.Write([]byte("hello"))
		case "/missing":
			http.NotFound(w, r)
		case "/busy":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := NewClient(nil, 0, WithRetry(1, time.Millisecond))
	ctx := context.Background()

	body, err := c.Get(ctx, "test", srv.URL+"/ok")
	if err != nil || string(body) != "hello" {
		t.Fatalf("Get /ok = %q, %v", body, err)
	}

	_, err = c.Get(ctx, "test", srv.URL+"/missing")
	if !errors.Is(err, errors.ErrCodeNotFound) || IsRetryable(err) {
		t.Errorf("/missing err = %v", err)
	}

	_, err = c.Get(ctx, "test", srv.URL+"/busy")
	if !IsRetryable(err) {
		t.Errorf("/busy should be retryable: %v", err)
	}

	_, err = c.Get(ctx, "test", srv.URL+"/forbidden")
	if err == nil || IsRetryable(err) {
		t.Errorf("/forbidden err = %v", err)
	}
}

func TestClientCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(store, time.Hour, WithRetry(3, time.Millisecond))
	ctx := context.Background()
	fetch := func() ([]byte, error) { return c.Get(ctx, "test", srv.URL) }

	data, err := c.Cached(ctx, "k", false, fetch)
	if err != nil || string(data) != "body" {
		t.Fatalf("Cached = %q, %v", data, err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 (one retry)", hits.Load())
	}

	if _, err := c.Cached(ctx, "k", false, fetch); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("cached call reached server: hits = %d", hits.Load())
	}

	if _, err := c.Cached(ctx, "k", true, fetch); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 3 {
		t.Errorf("refresh should bypass cache: hits = %d", hits.Load())
	}
}
