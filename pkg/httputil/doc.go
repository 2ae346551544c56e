// Package httputil provides the HTTP client shared by the icon fetcher and
// the info panel.
//
// [Client] issues GET requests with a User-Agent header, classifies failures
// into structured error codes, reports every request to the HTTP hooks in
// [observability], and optionally caches response bodies in a [cache.Cache]:
//
//	c := httputil.NewClient(cache.Prefixed(store, "info:"), time.Hour)
//	body, err := c.Cached(ctx, key, false, func() ([]byte, error) {
//	    return c.Get(ctx, "info", url)
//	})
//
// # Retry
//
// [Retry] repeats an operation with exponential backoff. Only errors wrapped
// in [RetryableError] are retried: network failures, 5xx responses and 429
// rate limits. A 404 or a malformed URL fails immediately.
package httputil
