package icon

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel icon loads.
const DefaultConcurrency = 8

// Result is the outcome of one icon load, addressed to a node key.
type Result struct {
	Key   string
	URL   string
	Image image.Image
	Err   error
}

type request struct{ key, url string }

type loaded struct {
	img image.Image
	err error
}

// Fetcher queues icon requests and loads them with bounded concurrency.
// Each distinct URL is loaded once; later requests for the same URL are
// answered from memory.
type Fetcher struct {
	loader Loader
	limit  int

	mu    sync.Mutex
	queue []request
	done  map[string]loaded
}

// NewFetcher creates a fetcher. A limit below 1 uses DefaultConcurrency.
func NewFetcher(loader Loader, limit int) *Fetcher {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &Fetcher{loader: loader, limit: limit, done: make(map[string]loaded)}
}

// Request queues the icon at url for the node with key. It never blocks.
func (f *Fetcher) Request(key, url string) {
	f.mu.Lock()
	f.queue = append(f.queue, request{key: key, url: url})
	f.mu.Unlock()
}

// Pending reports how many requests are queued.
func (f *Fetcher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Fetch drains the queue, calling deliver once per request as loads finish.
// Deliveries are serialized; deliver never runs concurrently with itself.
// Load failures are delivered as results, so Fetch only returns an error
// when ctx is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, deliver func(Result)) error {
	f.mu.Lock()
	queue := f.queue
	f.queue = nil
	f.mu.Unlock()

	byURL := make(map[string][]string)
	var urls []string
	for _, r := range queue {
		if _, ok := byURL[r.url]; !ok {
			urls = append(urls, r.url)
		}
		byURL[r.url] = append(byURL[r.url], r.key)
	}

	var out sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)

	for _, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := f.load(gctx, u)

			out.Lock()
			defer out.Unlock()
			for _, key := range byURL[u] {
				deliver(Result{Key: key, URL: u, Image: res.img, Err: res.err})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (f *Fetcher) load(ctx context.Context, u string) loaded {
	f.mu.Lock()
	res, ok := f.done[u]
	f.mu.Unlock()
	if ok {
		return res
	}

	img, err := f.loader.Load(ctx, u)
	res = loaded{img: img, err: err}
	if ctx.Err() == nil {
		f.mu.Lock()
		f.done[u] = res
		f.mu.Unlock()
	}
	return res
}
