package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelmates/reelsync/internal/enrich"
	"github.com/reelmates/reelsync/internal/fetcher"
	"github.com/reelmates/reelsync/internal/normalize"
)

const prefetchConcurrency = 4

// Worker warms the enrichment cache in the background so viewing screens
// render with posters on first paint. One prefetch pass at a time; overlapping
// ticks are skipped.
type Worker struct {
	Fetcher  *fetcher.Client
	Cache    *enrich.Cache
	Ticker   *time.Ticker
	StopChan chan bool
	mu       sync.Mutex
	running  bool
	active   bool
}

func NewWorker(client *fetcher.Client, cache *enrich.Cache) *Worker {
	return &Worker{
		Fetcher:  client,
		Cache:    cache,
		StopChan: make(chan bool),
	}
}

func (w *Worker) Start(interval time.Duration) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler already active, use Restart to change interval")
		return
	}
	w.active = true
	w.mu.Unlock()

	w.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			w.mu.Lock()
			w.active = false
			w.mu.Unlock()
		}()
		for {
			select {
			case <-w.Ticker.C:
				w.PrefetchAll()
			case <-w.StopChan:
				w.Ticker.Stop()
				return
			}
		}
	}()
	log.Printf("Background worker started with interval: %v", interval)
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler not active")
		return
	}
	w.mu.Unlock()

	w.StopChan <- true
	log.Println("Background worker stopped")
}

func (w *Worker) Restart(interval time.Duration) {
	w.mu.Lock()
	isActive := w.active
	w.mu.Unlock()

	if isActive {
		w.Stop()
		time.Sleep(100 * time.Millisecond)
	}
	w.Start(interval)
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// PrefetchAll fetches the viewing log and looks up metadata for every entry
// still missing a title or poster. Lookup failures are logged and retried on
// the next pass.
func (w *Worker) PrefetchAll() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Prefetch already in progress, skipping...")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx := context.Background()
	viewings, err := w.Fetcher.FetchViewings(ctx)
	if err != nil {
		log.Printf("Worker: Failed to fetch viewings for prefetch: %v", err)
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	warmed := 0
	for _, v := range viewings {
		if v.ExternalID == "" || v.MediaType == normalize.MediaUnknown {
			continue
		}
		if v.Title != "" && v.PosterURL != "" {
			continue
		}
		warmed++
		g.Go(func() error {
			if _, err := w.Cache.Lookup(ctx, v.MediaType, v.ExternalID); err != nil {
				log.Printf("Worker: Metadata lookup failed for %s:%s: %v", v.MediaType, v.ExternalID, err)
			}
			return nil
		})
	}

	g.Wait()
	if warmed > 0 {
		log.Printf("Worker: Prefetched metadata for %d viewings, cache holds %d titles", warmed, w.Cache.Len())
	}
}
