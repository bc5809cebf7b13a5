// Package watch periodically re-runs job searches and reports postings that
// have not been seen before.
package watch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Searcher runs a keyword job search. *linkedin.Service satisfies it.
type Searcher interface {
	SearchJobs(ctx context.Context, keyword string) ([]types.Record, error)
}

// Sink persists newly seen jobs. *db.DB satisfies it.
type Sink interface {
	InsertWatchedJobs(ctx context.Context, keyword string, jobs []types.Record) (inserted, duplicates int, err error)
}

// Options configures a Watcher.
type Options struct {
	// Seen defaults to an in-memory store.
	Seen SeenStore
	// Sink, when set, stores every new job before it is marked seen.
	Sink Sink
	// OnNew receives the new jobs for a keyword after each search.
	OnNew func(keyword string, jobs []types.Record)
}

// Watcher runs one search per keyword each cycle.
type Watcher struct {
	searcher Searcher
	keywords []string
	opts     Options
}

// KeywordResult summarizes one keyword's search within a cycle.
type KeywordResult struct {
	Keyword string
	Found   int
	New     int
	Skipped int // records without a job_url
	Err     error
}

// NewWatcher validates keywords and builds a Watcher.
func NewWatcher(searcher Searcher, keywords []string, opts Options) (*Watcher, error) {
	var cleaned []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("watch requires at least one keyword")
	}
	if opts.Seen == nil {
		opts.Seen = NewMemorySeenStore()
	}
	return &Watcher{searcher: searcher, keywords: cleaned, opts: opts}, nil
}

// Keywords returns the keywords searched each cycle.
func (w *Watcher) Keywords() []string {
	return append([]string(nil), w.keywords...)
}

// RunOnce searches every keyword. A failing keyword is logged and recorded in
// its result; the remaining keywords still run.
func (w *Watcher) RunOnce(ctx context.Context) []KeywordResult {
	log.Printf("[watch] Cycle started for %d keyword(s)", len(w.keywords))

	results := make([]KeywordResult, 0, len(w.keywords))
	var totalNew int
	for _, keyword := range w.keywords {
		if ctx.Err() != nil {
			results = append(results, KeywordResult{Keyword: keyword, Err: ctx.Err()})
			continue
		}
		res := w.runKeyword(ctx, keyword)
		if res.Err != nil {
			log.Printf("[watch] Error for keyword %q: %v (continuing)", keyword, res.Err)
		}
		totalNew += res.New
		results = append(results, res)
	}

	log.Printf("[watch] Cycle complete: %d new job(s)", totalNew)
	return results
}

func (w *Watcher) runKeyword(ctx context.Context, keyword string) KeywordResult {
	res := KeywordResult{Keyword: keyword}

	jobs, err := w.searcher.SearchJobs(ctx, keyword)
	if err != nil {
		res.Err = fmt.Errorf("search: %w", err)
		return res
	}
	res.Found = len(jobs)

	var fresh []types.Record
	var urls []string
	batch := make(map[string]bool)
	for _, job := range jobs {
		jobURL, _ := job["job_url"].(string)
		if jobURL == "" {
			res.Skipped++
			continue
		}
		if batch[jobURL] {
			continue
		}
		seen, err := w.opts.Seen.Seen(ctx, jobURL)
		if err != nil {
			res.Err = fmt.Errorf("seen check: %w", err)
			return res
		}
		if seen {
			continue
		}
		batch[jobURL] = true
		fresh = append(fresh, job)
		urls = append(urls, jobURL)
	}

	if len(fresh) == 0 {
		return res
	}

	if w.opts.Sink != nil {
		inserted, dupes, err := w.opts.Sink.InsertWatchedJobs(ctx, keyword, fresh)
		if err != nil {
			res.Err = fmt.Errorf("persist: %w", err)
			return res
		}
		log.Printf("[watch] Keyword %q: inserted=%d duplicates=%d", keyword, inserted, dupes)
	}

	// Marked only after persisting, so a failed insert is retried next cycle.
	if err := w.opts.Seen.MarkSeen(ctx, urls...); err != nil {
		res.Err = fmt.Errorf("mark seen: %w", err)
		return res
	}

	res.New = len(fresh)
	if w.opts.OnNew != nil {
		w.opts.OnNew(keyword, fresh)
	}
	return res
}
