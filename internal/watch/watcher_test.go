package watch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]types.Record
	errs    map[string]error
	calls   []string
}

func (f *fakeSearcher) SearchJobs(_ context.Context, keyword string) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, keyword)
	if err := f.errs[keyword]; err != nil {
		return nil, err
	}
	return f.results[keyword], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSink struct {
	err   error
	saved map[string][]types.Record
}

func (f *fakeSink) InsertWatchedJobs(_ context.Context, keyword string, jobs []types.Record) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]types.Record)
	}
	f.saved[keyword] = append(f.saved[keyword], jobs...)
	return len(jobs), 0, nil
}

func job(url, title string) types.Record {
	return types.Record{"job_url": url, "job_title": title}
}

func TestNewWatcher_RequiresKeyword(t *testing.T) {
	_, err := NewWatcher(&fakeSearcher{}, []string{" ", ""}, Options{})
	assert.Error(t, err)

	w, err := NewWatcher(&fakeSearcher{}, []string{" golang ", "rust"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust"}, w.Keywords())
}

func TestRunOnce_ReportsOnlyNewJobs(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]types.Record{
		"golang": {job("https://l/1", "A"), job("https://l/2", "B")},
	}}
	var reported [][]types.Record
	w, err := NewWatcher(searcher, []string{"golang"}, Options{
		OnNew: func(_ string, jobs []types.Record) { reported = append(reported, jobs) },
	})
	require.NoError(t, err)

	first := w.RunOnce(context.Background())
	require.Len(t, first, 1)
	assert.Equal(t, 2, first[0].Found)
	assert.Equal(t, 2, first[0].New)
	require.Len(t, reported, 1)

	searcher.results["golang"] = append(searcher.results["golang"], job("https://l/3", "C"))
	second := w.RunOnce(context.Background())
	assert.Equal(t, 3, second[0].Found)
	assert.Equal(t, 1, second[0].New)
	require.Len(t, reported, 2)
	assert.Equal(t, "C", reported[1][0]["job_title"])

	third := w.RunOnce(context.Background())
	assert.Equal(t, 0, third[0].New)
	assert.Len(t, reported, 2)
}

func TestRunOnce_SkipsJobsWithoutURLAndDuplicatesInBatch(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]types.Record{
		"golang": {job("https://l/1", "A"), job("https://l/1", "A again"), {"job_title": "no url"}},
	}}
	seen := NewMemorySeenStore()
	w, err := NewWatcher(searcher, []string{"golang"}, Options{Seen: seen})
	require.NoError(t, err)

	res := w.RunOnce(context.Background())[0]

	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, seen.Len())
}

func TestRunOnce_KeywordErrorDoesNotStopCycle(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]types.Record{"rust": {job("https://l/9", "R")}},
		errs:    map[string]error{"golang": errors.New("upstream down")},
	}
	w, err := NewWatcher(searcher, []string{"golang", "rust"}, Options{})
	require.NoError(t, err)

	results := w.RunOnce(context.Background())

	require.Len(t, results, 2)
	assert.ErrorContains(t, results[0].Err, "upstream down")
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].New)
}

func TestRunOnce_PersistsBeforeMarkingSeen(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]types.Record{"golang": {job("https://l/1", "A")}}}
	sink := &fakeSink{err: errors.New("db unavailable")}
	seen := NewMemorySeenStore()
	w, err := NewWatcher(searcher, []string{"golang"}, Options{Seen: seen, Sink: sink})
	require.NoError(t, err)

	res := w.RunOnce(context.Background())[0]
	assert.ErrorContains(t, res.Err, "persist")
	assert.Equal(t, 0, seen.Len())

	sink.err = nil
	res = w.RunOnce(context.Background())[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.New)
	assert.Len(t, sink.saved["golang"], 1)
	assert.Equal(t, 1, seen.Len())
}

func TestRunOnce_CancelledContext(t *testing.T) {
	searcher := &fakeSearcher{}
	w, err := NewWatcher(searcher, []string{"golang"}, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := w.RunOnce(ctx)

	assert.ErrorIs(t, res[0].Err, context.Canceled)
	assert.Equal(t, 0, searcher.callCount())
}
