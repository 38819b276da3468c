package listquery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a FetchFunc that remembers every parameter set it was called
// with and answers with the page number.
type recorder struct {
	mu    sync.Mutex
	calls []url.Values
	err   error
}

func (r *recorder) fetch(_ context.Context, params url.Values) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, params)
	if r.err != nil {
		return nil, r.err
	}
	return []string{"page-" + params.Get("page")}, nil
}

func (r *recorder) snapshot() []url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]url.Values(nil), r.calls...)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestController(t *testing.T, fetch FetchFunc[string], debounce time.Duration) *Controller[string] {
	t.Helper()
	c := New(fetch, discard(), Options{Debounce: debounce})
	t.Cleanup(c.Close)
	return c
}

func TestStart_DefaultParams(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)

	c.Start()
	c.Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].Get("page"))
	assert.Equal(t, "Canada", calls[0].Get("distribution"))
	assert.Equal(t, "flower", calls[0].Get("category"))
	assert.False(t, calls[0].Has("q"))

	st := c.State()
	assert.Equal(t, []string{"page-1"}, st.Items)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Equal(t, DefaultSort, st.SortOption)
}

func TestSetPage_NeverBelowOne(t *testing.T) {
	tests := []struct {
		name string
		page int
		want string
	}{
		{name: "zero", page: 0, want: "1"},
		{name: "negative", page: -4, want: "1"},
		{name: "positive", page: 3, want: "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := newTestController(t, rec.fetch, time.Hour)

			c.SetPage(tt.page)
			c.Wait()

			calls := rec.snapshot()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Get("page"))
		})
	}
}

func TestPrevPage_DisabledOnFirstPage(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)

	assert.False(t, c.PrevPage())
	c.Wait()
	assert.Empty(t, rec.snapshot())

	c.NextPage()
	c.Wait()
	assert.True(t, c.PrevPage())
	c.Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "2", calls[0].Get("page"))
	assert.Equal(t, "1", calls[1].Get("page"))
}

func TestSetSearchQuery_DebouncesToOneFetch(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, 100*time.Millisecond)

	for _, text := range []string{"r", "ro", "ros", "rose"} {
		c.SetSearchQuery(text)
	}
	assert.Empty(t, rec.snapshot(), "nothing is fetched inside the window")

	c.Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "rose", calls[0].Get("q"))
}

func TestSetSearchQuery_KeepsPage(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, 10*time.Millisecond)

	c.SetPage(4)
	c.Wait()
	c.SetSearchQuery("lily")
	c.Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "4", calls[1].Get("page"))
	assert.Equal(t, "lily", calls[1].Get("q"))
}

func TestSubmitSearch_ResetsPageAndDropsDebounce(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)

	c.SetPage(3)
	c.Wait()
	c.SetSearchQuery("trillium")
	c.SubmitSearch()
	c.Wait()

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "1", calls[1].Get("page"))
	assert.Equal(t, "trillium", calls[1].Get("q"))
	assert.Equal(t, 1, c.State().Page)
}

func TestLatestRequestWins(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, params url.Values) ([]string, error) {
		if params.Get("page") == "1" {
			<-release // the first request answers last
		}
		return []string{"page-" + params.Get("page")}, nil
	}
	c := newTestController(t, fetch, time.Hour)

	c.SetPage(1)
	c.SetPage(2)
	require.Eventually(t, func() bool {
		return len(c.State().Items) == 1
	}, time.Second, 5*time.Millisecond)

	close(release)
	c.Wait()

	st := c.State()
	assert.Equal(t, []string{"page-2"}, st.Items)
	assert.Equal(t, 2, st.Page)
	assert.False(t, st.Loading)
}

func TestFetchFailure_KeepsPreviousItems(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)

	c.Start()
	c.Wait()

	rec.mu.Lock()
	rec.err = errors.New("backend down")
	rec.mu.Unlock()

	c.NextPage()
	c.Wait()

	st := c.State()
	assert.EqualError(t, st.Err, "backend down")
	assert.Equal(t, []string{"page-1"}, st.Items)
	assert.False(t, st.Loading)
}

func TestSetSortOption_IsDisplayOnly(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)
	before := c.Params()

	require.NoError(t, c.SetSortOption(SortRarity))
	c.Wait()

	assert.Equal(t, SortRarity, c.State().SortOption)
	assert.Equal(t, before, c.Params())
	assert.Empty(t, rec.snapshot())

	err := c.SetSortOption("Height")
	assert.ErrorIs(t, err, ErrUnknownSort)
	assert.Equal(t, SortRarity, c.State().SortOption)
}

func TestOnChange_ReportsLoadingThenLoaded(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec.fetch, time.Hour)

	var mu sync.Mutex
	var seen []bool
	c.OnChange(func(s State[string]) {
		mu.Lock()
		seen = append(seen, s.Loading)
		mu.Unlock()
	})

	c.Start()
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, seen)
}

func TestClose_DiscardsLateResults(t *testing.T) {
	fetch := func(ctx context.Context, _ url.Values) ([]string, error) {
		<-ctx.Done()
		return []string{"late"}, nil
	}
	c := New(fetch, discard(), Options{})

	c.Start()
	c.SetSearchQuery("x")
	c.Close()

	assert.Empty(t, c.State().Items)

	c.SetPage(2) // no-op after Close
	c.Wait()
	assert.Equal(t, 1, c.State().Page)
}
