// Package listquery drives a paginated, searchable listing.
//
// STATE:
//
//	page        ≥ 1, always
//	searchQuery free text, sent as "q" when non-empty
//	sortOption  display-only label, never sent
//	items       results of the latest accepted fetch
//	loading/err status of the latest issued fetch
//
// FETCH TRIGGERS:
//
//	Start          → mount fetch
//	SetSearchQuery → (re)arms one debounce timer; the fetch happens when it fires
//	SubmitSearch   → page = 1, fetch now, pending debounce dropped
//	SetPage        → fetch now, pending debounce dropped
//
// OUT-OF-ORDER RESPONSES:
// Every fetch takes the next sequence number, and its result is applied only
// if that number is still the latest issued. The check and the write happen
// under the same mutex, so a slow response for page 1 can never overwrite the
// results of a later request for page 2.
package listquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Sort labels offered by the listing. DefaultSort is shown before the user
// picks one.
const (
	DefaultSort  = "Sort By"
	SortNameAsc  = "Name (asc)"
	SortNameDesc = "Name (desc)"
	SortRarity   = "Rarity"
)

// SortOptions lists the selectable labels in display order.
var SortOptions = []string{SortNameAsc, SortNameDesc, SortRarity}

var ErrUnknownSort = errors.New("listquery: unknown sort option")

// FetchFunc performs one listing request with the given query parameters.
type FetchFunc[T any] func(ctx context.Context, params url.Values) ([]T, error)

type Options struct {
	Debounce     time.Duration // default 300ms
	Distribution string        // default "Canada"
	Category     string        // default "flower"
}

func (o *Options) withDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = 300 * time.Millisecond
	}
	if o.Distribution == "" {
		o.Distribution = "Canada"
	}
	if o.Category == "" {
		o.Category = "flower"
	}
}

// State is a snapshot of the controller. Items is a copy owned by the caller.
type State[T any] struct {
	Page        int
	SearchQuery string
	SortOption  string
	Items       []T
	Loading     bool
	Err         error
}

type Controller[T any] struct {
	fetch    FetchFunc[T]
	opts     Options
	logger   *slog.Logger
	onChange func(State[T])

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    State[T]
	seq      uint64 // last issued fetch
	timer    *time.Timer
	timerGen uint64
	closed   bool
}

func New[T any](fetch FetchFunc[T], logger *slog.Logger, opts Options) *Controller[T] {
	opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		fetch:  fetch,
		opts:   opts,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  State[T]{Page: 1, SortOption: DefaultSort},
	}
}

// OnChange registers fn to receive a snapshot after every state change. It
// is called outside the controller lock, from whichever goroutine made the
// change; set it before Start.
func (c *Controller[T]) OnChange(fn func(State[T])) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Start performs the initial fetch.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	c.issueLocked()
}

// SetSearchQuery records text and restarts the debounce window. Only the
// last text typed within the window is fetched. The page is kept.
func (c *Controller[T]) SetSearchQuery(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.SearchQuery = text
	c.stopTimerLocked()

	gen := c.timerGen
	c.wg.Add(1)
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		defer c.wg.Done()
		c.mu.Lock()
		if c.closed || gen != c.timerGen {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.issueLocked()
	})
	snap, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()
	notify(fn, snap)
}

// SubmitSearch fetches the current text immediately, starting from page 1.
func (c *Controller[T]) SubmitSearch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.state.Page = 1
	c.issueLocked()
}

// SetPage moves to page n (values below 1 become 1) and fetches.
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.state.Page = n
	c.issueLocked()
}

// NextPage fetches the following page. There is no total count, so it is
// always available.
func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	next := c.state.Page + 1
	c.mu.Unlock()
	c.SetPage(next)
}

// PrevPage fetches the preceding page and reports false on page 1.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	prev := c.state.Page - 1
	c.mu.Unlock()
	if prev < 1 {
		return false
	}
	c.SetPage(prev)
	return true
}

// SetSortOption records label for display. It does not change what is
// fetched.
func (c *Controller[T]) SetSortOption(label string) error {
	valid := label == DefaultSort
	for _, opt := range SortOptions {
		valid = valid || opt == label
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrUnknownSort, label)
	}

	c.mu.Lock()
	c.state.SortOption = label
	snap, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()
	notify(fn, snap)
	return nil
}

// Wait blocks until no debounce is pending and no fetch is in flight. It
// must not race with calls that start new work.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close drops the pending debounce, cancels in-flight fetches and waits for
// them to return. Their results are discarded.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Params returns the query parameters the next fetch would send.
func (c *Controller[T]) Params() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paramsLocked()
}

func (c *Controller[T]) paramsLocked() url.Values {
	p := url.Values{}
	p.Set("page", strconv.Itoa(c.state.Page))
	p.Set("distribution", c.opts.Distribution)
	p.Set("category", c.opts.Category)
	if c.state.SearchQuery != "" {
		p.Set("q", c.state.SearchQuery)
	}
	return p
}

// issueLocked starts a fetch for the current state. It is entered with c.mu
// held and releases it.
func (c *Controller[T]) issueLocked() {
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	params := c.paramsLocked()
	c.state.Loading = true
	c.wg.Add(1)
	snap, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	notify(fn, snap)
	go c.run(seq, params)
}

func (c *Controller[T]) run(seq uint64, params url.Values) {
	defer c.wg.Done()

	items, err := c.fetch(c.ctx, params)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("listquery: discarding stale response",
			slog.Uint64("seq", seq),
			slog.String("page", params.Get("page")),
		)
		return
	}
	c.state.Loading = false
	if err != nil {
		// Previous items stay on screen next to the error.
		c.state.Err = err
		c.logger.Warn("listquery: fetch failed",
			slog.String("page", params.Get("page")),
			slog.String("error", err.Error()),
		)
	} else {
		c.state.Items = items
		c.state.Err = nil
	}
	snap, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()
	notify(fn, snap)
}

func (c *Controller[T]) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.timer = nil
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	if c.state.Items != nil {
		s.Items = append([]T(nil), c.state.Items...)
	}
	return s
}

func notify[T any](fn func(State[T]), s State[T]) {
	if fn != nil {
		fn(s)
	}
}
