// Package search owns the address query, its debounced autocomplete lookups and the
// committed selection. It is driven from a bubbletea Update loop: every method runs
// on the loop and any waiting (debounce, network) is returned as a tea.Cmd.
package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"urbanview/internal/geocode"
	"urbanview/internal/metrics"
)

// Geocoder is the lookup capability the controller needs.
type Geocoder interface {
	Search(ctx context.Context, text string, maxResults int) ([]geocode.Suggestion, error)
}

type State int

const (
	Idle State = iota
	Typing
	AwaitingResult
	SuggestionsShown
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case AwaitingResult:
		return "searching"
	case SuggestionsShown:
		return "suggestions"
	case Committed:
		return "committed"
	}
	return "unknown"
}

// Selection is the committed place.
type Selection struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

type Options struct {
	Debounce       time.Duration
	MaxSuggestions int
	Timeout        time.Duration
}

// Controller is not safe for concurrent use; it belongs to the event loop.
type Controller struct {
	geocoder Geocoder
	debounce time.Duration
	limit    int
	timeout  time.Duration

	query       string
	suggestions []geocode.Suggestion
	selection   Selection
	selected    bool
	state       State
	resume      State // state when the last commit was issued
	err         error

	// seq identifies the latest issued request; anything carrying an older value is stale.
	seq uint64
}

func New(g Geocoder, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Controller{
		geocoder: g,
		debounce: opts.Debounce,
		limit:    opts.MaxSuggestions,
		timeout:  opts.Timeout,
	}
}

func (c *Controller) Query() string { return c.query }
func (c *Controller) State() State  { return c.state }
func (c *Controller) Seq() uint64   { return c.seq }

// Err is the last error surfaced to the user, nil after a successful transition.
func (c *Controller) Err() error { return c.err }

func (c *Controller) Suggestions() []geocode.Suggestion {
	return append([]geocode.Suggestion(nil), c.suggestions...)
}

func (c *Controller) Selection() (Selection, bool) { return c.selection, c.selected }

// SetQuery records a keystroke. Blank text clears suggestions at once; anything else
// (re)starts the debounce window.
func (c *Controller) SetQuery(text string) tea.Cmd {
	c.seq++
	c.query = text
	c.err = nil
	if strings.TrimSpace(text) == "" {
		c.suggestions = nil
		c.state = Idle
		return nil
	}
	c.state = Typing
	seq := c.seq
	return tea.Tick(c.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// SelectSuggestion commits s as the selection.
func (c *Controller) SelectSuggestion(s geocode.Suggestion) tea.Cmd {
	c.seq++
	c.selection = Selection{Lat: s.Lat, Lon: s.Lon, DisplayName: s.DisplayName}
	c.selected = true
	c.suggestions = nil
	c.query = s.DisplayName
	c.state = Committed
	c.err = nil
	sel := c.selection
	log.Info().Str("place", sel.DisplayName).Float64("lat", sel.Lat).Float64("lon", sel.Lon).Msg("selection committed")
	return func() tea.Msg { return SelectedMsg{Selection: sel} }
}

// CommitSearch looks up the current query without debouncing and selects the best match.
func (c *Controller) CommitSearch() tea.Cmd {
	q := strings.TrimSpace(c.query)
	if q == "" {
		return nil
	}
	c.seq++
	c.resume = c.state
	c.state = AwaitingResult
	c.err = nil
	return c.lookup(c.seq, q, 1, true)
}

// Update applies the controller's own messages and ignores everything else.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.seq != c.seq {
			return nil
		}
		c.state = AwaitingResult
		return c.lookup(msg.seq, strings.TrimSpace(c.query), c.limit, false)
	case resultMsg:
		if err := c.checkCurrent(msg); err != nil {
			metrics.SearchStaleDiscardedTotal.Inc()
			log.Debug().Err(err).Str("query", msg.query).Msg("lookup result discarded")
			return nil
		}
		if msg.commit {
			return c.applyCommit(msg)
		}
		return c.applySuggestions(msg)
	}
	return nil
}

func (c *Controller) checkCurrent(msg resultMsg) error {
	if msg.seq != c.seq {
		return &staleResultError{seq: msg.seq, current: c.seq}
	}
	return nil
}

func (c *Controller) applySuggestions(msg resultMsg) tea.Cmd {
	if msg.err != nil {
		c.suggestions = nil
		c.state = Idle
		c.err = msg.err
		return notice(msg.err)
	}
	c.suggestions = msg.results
	if len(c.suggestions) == 0 {
		c.state = Idle
		return nil
	}
	c.state = SuggestionsShown
	return nil
}

func (c *Controller) applyCommit(msg resultMsg) tea.Cmd {
	if msg.err != nil {
		c.suggestions = nil
		c.state = Idle
		c.err = msg.err
		return notice(msg.err)
	}
	if len(msg.results) == 0 {
		c.state = c.settledState()
		c.err = &NotFoundError{Query: msg.query}
		log.Info().Str("query", msg.query).Msg("address not found")
		return notice(c.err)
	}
	return c.SelectSuggestion(msg.results[0])
}

// lookup wraps one geocoder call in a command. The command runs once, off the loop,
// and reports back with the sequence number it was issued under.
func (c *Controller) lookup(seq uint64, q string, limit int, commit bool) tea.Cmd {
	g, timeout := c.geocoder, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := g.Search(ctx, q, limit)
		return resultMsg{seq: seq, query: q, commit: commit, results: res, err: err}
	}
}

// settledState is where a commit that found nothing leaves the controller. Suggestions
// still on screen keep the list open; a prior selection stays committed.
func (c *Controller) settledState() State {
	switch {
	case len(c.suggestions) > 0:
		return SuggestionsShown
	case c.resume == Committed:
		return Committed
	}
	return Idle
}

func notice(err error) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Err: err} }
}
