package search

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"urbanview/internal/geocode"
)

var madrid = geocode.Suggestion{ID: "1", DisplayName: "Madrid, Spain", Lat: 40.4168, Lon: -3.7038}

type call struct {
	text  string
	limit int
}

type fakeGeocoder struct {
	results map[string][]geocode.Suggestion
	err     error
	calls   []call
}

func (f *fakeGeocoder) Search(_ context.Context, text string, limit int) ([]geocode.Suggestion, error) {
	f.calls = append(f.calls, call{text, limit})
	if f.err != nil {
		return nil, &geocode.LookupError{Query: text, Err: f.err}
	}
	res := f.results[text]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func newController(g Geocoder) *Controller {
	return New(g, Options{Debounce: time.Millisecond, MaxSuggestions: 5, Timeout: time.Second})
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// typeAndSettle sets the query, lets the debounce fire and returns the lookup command.
func typeAndSettle(t *testing.T, c *Controller, text string) tea.Cmd {
	t.Helper()
	tick := run(t, c.SetQuery(text))
	return c.Update(tick)
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Mad": {madrid}}}
	c := newController(g)

	var ticks []tea.Msg
	for _, q := range []string{"M", "Ma", "Mad"} {
		ticks = append(ticks, run(t, c.SetQuery(q)))
		if c.State() != Typing {
			t.Fatalf("state after %q = %v", q, c.State())
		}
	}
	var lookups []tea.Cmd
	for _, tick := range ticks {
		if cmd := c.Update(tick); cmd != nil {
			lookups = append(lookups, cmd)
		}
	}
	if len(lookups) != 1 {
		t.Fatalf("lookups=%d, want 1", len(lookups))
	}
	if c.State() != AwaitingResult {
		t.Fatalf("state=%v", c.State())
	}
	c.Update(run(t, lookups[0]))
	if len(g.calls) != 1 || g.calls[0] != (call{"Mad", 5}) {
		t.Fatalf("calls=%+v", g.calls)
	}
	if c.State() != SuggestionsShown || len(c.Suggestions()) != 1 {
		t.Fatalf("state=%v suggestions=%+v", c.State(), c.Suggestions())
	}
}

func TestStaleResultDoesNotOverwrite(t *testing.T) {
	older := geocode.Suggestion{ID: "2", DisplayName: "Madridejos, Spain", Lat: 39.46, Lon: -3.53}
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{
		"Madrid": {madrid},
		"Madri":  {older, madrid},
	}}
	c := newController(g)

	lookupA := typeAndSettle(t, c, "Madri")
	lookupB := typeAndSettle(t, c, "Madrid")
	resA := run(t, lookupA)
	resB := run(t, lookupB)

	c.Update(resB)
	if got := c.Suggestions(); len(got) != 1 || got[0] != madrid {
		t.Fatalf("after B: %+v", got)
	}
	if cmd := c.Update(resA); cmd != nil {
		t.Fatal("stale result should not produce a command")
	}
	if got := c.Suggestions(); len(got) != 1 || got[0] != madrid {
		t.Fatalf("stale A overwrote suggestions: %+v", got)
	}
}

func TestStaleResultAfterNewKeystroke(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Mad": {madrid}}}
	c := newController(g)
	lookup := typeAndSettle(t, c, "Mad")
	c.SetQuery("Madr")
	c.Update(run(t, lookup))
	if len(c.Suggestions()) != 0 || c.State() != Typing {
		t.Fatalf("superseded result applied: state=%v suggestions=%+v", c.State(), c.Suggestions())
	}
}

func TestEmptyQueryClearsSynchronously(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	c.Update(run(t, typeAndSettle(t, c, "Madrid")))
	if len(c.Suggestions()) != 1 {
		t.Fatal("precondition: suggestions shown")
	}
	calls := len(g.calls)

	if cmd := c.SetQuery(""); cmd != nil {
		t.Fatal("empty query must not debounce")
	}
	if len(c.Suggestions()) != 0 || c.State() != Idle {
		t.Fatalf("state=%v suggestions=%+v", c.State(), c.Suggestions())
	}
	if len(g.calls) != calls {
		t.Fatal("empty query reached the geocoder")
	}
}

func TestLookupFailureClearsAndNotifies(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("connection refused")}
	c := newController(g)
	cmd := c.Update(run(t, typeAndSettle(t, c, "Madrid")))
	if c.State() != Idle || len(c.Suggestions()) != 0 {
		t.Fatalf("state=%v", c.State())
	}
	msg, ok := run(t, cmd).(NoticeMsg)
	if !ok {
		t.Fatal("expected NoticeMsg")
	}
	var le *geocode.LookupError
	if !errors.As(msg.Err, &le) {
		t.Fatalf("notice error %v", msg.Err)
	}
	// the controller keeps accepting input
	g.err = nil
	g.results = map[string][]geocode.Suggestion{"Madrid": {madrid}}
	c.Update(run(t, typeAndSettle(t, c, "Madrid")))
	if c.State() != SuggestionsShown || c.Err() != nil {
		t.Fatalf("recovery: state=%v err=%v", c.State(), c.Err())
	}
}

func TestEmptyResultGoesIdle(t *testing.T) {
	c := newController(&fakeGeocoder{})
	if cmd := c.Update(run(t, typeAndSettle(t, c, "zzzz"))); cmd != nil {
		t.Fatal("empty incremental result is not a notice")
	}
	if c.State() != Idle {
		t.Fatalf("state=%v", c.State())
	}
}

func TestSelectSuggestion(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	c.Update(run(t, typeAndSettle(t, c, "Madrid")))

	msg := run(t, c.SelectSuggestion(c.Suggestions()[0]))
	sel, ok := c.Selection()
	want := Selection{Lat: 40.4168, Lon: -3.7038, DisplayName: "Madrid, Spain"}
	if !ok || sel != want {
		t.Fatalf("selection=%+v ok=%v", sel, ok)
	}
	if got, ok := msg.(SelectedMsg); !ok || got.Selection != want {
		t.Fatalf("msg=%#v", msg)
	}
	if c.Query() != "Madrid, Spain" || len(c.Suggestions()) != 0 || c.State() != Committed {
		t.Fatalf("query=%q suggestions=%d state=%v", c.Query(), len(c.Suggestions()), c.State())
	}
}

func TestSelectionDiscardsInFlightLookup(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Mad": {madrid}}}
	c := newController(g)
	lookup := typeAndSettle(t, c, "Mad")
	c.SelectSuggestion(madrid)
	c.Update(run(t, lookup))
	if len(c.Suggestions()) != 0 || c.State() != Committed {
		t.Fatalf("lookup after selection applied: state=%v", c.State())
	}
}

func TestSelectionReplaces(t *testing.T) {
	c := newController(&fakeGeocoder{})
	c.SelectSuggestion(madrid)
	paris := geocode.Suggestion{ID: "9", DisplayName: "Paris, France", Lat: 48.8566, Lon: 2.3522}
	c.SelectSuggestion(paris)
	sel, _ := c.Selection()
	if sel != (Selection{Lat: paris.Lat, Lon: paris.Lon, DisplayName: paris.DisplayName}) {
		t.Fatalf("selection not replaced: %+v", sel)
	}
}

func TestCommitSearchSelectsFirst(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	c.SetQuery("Madrid")
	commit := c.CommitSearch()
	if c.State() != AwaitingResult {
		t.Fatalf("state=%v", c.State())
	}
	follow := c.Update(run(t, commit))
	if len(g.calls) != 1 || g.calls[0] != (call{"Madrid", 1}) {
		t.Fatalf("calls=%+v", g.calls)
	}
	if _, ok := run(t, follow).(SelectedMsg); !ok {
		t.Fatal("commit should announce the selection")
	}
	if sel, ok := c.Selection(); !ok || sel.DisplayName != "Madrid, Spain" {
		t.Fatalf("selection=%+v", sel)
	}
}

func TestCommitSearchSupersedesPendingDebounce(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	tick := run(t, c.SetQuery("Madrid"))
	commit := c.CommitSearch()
	if cmd := c.Update(tick); cmd != nil {
		t.Fatal("debounce fired after commit")
	}
	c.Update(run(t, commit))
	if c.State() != Committed {
		t.Fatalf("state=%v", c.State())
	}
}

func TestCommitSearchNotFound(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	c.SelectSuggestion(madrid)
	before, _ := c.Selection()

	c.SetQuery("Atlantis")
	commit := c.CommitSearch()
	msg := run(t, c.Update(run(t, commit)))
	notice, ok := msg.(NoticeMsg)
	if !ok {
		t.Fatalf("msg=%#v", msg)
	}
	var nf *NotFoundError
	if !errors.As(notice.Err, &nf) || nf.Query != "Atlantis" {
		t.Fatalf("err=%v", notice.Err)
	}
	if after, ok := c.Selection(); !ok || after != before {
		t.Fatalf("selection changed: %+v", after)
	}
	if c.State() != Idle {
		t.Fatalf("state=%v, want idle", c.State())
	}
}

func TestCommitNotFoundKeepsSuggestionsOpen(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]geocode.Suggestion{"Madrid": {madrid}}}
	c := newController(g)
	c.Update(run(t, typeAndSettle(t, c, "Madrid")))

	// the pending lookup is superseded by the commit below
	typeAndSettle(t, c, "Atlantis")
	if c.State() != AwaitingResult {
		t.Fatalf("precondition: state=%v", c.State())
	}
	c.Update(run(t, c.CommitSearch()))
	if _, ok := c.Err().(*NotFoundError); !ok {
		t.Fatalf("err=%v", c.Err())
	}
	if c.State() != SuggestionsShown || len(c.Suggestions()) != 1 {
		t.Fatalf("state=%v suggestions=%d", c.State(), len(c.Suggestions()))
	}
}

func TestCommitNotFoundWithNothingShownGoesIdle(t *testing.T) {
	c := newController(&fakeGeocoder{})
	c.SetQuery("Atlantis")
	c.Update(run(t, c.CommitSearch()))
	if c.State() != Idle {
		t.Fatalf("state=%v", c.State())
	}
}

func TestCommitNotFoundKeepsSelectionCommitted(t *testing.T) {
	c := newController(&fakeGeocoder{})
	c.SelectSuggestion(madrid)
	c.Update(run(t, c.CommitSearch()))
	if c.State() != Committed {
		t.Fatalf("state=%v", c.State())
	}
}

func TestCommitSearchLookupError(t *testing.T) {
	c := newController(&fakeGeocoder{err: errors.New("timeout")})
	c.SetQuery("Madrid")
	msg := run(t, c.Update(run(t, c.CommitSearch())))
	var le *geocode.LookupError
	if n, ok := msg.(NoticeMsg); !ok || !errors.As(n.Err, &le) {
		t.Fatalf("msg=%#v", msg)
	}
	if _, ok := c.Selection(); ok {
		t.Fatal("failed commit created a selection")
	}
	if c.State() != Idle {
		t.Fatalf("state=%v", c.State())
	}
}

func TestCommitSearchBlankQuery(t *testing.T) {
	g := &fakeGeocoder{}
	c := newController(g)
	if cmd := c.CommitSearch(); cmd != nil {
		t.Fatal("blank commit should do nothing")
	}
	if len(g.calls) != 0 {
		t.Fatal("geocoder called")
	}
}

func TestSeqIsMonotonic(t *testing.T) {
	c := newController(&fakeGeocoder{})
	last := c.Seq()
	steps := []func(){
		func() { c.SetQuery("a") },
		func() { c.SetQuery("") },
		func() { c.SelectSuggestion(madrid) },
		func() { c.CommitSearch() },
	}
	for i, step := range steps {
		step()
		if c.Seq() <= last {
			t.Fatalf("step %d: seq %d not above %d", i, c.Seq(), last)
		}
		last = c.Seq()
	}
}

func TestStateString(t *testing.T) {
	if AwaitingResult.String() != "searching" || State(99).String() != "unknown" {
		t.Fatal("state names")
	}
}
