package night

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dominonight/go/internal/events"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/mcdev12/dominonight/go/internal/scoring"
	"github.com/mcdev12/dominonight/go/internal/storage/memory"
)

const acct = "acct-1"

var start = time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OutboundEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OutboundEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

// switchableStore fails history saves while down is set
type switchableStore struct {
	*memory.Store
	mu   sync.Mutex
	down bool
}

func (s *switchableStore) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *switchableStore) SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if down {
		return errors.New("disk full")
	}
	return s.Store.SaveHistory(ctx, accountID, nights)
}

// gatedNarrator blocks a recap until the winner's gate is closed. Winners without a gate answer at once.
type gatedNarrator struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (n *gatedNarrator) gate(winner string) chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gates == nil {
		n.gates = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	n.gates[winner] = ch
	return ch
}

func (n *gatedNarrator) NightRecap(_ context.Context, winner string) string {
	n.mu.Lock()
	ch := n.gates[winner]
	n.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return "Hail " + winner
}

type fixture struct {
	app      *App
	history  *history.App
	store    *switchableStore
	pub      *recordingPublisher
	narrator *gatedNarrator
	clock    *clockwork.FakeClock
	ids      map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := &switchableStore{Store: memory.NewStore()}
	rosterApp := roster.NewApp(store)
	ids := make(map[string]string)
	for _, name := range []string{"Ali", "Bita", "Cyrus", "Dana"} {
		p, err := rosterApp.AddPlayer(ctx, acct, name, "")
		if err != nil {
			t.Fatalf("AddPlayer(%s): %v", name, err)
		}
		ids[name] = p.ID
	}

	f := &fixture{
		history:  history.NewApp(store),
		store:    store,
		pub:      &recordingPublisher{},
		narrator: &gatedNarrator{},
		clock:    clockwork.NewFakeClockAt(start),
		ids:      ids,
	}
	f.app = NewApp(f.history, rosterApp, f.pub, f.narrator, f.clock, nil, Defaults{})
	t.Cleanup(f.app.Close)
	return f
}

func (f *fixture) startSingles(t *testing.T, p1, p2 string) View {
	t.Helper()
	v, err := f.app.StartNight(context.Background(), acct, StartNightRequest{
		Mode:  models.GameModeTwoPlayers,
		Teams: [][]string{{f.ids[p1]}, {f.ids[p2]}},
	})
	if err != nil {
		t.Fatalf("StartNight: %v", err)
	}
	return v
}

func (f *fixture) round(t *testing.T, scores ...int) View {
	t.Helper()
	v, err := f.app.ApplyRound(context.Background(), acct, scores)
	if err != nil {
		t.Fatalf("ApplyRound(%v): %v", scores, err)
	}
	return v
}

// crown plays the first team to a one-set night win and returns the final advance result
func (f *fixture) crown(t *testing.T) (View, error) {
	t.Helper()
	ctx := context.Background()
	f.round(t, 101, 0)
	if _, err := f.app.AdvanceStage(ctx, acct, scoring.LevelGame); err != nil {
		t.Fatalf("AdvanceStage(game): %v", err)
	}
	f.round(t, 120, 30)
	v, err := f.app.EndSet(ctx, acct)
	if err != nil {
		t.Fatalf("EndSet: %v", err)
	}
	if v.State.Win == nil || v.State.Win.Level != scoring.LevelNight {
		t.Fatalf("expected a pending night win, got %+v", v.State.Win)
	}
	return f.app.AdvanceStage(ctx, acct, "")
}

func TestStartNight(t *testing.T) {
	f := newFixture(t)
	v := f.startSingles(t, "Ali", "Bita")

	if got, want := v.State.Night.ID, strconv.FormatInt(start.UnixMilli(), 10); got != want {
		t.Errorf("night id = %s, want %s", got, want)
	}
	if got, want := v.State.Night.Date, "2026-10-16T20:00:00Z"; got != want {
		t.Errorf("night date = %s, want %s", got, want)
	}
	if diff := cmp.Diff(scoring.Settings{PointCap: 101, GamesPerSet: 3, SetsPerNight: 1}, v.State.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if v.State.Teams[0].Name != "Ali" || v.State.Teams[1].Name != "Bita" {
		t.Errorf("teams = %q, %q", v.State.Teams[0].Name, v.State.Teams[1].Name)
	}
	if diff := cmp.Diff([]string{events.TypeNightStarted}, f.pub.types()); diff != "" {
		t.Errorf("published events mismatch (-want +got):\n%s", diff)
	}

	_, err := f.app.StartNight(context.Background(), acct, StartNightRequest{
		Mode:  models.GameModeTwoPlayers,
		Teams: [][]string{{f.ids["Cyrus"]}, {f.ids["Dana"]}},
	})
	if !errors.Is(err, ErrNightInProgress) {
		t.Errorf("second StartNight error = %v, want ErrNightInProgress", err)
	}
}

func TestStartNightDoubles(t *testing.T) {
	f := newFixture(t)
	v, err := f.app.StartNight(context.Background(), acct, StartNightRequest{
		Mode:         models.GameModeFourPlayers,
		Teams:        [][]string{{f.ids["Ali"], f.ids["Bita"]}, {f.ids["Cyrus"], f.ids["Dana"]}},
		PointCap:     200,
		GamesPerSet:  5,
		SetsPerNight: 2,
	})
	if err != nil {
		t.Fatalf("StartNight: %v", err)
	}
	if got, want := v.State.Teams[1].Name, "Cyrus & Dana"; got != want {
		t.Errorf("team name = %q, want %q", got, want)
	}
	if diff := cmp.Diff(scoring.Settings{PointCap: 200, GamesPerSet: 5, SetsPerNight: 2}, v.State.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if got := v.State.Night.Mode.PointCap; got != 200 {
		t.Errorf("recorded point cap = %d, want 200", got)
	}
}

func TestStartNightRejects(t *testing.T) {
	tests := []struct {
		name    string
		account string
		req     func(ids map[string]string) StartNightRequest
		wantErr error
	}{
		{
			name:    "blank account",
			account: " ",
			req: func(ids map[string]string) StartNightRequest {
				return StartNightRequest{Mode: models.GameModeTwoPlayers, Teams: [][]string{{ids["Ali"]}, {ids["Bita"]}}}
			},
			wantErr: ErrAccountRequired,
		},
		{
			name:    "unknown mode",
			account: acct,
			req: func(ids map[string]string) StartNightRequest {
				return StartNightRequest{Mode: "5P", Teams: [][]string{{ids["Ali"]}, {ids["Bita"]}}}
			},
			wantErr: ErrUnknownMode,
		},
		{
			name:    "one team",
			account: acct,
			req: func(ids map[string]string) StartNightRequest {
				return StartNightRequest{Mode: models.GameModeTwoPlayers, Teams: [][]string{{ids["Ali"]}}}
			},
			wantErr: scoring.ErrInvalidRoster,
		},
		{
			name:    "player not on roster",
			account: acct,
			req: func(ids map[string]string) StartNightRequest {
				return StartNightRequest{Mode: models.GameModeTwoPlayers, Teams: [][]string{{ids["Ali"]}, {"ghost"}}}
			},
			wantErr: roster.ErrPlayerNotFound,
		},
		{
			name:    "negative point cap",
			account: acct,
			req: func(ids map[string]string) StartNightRequest {
				return StartNightRequest{Mode: models.GameModeTwoPlayers, Teams: [][]string{{ids["Ali"]}, {ids["Bita"]}}, PointCap: -5}
			},
			wantErr: scoring.ErrInvalidSettings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.app.StartNight(context.Background(), tt.account, tt.req(f.ids))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if _, err := f.app.GetNight(context.Background(), acct); !errors.Is(err, ErrNoNight) {
				t.Errorf("GetNight error = %v, want ErrNoNight", err)
			}
			if got := f.pub.types(); len(got) != 0 {
				t.Errorf("published %v for a rejected start", got)
			}
		})
	}
}

func TestCommandsNeedANight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	commands := map[string]func() (View, error){
		"ApplyRound":   func() (View, error) { return f.app.ApplyRound(ctx, acct, []int{1, 2}) },
		"EndSet":       func() (View, error) { return f.app.EndSet(ctx, acct) },
		"AdvanceStage": func() (View, error) { return f.app.AdvanceStage(ctx, acct, "") },
		"Undo":         func() (View, error) { return f.app.Undo(ctx, acct) },
		"GetNight":     func() (View, error) { return f.app.GetNight(ctx, acct) },
	}
	for name, cmd := range commands {
		t.Run(name, func(t *testing.T) {
			if _, err := cmd(); !errors.Is(err, ErrNoNight) {
				t.Errorf("error = %v, want ErrNoNight", err)
			}
		})
	}
}

func TestRejectedRoundLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	f.startSingles(t, "Ali", "Bita")
	before := f.round(t, 30, 10)

	tests := []struct {
		name    string
		scores  []int
		wantErr error
	}{
		{name: "too few scores", scores: []int{5}, wantErr: scoring.ErrInvalidScores},
		{name: "negative score", scores: []int{5, -1}, wantErr: scoring.ErrInvalidScores},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.app.ApplyRound(context.Background(), acct, tt.scores); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			after, err := f.app.GetNight(context.Background(), acct)
			if err != nil {
				t.Fatalf("GetNight: %v", err)
			}
			if diff := cmp.Diff(before.State, after.State, cmpopts.IgnoreUnexported(scoring.State{})); diff != "" {
				t.Errorf("state changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestUndo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	initial := f.startSingles(t, "Ali", "Bita")

	v := f.round(t, 30, 10)
	if !v.CanUndo {
		t.Fatal("expected undo to be available after a round")
	}

	v, err := f.app.Undo(ctx, acct)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(initial.State.Teams, v.State.Teams); diff != "" {
		t.Errorf("teams after undo (-want +got):\n%s", diff)
	}
	if v.CanUndo {
		t.Error("undo still available after undoing")
	}

	v, err = f.app.Undo(ctx, acct)
	if err != nil {
		t.Fatalf("second Undo: %v", err)
	}
	if !scoring.Has(v.Events, scoring.EventNothingToUndo) {
		t.Errorf("events = %+v, want NothingToUndo", v.Events)
	}
}

func TestNightIsSavedOnCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startSingles(t, "Ali", "Bita")

	v, err := f.crown(t)
	if err != nil {
		t.Fatalf("AdvanceStage(night): %v", err)
	}
	if v.State.Phase != scoring.PhaseComplete {
		t.Errorf("phase = %s, want complete", v.State.Phase)
	}
	if v.PendingSave {
		t.Error("night still pending after a successful save")
	}

	saved, err := f.history.ListNights(ctx, acct)
	if err != nil {
		t.Fatalf("ListNights: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved %d nights, want 1", len(saved))
	}
	if diff := cmp.Diff(v.State.Night, saved[0]); diff != "" {
		t.Errorf("saved night mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		events.TypeNightStarted,
		events.TypeGameWon,
		events.TypeGameWon,
		events.TypeSetWon,
		events.TypeNightCompleted,
	}
	if diff := cmp.Diff(want, f.pub.types()); diff != "" {
		t.Errorf("published events mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.app.ApplyRound(ctx, acct, []int{1, 1}); !errors.Is(err, scoring.ErrNightComplete) {
		t.Errorf("ApplyRound after completion error = %v, want ErrNightComplete", err)
	}

	// a saved night does not block the next one
	f.clock.Advance(time.Hour)
	next := f.startSingles(t, "Cyrus", "Dana")
	if next.State.Night.ID == v.State.Night.ID {
		t.Error("new night reused the previous id")
	}
}

func TestSaveFailureKeepsNightForRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startSingles(t, "Ali", "Bita")
	f.store.setDown(true)

	v, err := f.crown(t)
	if !errors.Is(err, history.ErrStoreUnavailable) {
		t.Fatalf("AdvanceStage error = %v, want ErrStoreUnavailable", err)
	}
	if v.State.Phase != scoring.PhaseComplete {
		t.Errorf("phase = %s, want complete even though the save failed", v.State.Phase)
	}
	if !v.PendingSave {
		t.Error("expected the night to be pending")
	}

	if _, err := f.app.StartNight(ctx, acct, StartNightRequest{
		Mode:  models.GameModeTwoPlayers,
		Teams: [][]string{{f.ids["Cyrus"]}, {f.ids["Dana"]}},
	}); !errors.Is(err, ErrUnsavedNight) {
		t.Errorf("StartNight error = %v, want ErrUnsavedNight", err)
	}

	if _, err := f.app.RetrySave(ctx, acct); !errors.Is(err, history.ErrStoreUnavailable) {
		t.Errorf("RetrySave while down error = %v, want ErrStoreUnavailable", err)
	}

	f.store.setDown(false)
	v, err = f.app.RetrySave(ctx, acct)
	if err != nil {
		t.Fatalf("RetrySave: %v", err)
	}
	if v.PendingSave {
		t.Error("night still pending after retry")
	}
	if _, err := f.app.RetrySave(ctx, acct); !errors.Is(err, ErrNothingToSave) {
		t.Errorf("second RetrySave error = %v, want ErrNothingToSave", err)
	}

	saved, err := f.history.ListNights(ctx, acct)
	if err != nil {
		t.Fatalf("ListNights: %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("saved %d nights, want 1", len(saved))
	}
}

func TestRecapIsDelivered(t *testing.T) {
	f := newFixture(t)
	f.startSingles(t, "Ali", "Bita")
	gate := f.narrator.gate("Ali")

	v, err := f.crown(t)
	if err != nil {
		t.Fatalf("AdvanceStage(night): %v", err)
	}
	if !v.RecapPending || v.Recap != "" {
		t.Errorf("recap = %q pending %v, want empty and pending", v.Recap, v.RecapPending)
	}

	close(gate)
	f.app.wg.Wait()

	v, err = f.app.GetNight(context.Background(), acct)
	if err != nil {
		t.Fatalf("GetNight: %v", err)
	}
	if v.Recap != "Hail Ali" || v.RecapPending {
		t.Errorf("recap = %q pending %v, want %q", v.Recap, v.RecapPending, "Hail Ali")
	}
}

func TestStaleRecapIsDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.startSingles(t, "Ali", "Bita")
	slow := f.narrator.gate("Ali")
	if _, err := f.crown(t); err != nil {
		t.Fatalf("first night: %v", err)
	}

	if err := f.app.ResetNight(ctx, acct); err != nil {
		t.Fatalf("ResetNight: %v", err)
	}
	f.clock.Advance(time.Hour)
	f.startSingles(t, "Cyrus", "Dana")
	if _, err := f.crown(t); err != nil {
		t.Fatalf("second night: %v", err)
	}

	close(slow)
	f.app.wg.Wait()

	v, err := f.app.GetNight(ctx, acct)
	if err != nil {
		t.Fatalf("GetNight: %v", err)
	}
	if v.Recap != "Hail Cyrus" {
		t.Errorf("recap = %q, want the second night's recap", v.Recap)
	}
}

func TestPublishFailureDoesNotBlockScoring(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("nats: no responders")
	f.startSingles(t, "Ali", "Bita")

	v := f.round(t, 101, 0)
	if !scoring.Has(v.Events, scoring.EventGameWon) {
		t.Errorf("events = %+v, want GameWon", v.Events)
	}
}

func TestResetNight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startSingles(t, "Ali", "Bita")
	f.round(t, 10, 20)

	if err := f.app.ResetNight(ctx, acct); err != nil {
		t.Fatalf("ResetNight: %v", err)
	}
	if _, err := f.app.GetNight(ctx, acct); !errors.Is(err, ErrNoNight) {
		t.Errorf("GetNight error = %v, want ErrNoNight", err)
	}
	f.startSingles(t, "Ali", "Bita")
}

func TestAccountsAreIsolated(t *testing.T) {
	f := newFixture(t)
	f.startSingles(t, "Ali", "Bita")

	if _, err := f.app.GetNight(context.Background(), "acct-2"); !errors.Is(err, ErrNoNight) {
		t.Errorf("GetNight(acct-2) error = %v, want ErrNoNight", err)
	}
}

func TestModes(t *testing.T) {
	f := newFixture(t)
	if diff := cmp.Diff(models.DefaultGameModes(), f.app.Modes()); diff != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", diff)
	}
}
