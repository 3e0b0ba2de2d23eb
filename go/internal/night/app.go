package night

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/narrative"
	"github.com/mcdev12/dominonight/go/internal/publisher"
	"github.com/mcdev12/dominonight/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// HistoryApp defines what the night app needs from the history app
type HistoryApp interface {
	AppendNight(ctx context.Context, accountID string, night models.NightRecord) error
}

// RosterApp defines what the night app needs from the roster app
type RosterApp interface {
	ResolvePlayers(ctx context.Context, accountID string, ids []string) ([]models.Player, error)
}

// Narrator produces the recap shown once a night has a champion
type Narrator interface {
	NightRecap(ctx context.Context, winnerName string) string
}

// Defaults are the limits used when a start request leaves them at zero
type Defaults struct {
	GamesPerSet  int
	SetsPerNight int
}

// StartNightRequest selects the mode and the roster players seated in each team slot
type StartNightRequest struct {
	Mode         models.GameModeType
	Teams        [][]string // player ids per team slot
	PointCap     int
	GamesPerSet  int
	SetsPerNight int
}

// View is the state handed back to callers after every command
type View struct {
	State               scoring.State   `json:"state"`
	Events              []scoring.Event `json:"events,omitempty"`
	CanUndo             bool            `json:"canUndo"`
	CanEndSet           bool            `json:"canEndSet"`
	SetAllotmentReached bool            `json:"setAllotmentReached"`
	PendingSave         bool            `json:"pendingSave"`
	Recap               string          `json:"recap,omitempty"`
	RecapPending        bool            `json:"recapPending"`
}

// account holds one player group's open night. The recap slot outlives the night so
// a recap that arrives after a reset is recognised as stale.
type account struct {
	mu          sync.Mutex
	state       *scoring.State
	pendingSave *models.NightRecord
	recap       narrative.Slot
}

// App runs one night per account and serialises the commands sent to it
type App struct {
	history   HistoryApp
	roster    RosterApp
	publisher publisher.Publisher
	narrator  Narrator
	clock     clockwork.Clock
	modes     []models.GameModeDetails
	defaults  Defaults

	mu       sync.Mutex
	accounts map[string]*account

	// background recaps run on baseCtx so they survive the request that triggered them
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewApp creates a new night app. Zero defaults fall back to 3 games per set and 1 set per night.
func NewApp(historyApp HistoryApp, rosterApp RosterApp, pub publisher.Publisher, narrator Narrator, clock clockwork.Clock, modes []models.GameModeDetails, defaults Defaults) *App {
	if len(modes) == 0 {
		modes = models.DefaultGameModes()
	}
	if defaults.GamesPerSet <= 0 {
		defaults.GamesPerSet = 3
	}
	if defaults.SetsPerNight <= 0 {
		defaults.SetsPerNight = 1
	}
	if pub == nil {
		pub = publisher.LogPublisher{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		history:   historyApp,
		roster:    rosterApp,
		publisher: pub,
		narrator:  narrator,
		clock:     clock,
		modes:     modes,
		defaults:  defaults,
		accounts:  make(map[string]*account),
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// Modes returns the game modes a night can be started with
func (a *App) Modes() []models.GameModeDetails {
	out := make([]models.GameModeDetails, len(a.modes))
	copy(out, a.modes)
	return out
}

// StartNight opens a new night for the account
func (a *App) StartNight(ctx context.Context, accountID string, req StartNightRequest) (View, error) {
	acct, err := a.account(accountID)
	if err != nil {
		return View{}, err
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.state != nil && !acct.state.Completed() {
		return View{}, ErrNightInProgress
	}
	if acct.pendingSave != nil {
		return View{}, ErrUnsavedNight
	}

	mode, ok := a.mode(req.Mode)
	if !ok {
		return View{}, fmt.Errorf("validation failed: %w: %q", ErrUnknownMode, req.Mode)
	}
	settings := scoring.Settings{
		PointCap:     orDefault(req.PointCap, mode.PointCap),
		GamesPerSet:  orDefault(req.GamesPerSet, a.defaults.GamesPerSet),
		SetsPerNight: orDefault(req.SetsPerNight, a.defaults.SetsPerNight),
	}

	playersByTeam := make([][]models.Player, len(req.Teams))
	for i, ids := range req.Teams {
		players, err := a.roster.ResolvePlayers(ctx, accountID, ids)
		if err != nil {
			return View{}, fmt.Errorf("failed to resolve team %d: %w", i, err)
		}
		playersByTeam[i] = players
	}

	now := a.clock.Now()
	state, err := scoring.NewNight(strconv.FormatInt(now.UnixMilli(), 10), now, mode, playersByTeam, settings)
	if err != nil {
		return View{}, fmt.Errorf("validation failed: %w", err)
	}

	acct.state = &state
	acct.recap.Reset()

	log.Info().
		Str("account_id", accountID).
		Str("night_id", state.Night.ID).
		Str("mode", string(mode.Type)).
		Int("point_cap", settings.PointCap).
		Msg("Night started")

	a.publishStarted(ctx, accountID, state)
	return a.view(acct, nil), nil
}

// ApplyRound records one round of points
func (a *App) ApplyRound(ctx context.Context, accountID string, scores []int) (View, error) {
	return a.command(ctx, accountID, func(s scoring.State) (scoring.State, []scoring.Event, error) {
		return s.ApplyRound(scores)
	})
}

// EndSet closes the current set
func (a *App) EndSet(ctx context.Context, accountID string) (View, error) {
	return a.command(ctx, accountID, scoring.State.EndSet)
}

// AdvanceStage acknowledges the pending win. An empty level acknowledges whatever is pending.
//
// When the night completes it is saved to history. A failed save keeps the night as pending
// and the returned error wraps history.ErrStoreUnavailable; the view is still valid.
func (a *App) AdvanceStage(ctx context.Context, accountID string, level scoring.Level) (View, error) {
	return a.command(ctx, accountID, func(s scoring.State) (scoring.State, []scoring.Event, error) {
		if level == "" {
			return s.AdvanceStage()
		}
		return s.AdvanceStageLevel(level)
	})
}

// Undo reverts the last round. Having nothing to undo is reported as an event, not an error.
func (a *App) Undo(ctx context.Context, accountID string) (View, error) {
	return a.command(ctx, accountID, func(s scoring.State) (scoring.State, []scoring.Event, error) {
		next, events := s.Undo()
		return next, events, nil
	})
}

// GetNight returns the current night of the account
func (a *App) GetNight(_ context.Context, accountID string) (View, error) {
	acct, err := a.account(accountID)
	if err != nil {
		return View{}, err
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.state == nil {
		return View{}, ErrNoNight
	}
	return a.view(acct, nil), nil
}

// RetrySave saves the finished night that an earlier save failed on
func (a *App) RetrySave(ctx context.Context, accountID string) (View, error) {
	acct, err := a.account(accountID)
	if err != nil {
		return View{}, err
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.pendingSave == nil {
		return View{}, ErrNothingToSave
	}
	if err := a.save(ctx, accountID, acct); err != nil {
		return a.view(acct, nil), err
	}
	return a.view(acct, nil), nil
}

// ResetNight discards the account's night, including an unsaved one, and any recap in flight
func (a *App) ResetNight(_ context.Context, accountID string) error {
	acct, err := a.account(accountID)
	if err != nil {
		return err
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.pendingSave != nil {
		log.Warn().
			Str("account_id", accountID).
			Str("night_id", acct.pendingSave.ID).
			Msg("Discarding unsaved night")
	}
	acct.state = nil
	acct.pendingSave = nil
	acct.recap.Reset()
	return nil
}

// Close stops background recaps and waits for them to exit
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
}

func (a *App) command(ctx context.Context, accountID string, fn func(scoring.State) (scoring.State, []scoring.Event, error)) (View, error) {
	acct, err := a.account(accountID)
	if err != nil {
		return View{}, err
	}
	acct.mu.Lock()
	defer acct.mu.Unlock()

	if acct.state == nil {
		return View{}, ErrNoNight
	}
	next, events, err := fn(*acct.state)
	if err != nil {
		return View{}, err
	}
	acct.state = &next
	a.publish(ctx, accountID, next, events)

	var saveErr error
	if done, ok := scoring.Find(events, scoring.EventNightCompleted); ok && done.Night != nil {
		finished := done.Night.Clone()
		acct.pendingSave = &finished
		saveErr = a.save(ctx, accountID, acct)
		a.startRecap(accountID, acct, finished.ID, teamName(next, done.TeamID))
	}
	return a.view(acct, events), saveErr
}

// save must be called with acct.mu held
func (a *App) save(ctx context.Context, accountID string, acct *account) error {
	night := *acct.pendingSave
	if err := a.history.AppendNight(ctx, accountID, night); err != nil {
		log.Error().
			Err(err).
			Str("account_id", accountID).
			Str("night_id", night.ID).
			Msg("Failed to save night, keeping it for retry")
		return fmt.Errorf("failed to save night %s: %w", night.ID, err)
	}
	acct.pendingSave = nil
	return nil
}

func (a *App) startRecap(accountID string, acct *account, nightID, winner string) {
	if a.narrator == nil {
		return
	}
	ticket := acct.recap.Begin(nightID)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		text := a.narrator.NightRecap(a.baseCtx, winner)
		if !acct.recap.Deliver(ticket, text) {
			log.Debug().
				Str("account_id", accountID).
				Str("night_id", nightID).
				Msg("Dropped stale recap")
		}
	}()
}

func (a *App) view(acct *account, events []scoring.Event) View {
	s := *acct.state
	recap, pending := acct.recap.Text()
	return View{
		State:               s,
		Events:              events,
		CanUndo:             s.CanUndo(),
		CanEndSet:           s.CanEndSet(),
		SetAllotmentReached: s.SetAllotmentReached(),
		PendingSave:         acct.pendingSave != nil,
		Recap:               recap,
		RecapPending:        pending,
	}
}

func (a *App) account(accountID string) (*account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[accountID]
	if !ok {
		acct = &account{}
		a.accounts[accountID] = acct
	}
	return acct, nil
}

func (a *App) mode(t models.GameModeType) (models.GameModeDetails, bool) {
	for _, m := range a.modes {
		if m.Type == t {
			return m, true
		}
	}
	return models.GameModeDetails{}, false
}

// orDefault keeps negative values so NewNight rejects them
func orDefault(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func teamName(s scoring.State, id *int) string {
	if id == nil {
		return ""
	}
	for _, t := range s.Teams {
		if t.ID == *id {
			return t.Name
		}
	}
	return ""
}
