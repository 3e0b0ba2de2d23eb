// Package narrative produces the commentator text shown after a night and on the stats screen.
// Generation failures never surface; callers always get text back.
package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyResponse is returned by generators that answered with no text
	ErrEmptyResponse = errors.New("generator returned no text")
	// ErrDisabled is returned by the no-op generator
	ErrDisabled = errors.New("narrative generation disabled")
)

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled is a Generator that always fails, so every caller gets fallback text
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// Narrator wraps a Generator with a timeout and canned fallbacks
type Narrator struct {
	gen      Generator
	clock    clockwork.Clock
	timeout  time.Duration
	language string
}

// NewNarrator creates a Narrator. A zero timeout means 20 seconds.
func NewNarrator(gen Generator, clock clockwork.Clock, timeout time.Duration, language string) *Narrator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if language == "" {
		language = "English"
	}
	return &Narrator{
		gen:      gen,
		clock:    clock,
		timeout:  timeout,
		language: language,
	}
}

// NightRecap returns a short celebration of the night's champion
func (n *Narrator) NightRecap(ctx context.Context, winnerName string) string {
	return n.generate(ctx, "night_recap", RecapPrompt(winnerName, n.language), RecapFallback)
}

// PlayerAnalysis returns a playful profile built from a stats row
func (n *Narrator) PlayerAnalysis(ctx context.Context, stats models.PlayerStats) string {
	return n.generate(ctx, "player_analysis", PlayerAnalysisPrompt(stats, n.language), AnalysisFallback)
}

// RivalryBanter returns trash talk for a head-to-head comparison
func (n *Narrator) RivalryBanter(ctx context.Context, h2h models.HeadToHeadStats) string {
	return n.generate(ctx, "rivalry", HeadToHeadPrompt(h2h, n.language), RivalryFallback)
}

func (n *Narrator) generate(ctx context.Context, kind, prompt, fallback string) string {
	ctx, cancel := clockwork.WithTimeout(ctx, n.clock, n.timeout)
	defer cancel()

	text, err := n.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Narrative generation failed, using fallback")
		return fallback
	}
	return strings.TrimSpace(text)
}
