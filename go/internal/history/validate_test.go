package history

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/dominonight/go/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *models.NightRecord)
		ok     bool
	}{
		{"valid", func(n *models.NightRecord) {}, true},
		{"open night", func(n *models.NightRecord) { n.NightWinnerTeamID = nil }, true},
		{"empty trailing set", func(n *models.NightRecord) {
			n.Sets = append(n.Sets, models.SetRecord{SetNumber: 2, Games: []models.GameRecord{}})
		}, true},
		{"blank id", func(n *models.NightRecord) { n.ID = " " }, false},
		{"bad date", func(n *models.NightRecord) { n.Date = "yesterday" }, false},
		{"one-team mode", func(n *models.NightRecord) { n.Mode.Teams = 1 }, false},
		{"no sets", func(n *models.NightRecord) { n.Sets = nil }, false},
		{"set numbering gap", func(n *models.NightRecord) { n.Sets[0].SetNumber = 2 }, false},
		{"set winner out of range", func(n *models.NightRecord) { n.Sets[0].WinnerTeamID = models.IntPtr(2) }, false},
		{"game number zero", func(n *models.NightRecord) { n.Sets[0].Games[0].GameNumber = 0 }, false},
		{"missing team", func(n *models.NightRecord) { n.Sets[0].Games[0].Teams = n.Sets[0].Games[0].Teams[:1] }, false},
		{"negative score", func(n *models.NightRecord) { n.Sets[0].Games[0].Teams[1].Score = -1 }, false},
		{"empty team", func(n *models.NightRecord) { n.Sets[0].Games[0].Teams[1].Players = nil }, false},
		{"game winner unknown", func(n *models.NightRecord) { n.Sets[0].Games[0].WinnerTeamID = 7 }, false},
		{"night winner negative", func(n *models.NightRecord) { n.NightWinnerTeamID = models.IntPtr(-1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := completedNight("1", "2026-10-16T20:00:00Z", "Ali", "Bita")
			tt.mutate(&n)
			err := Validate(n)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{"id": 12, "sets": "nope"}`)); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestEncodeUsesRecordFieldNames(t *testing.T) {
	n := completedNight("1", "2026-10-16T20:00:00Z", "Ali", "Bita")
	n.NightWinnerTeamID = nil

	data, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, key := range []string{`"winnerTeamId":0`, `"gameNumber":1`, `"playersPerTeam":1`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded night missing %s: %s", key, data)
		}
	}
	if strings.Contains(string(data), "nightWinnerTeamId") {
		t.Errorf("open night should omit nightWinnerTeamId: %s", data)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(n, back); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}
