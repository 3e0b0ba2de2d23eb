package memory

import (
	"testing"

	"github.com/mcdev12/dominonight/go/internal/storage/storagetest"
)

func TestHistoryContract(t *testing.T) {
	storagetest.RunHistory(t, NewStore())
}

func TestRosterContract(t *testing.T) {
	storagetest.RunRoster(t, NewStore())
}
