package history

import (
	"encoding/json"
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// Encode serializes a night into the persisted JSON document shape
func Encode(night models.NightRecord) ([]byte, error) {
	data, err := json.Marshal(night)
	if err != nil {
		return nil, fmt.Errorf("failed to encode night %s: %w", night.ID, err)
	}
	return data, nil
}

// Decode parses a persisted JSON document. Undecodable input is reported as ErrMalformedRecord.
func Decode(data []byte) (models.NightRecord, error) {
	var night models.NightRecord
	if err := json.Unmarshal(data, &night); err != nil {
		return models.NightRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return night, nil
}

// Collector accumulates decoded nights for a backend's LoadHistory. Documents that fail to
// decode are set aside so one corrupt row does not hide the rest of the log.
type Collector struct {
	nights []models.NightRecord
	errs   []error
}

func NewCollector(capacity int) *Collector {
	return &Collector{nights: make([]models.NightRecord, 0, capacity)}
}

// Add decodes one stored document
func (c *Collector) Add(data []byte) {
	night, err := Decode(data)
	if err != nil {
		c.Skip(err)
		return
	}
	c.nights = append(c.nights, night)
}

// Append keeps a night the backend decoded itself
func (c *Collector) Append(night models.NightRecord) {
	c.nights = append(c.nights, night)
}

// Skip records a document the backend could not decode
func (c *Collector) Skip(err error) {
	c.errs = append(c.errs, err)
}

// Result returns the decoded nights, plus a *MalformedRecordsError when anything was skipped
func (c *Collector) Result() ([]models.NightRecord, error) {
	if len(c.errs) > 0 {
		return c.nights, &MalformedRecordsError{Errs: c.errs}
	}
	return c.nights, nil
}
