package publisher

import (
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"
)

// RecordIDGenerator produces the record ID shared by one publish call.
type RecordIDGenerator func(clientID string) string

// NewRecordID returns clientID, a dash and a random (version 4) UUID.
func NewRecordID(clientID string) string {
	return clientID + "-" + uuid.NewString()
}

// Clock provides time operations (injectable for testing)
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using actual system time
type realClock struct{}

// Now returns the current system time
func (realClock) Now() time.Time {
	return time.Now()
}

// batch is the state of a single publish call. It is created per call and
// passed down explicitly so concurrent calls never share it.
type batch struct {
	recordID  string
	timestamp string
}

// newBatch captures the record ID and timestamp for one call. The time is
// taken in UTC because the default layout ends in a literal Z; a %z in a
// custom layout therefore always prints +0000.
func (p *Publisher) newBatch() batch {
	return batch{
		recordID:  p.recordID(p.config.ClientID),
		timestamp: strftime.Format(p.config.TimeFormat, p.clock.Now().UTC()),
	}
}
