package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the calendar unit a recurring payment steps by.
type Frequency string

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
	FrequencyYear  Frequency = "year"
)

// ParseFrequency validates a frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyYear:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// RecurringPayment is a template that periodically materializes into an Expense.
//
// A definition is created Active with NextDue equal to StartDate. Each
// scheduler pass moves NextDue forward past the occurrences it processed.
// Once the next occurrence would fall after EndDate the definition becomes
// inactive for good and NextDue is cleared; inactive definitions never
// transition again.
type RecurringPayment struct {
	ID         string
	Amount     decimal.Decimal
	CategoryID string
	PayerID    string
	GroupID    string
	Memo       string

	// Participants are the user IDs that share each occurrence equally.
	// Empty means the payer alone.
	Participants []string

	Frequency Frequency
	// Interval multiplies Frequency, e.g. 2 weeks. Always >= 1.
	Interval int

	StartDate time.Time
	// NextDue is nil once the definition is inactive.
	NextDue *time.Time
	EndDate *time.Time
	Active  bool

	CreatedAt int64
	UpdatedAt int64
}

// SplitParticipants returns the participant list used to split an occurrence.
func (r *RecurringPayment) SplitParticipants() []string {
	if len(r.Participants) == 0 {
		return []string{r.PayerID}
	}
	return r.Participants
}
