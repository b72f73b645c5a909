package report

import "time"

// Period — закрытый отчётный интервал [From, To].
// Для выборки дельт начало исключительно, конец включительно: (From, To].
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return Period{}, ErrInvalidRange
	}
	return Period{From: from, To: to}, nil
}

func (p Period) valid() bool {
	return !p.From.IsZero() && !p.To.IsZero() && !p.From.After(p.To)
}
