package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Spok95/garage-crm/internal/domain/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func mv(qty int64, day int) stock.Movement {
	return stock.Movement{Qty: qty, OccurredAt: testBase.AddDate(0, 0, day)}
}

func TestReconcile_KnownScenario(t *testing.T) {
	// остаток 50; события внутри периода: -10 (день 5), +20 (день 10), -5 (день 15);
	// после периода событий нет
	during := []stock.Movement{mv(-10, 5), mv(20, 10), mv(-5, 15)}

	res := Reconcile(50, during, nil)

	assert.Equal(t, int64(50), res.EndStock)
	assert.Equal(t, int64(45), res.BeginStock)
	assert.Equal(t, int64(15), res.UsedDuring)
	assert.Equal(t, int64(50), res.CurrentStock)
	assert.False(t, res.IntegrityWarning)
}

func TestReconcile_NoEvents(t *testing.T) {
	res := Reconcile(37, nil, nil)

	assert.Equal(t, int64(37), res.BeginStock)
	assert.Equal(t, int64(37), res.EndStock)
	assert.Equal(t, int64(37), res.CurrentStock)
	assert.Equal(t, int64(0), res.UsedDuring)
	assert.False(t, res.IntegrityWarning)
}

func TestReconcile_UndoesEventsAfterPeriod(t *testing.T) {
	// после периода списали 20 и вернули 5: конец периода = 30 - (-20+5) = 45
	after := []stock.Movement{mv(-20, 40), mv(5, 41)}

	res := Reconcile(30, nil, after)

	assert.Equal(t, int64(45), res.EndStock)
	assert.Equal(t, int64(45), res.BeginStock)
	assert.Equal(t, int64(0), res.UsedDuring)
}

func TestReconcile_RestocksNotCountedAsUsage(t *testing.T) {
	// приходы внутри периода двигают begin/end, но не попадают в «использовано»
	during := []stock.Movement{mv(100, 3), mv(-30, 7)}

	res := Reconcile(80, during, nil)

	assert.Equal(t, int64(30), res.UsedDuring)
	assert.Equal(t, int64(80), res.EndStock)
	assert.Equal(t, int64(10), res.BeginStock)
}

func TestReconcile_NegativeHistoryNotClampedAndWarns(t *testing.T) {
	// журнал неполон: по нему выходит, что в начале периода остаток был -10
	during := []stock.Movement{mv(10, 2)}

	res := Reconcile(0, during, nil)

	assert.Equal(t, int64(-10), res.BeginStock)
	assert.Equal(t, int64(0), res.EndStock)
	assert.True(t, res.IntegrityWarning)
}

func TestReconcile_NegativeEndStockWarns(t *testing.T) {
	// после периода был большой приход — конец периода восстановился в минус
	after := []stock.Movement{mv(40, 50)}

	res := Reconcile(10, nil, after)

	assert.Equal(t, int64(-30), res.EndStock)
	assert.True(t, res.IntegrityWarning)
}

func TestReconcile_InvariantEndEqualsBeginPlusDeltas(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		during  []stock.Movement
		after   []stock.Movement
	}{
		{"consumption only", 50, []stock.Movement{mv(-10, 1), mv(-5, 2)}, nil},
		{"mixed deltas", 20, []stock.Movement{mv(-10, 1), mv(30, 2), mv(-7, 3)}, []stock.Movement{mv(-4, 40)}},
		{"restock only", 5, []stock.Movement{mv(12, 1)}, []stock.Movement{mv(3, 40), mv(-9, 41)}},
		{"empty period", 0, nil, []stock.Movement{mv(-6, 40)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum int64
			for _, m := range tt.during {
				sum += m.Qty
			}

			res := Reconcile(tt.current, tt.during, tt.after)

			assert.Equal(t, sum, res.EndStock-res.BeginStock)
		})
	}
}

func TestReconcile_OrderInsensitive(t *testing.T) {
	during := []stock.Movement{mv(-10, 5), mv(20, 10), mv(-5, 15), mv(-1, 15)}
	after := []stock.Movement{mv(-3, 40), mv(7, 45)}

	want := Reconcile(50, during, after)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffledDuring := append([]stock.Movement(nil), during...)
		shuffledAfter := append([]stock.Movement(nil), after...)
		rnd.Shuffle(len(shuffledDuring), func(a, b int) {
			shuffledDuring[a], shuffledDuring[b] = shuffledDuring[b], shuffledDuring[a]
		})
		rnd.Shuffle(len(shuffledAfter), func(a, b int) {
			shuffledAfter[a], shuffledAfter[b] = shuffledAfter[b], shuffledAfter[a]
		})

		got := Reconcile(50, shuffledDuring, shuffledAfter)
		require.Equal(t, want, got)
	}
}

func TestNewPeriod(t *testing.T) {
	from := testBase
	to := testBase.AddDate(0, 0, 20)

	t.Run("valid", func(t *testing.T) {
		p, err := NewPeriod(from, to)
		require.NoError(t, err)
		assert.Equal(t, from, p.From)
		assert.Equal(t, to, p.To)
	})

	t.Run("inverted", func(t *testing.T) {
		_, err := NewPeriod(to, from)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("single instant", func(t *testing.T) {
		_, err := NewPeriod(from, from)
		assert.NoError(t, err)
	})

	t.Run("zero dates", func(t *testing.T) {
		_, err := NewPeriod(time.Time{}, to)
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = NewPeriod(from, time.Time{})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
