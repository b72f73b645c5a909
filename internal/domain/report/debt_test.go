package report

import (
	"math/rand"
	"testing"

	"github.com/Spok95/garage-crm/internal/domain/orders"
	"github.com/Spok95/garage-crm/internal/domain/payments"
	"github.com/Spok95/garage-crm/internal/domain/vehicles"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ordersWithTotals(totals ...string) []orders.RepairOrder {
	out := make([]orders.RepairOrder, 0, len(totals))
	for i, t := range totals {
		out = append(out, orders.RepairOrder{ID: int64(i + 1), Total: dec(t)})
	}
	return out
}

func paymentsWithAmounts(amounts ...string) []payments.Payment {
	out := make([]payments.Payment, 0, len(amounts))
	for i, a := range amounts {
		out = append(out, payments.Payment{ID: int64(i + 1), Amount: dec(a)})
	}
	return out
}

func TestAggregateDebt_FullyPaid(t *testing.T) {
	// начислено 1 500 000 и оплачено 1 500 000 — долг ровно ноль
	v := vehicles.Vehicle{ID: 1, Plate: "А123ВС77"}
	ords := ordersWithTotals("500000", "700000", "300000")
	pays := paymentsWithAmounts("1000000", "500000")

	d := aggregateDebt(v, ords, pays)

	assert.True(t, d.TotalDebt.Equal(dec("1500000")), "total_debt = %s", d.TotalDebt)
	assert.True(t, d.TotalPaid.Equal(dec("1500000")), "total_paid = %s", d.TotalPaid)
	assert.True(t, d.RemainingDebt.IsZero(), "remaining = %s", d.RemainingDebt)
}

func TestAggregateDebt_OverpaidGoesNegative(t *testing.T) {
	v := vehicles.Vehicle{ID: 2}
	ords := ordersWithTotals("1000.50")
	pays := paymentsWithAmounts("1500.75")

	d := aggregateDebt(v, ords, pays)

	assert.True(t, d.RemainingDebt.Equal(dec("-500.25")), "remaining = %s", d.RemainingDebt)
}

func TestAggregateDebt_NoActivityZeroTotals(t *testing.T) {
	d := aggregateDebt(vehicles.Vehicle{ID: 3}, nil, nil)

	assert.True(t, d.TotalDebt.IsZero())
	assert.True(t, d.TotalPaid.IsZero())
	assert.True(t, d.RemainingDebt.IsZero())
}

func TestAggregateDebt_ExactDecimalArithmetic(t *testing.T) {
	// классическая ловушка float: 0.1+0.2; decimal обязан дать ровно 0.3
	v := vehicles.Vehicle{ID: 4}
	ords := ordersWithTotals("0.1", "0.2")
	pays := paymentsWithAmounts("0.3")

	d := aggregateDebt(v, ords, pays)

	assert.True(t, d.RemainingDebt.IsZero(), "remaining = %s", d.RemainingDebt)
}

func TestAggregateDebt_SumsCommutative(t *testing.T) {
	v := vehicles.Vehicle{ID: 5}
	ords := ordersWithTotals("19.99", "0.01", "1234.56", "7.77", "100000")
	pays := paymentsWithAmounts("50000.50", "0.49", "999.99")

	want := aggregateDebt(v, ords, pays)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		so := append([]orders.RepairOrder(nil), ords...)
		sp := append([]payments.Payment(nil), pays...)
		rnd.Shuffle(len(so), func(a, b int) { so[a], so[b] = so[b], so[a] })
		rnd.Shuffle(len(sp), func(a, b int) { sp[a], sp[b] = sp[b], sp[a] })

		got := aggregateDebt(v, so, sp)

		assert.True(t, want.TotalDebt.Equal(got.TotalDebt))
		assert.True(t, want.TotalPaid.Equal(got.TotalPaid))
		assert.True(t, want.RemainingDebt.Equal(got.RemainingDebt))
	}
}
