package notify

import (
	"testing"

	"github.com/Spok95/garage-crm/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutToken(t *testing.T) {
	n, err := New("", 0, nil)
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestLowStock_NilReceiverIsSafe(t *testing.T) {
	var n *Notifier
	n.LowStock([]report.StockPeriodResult{{PartID: 1, CurrentStock: -2}})
}
