package events

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	pool := solana.NewWallet().PublicKey()

	r.Send(SwapExecuted{Pool: pool, SideIn: shared.SideA, AmountIn: uint256.NewInt(1), AmountOut: uint256.NewInt(1)})
	r.Send(FeeCollected{Pool: pool, Side: shared.SideA, Amount: uint256.NewInt(0)})

	require.Len(t, r.Events(), 2)
	require.Len(t, r.OfType(TypeFeeCollected), 1)
	assert.Equal(t, pool, r.Events()[0].Source())
	assert.False(t, r.OfType(TypeFeeCollected)[0].(FeeCollected).Swept())

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestFanout(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Fanout{a, b, Nop}.Send(MigrationTriggered{})
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}

func TestLogBroker(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := NewLogBroker(zap.New(core))

	buyer := solana.NewWallet().PublicKey()
	b.Send(TokensPurchased{
		Buyer:       buyer,
		Payment:     uint256.NewInt(10),
		Tokens:      uint256.NewInt(20),
		TotalRaised: uint256.NewInt(30),
	})

	entries := logs.FilterMessage("tokens_purchased").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, buyer.String(), fields["buyer"])
	assert.Equal(t, "20", fields["tokens"])
}

func TestMetricsBroker(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsBroker(reg)
	require.NoError(t, err)

	sale := solana.NewWallet().PublicKey()
	m.Send(TokensPurchased{Sale: sale, Payment: uint256.NewInt(5), Tokens: uint256.NewInt(1), TotalRaised: uint256.NewInt(5)})
	m.Send(TokensPurchased{Sale: sale, Payment: uint256.NewInt(2), Tokens: uint256.NewInt(1), TotalRaised: uint256.NewInt(7)})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.events.WithLabelValues("tokens_purchased")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.totalRaised.WithLabelValues(sale.String())))

	_, err = NewMetricsBroker(reg)
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "migration_triggered", TypeMigrationTriggered.String())
	assert.Equal(t, "Type(99)", Type(99).String())
}
