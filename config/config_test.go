package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/stretchr/testify/require"
)

type keys struct {
	pool, mintA, mintB, beneficiary, sale, admin, user solana.PublicKey
}

func newKeys() keys {
	k := func() solana.PublicKey { return solana.NewWallet().PublicKey() }
	return keys{k(), k(), k(), k(), k(), k(), k()}
}

func document(k keys) string {
	return fmt.Sprintf(`{
  "pool": {"address": %q, "mintA": %q, "mintB": %q, "beneficiary": %q, "lockedLiquidity": "100"},
  "sale": {"address": %q, "admin": %q, "baseMint": %q, "tokenMint": %q, "migrationThreshold": "2e18"},
  "accounts": [
    {"owner": %q, "mint": %q, "amount": "1e24"},
    {"owner": %q, "mint": %q, "amount": 123456789012345678901}
  ],
  "steps": [
    {"op": "configure", "caller": %q},
    {"op": "deposit", "caller": %q, "amount": "1000", "amountB": "4000"},
    {"op": "swap", "caller": %q, "side": "b", "amount": "100"},
    {"op": "purchase", "caller": %q, "amount": "1e18"},
    {"op": "sweep", "caller": %q}
  ]
}`,
		k.pool, k.mintA, k.mintB, k.beneficiary,
		k.sale, k.admin, k.mintB, k.mintA,
		k.sale, k.mintA,
		k.user, k.mintB,
		k.admin, k.user, k.user, k.user, k.beneficiary,
	)
}

func TestParse(t *testing.T) {
	k := newKeys()
	cfg, err := Parse([]byte(document(k)))
	require.NoError(t, err)

	require.Equal(t, k.pool, cfg.Pool.Address)
	require.Equal(t, k.beneficiary, cfg.Pool.Beneficiary)
	require.Equal(t, "100", cfg.Pool.LockedLiquidity.Dec())
	require.Equal(t, "1000", cfg.Pool.MinSeedLiquidity.Dec())

	require.Equal(t, k.admin, cfg.Sale.Admin)
	require.Equal(t, "2000000000000000000", cfg.Sale.MigrationThreshold.Dec())
	require.True(t, cfg.Sale.PriceFloor.Eq(shared.DefaultPriceFloor))

	require.Len(t, cfg.Accounts, 2)
	require.Equal(t, "1000000000000000000000000", cfg.Accounts[0].Amount.Dec())
	require.Equal(t, "123456789012345678901", cfg.Accounts[1].Amount.Dec())

	require.Len(t, cfg.Steps, 5)
	require.Equal(t, OpConfigure, cfg.Steps[0].Op)
	require.Equal(t, "4000", cfg.Steps[1].AmountB.Dec())
	require.Equal(t, shared.SideB, cfg.Steps[2].Side)
	require.Equal(t, k.beneficiary, cfg.Steps[4].Caller)
}

func TestParseErrors(t *testing.T) {
	k := newKeys()
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "invalid json", doc: `{"pool":`, want: "invalid json"},
		{name: "missing key", doc: `{"pool": {}}`, want: "address: missing"},
		{
			name: "bad amount",
			doc: fmt.Sprintf(`{"pool": {"address": %q, "mintA": %q, "mintB": %q, "beneficiary": %q, "minSeedLiquidity": "-5"}}`,
				k.pool, k.mintA, k.mintB, k.beneficiary),
			want: "minSeedLiquidity",
		},
		{
			name: "unknown op",
			doc: fmt.Sprintf(`{"pool": {"address": %q, "mintA": %q, "mintB": %q, "beneficiary": %q},
				"sale": {"address": %q, "admin": %q, "baseMint": %q, "tokenMint": %q},
				"steps": [{"op": "burn", "caller": %q}]}`,
				k.pool, k.mintA, k.mintB, k.beneficiary, k.sale, k.admin, k.mintB, k.mintA, k.user),
			want: `unknown op "burn"`,
		},
		{
			name: "bad side",
			doc: fmt.Sprintf(`{"pool": {"address": %q, "mintA": %q, "mintB": %q, "beneficiary": %q},
				"sale": {"address": %q, "admin": %q, "baseMint": %q, "tokenMint": %q},
				"steps": [{"op": "swap", "caller": %q, "side": "C", "amount": "1"}]}`,
				k.pool, k.mintA, k.mintB, k.beneficiary, k.sale, k.admin, k.mintB, k.mintA, k.user),
			want: "side",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launchpool.json")
	require.NoError(t, os.WriteFile(path, []byte(document(newKeys())), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Steps, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
