package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POS_CATALOG_PATH", filepath.Join("..", "..", "data", "pos_items.json"))
	t.Setenv("POS_STORAGE_DRIVER", "file")
	t.Setenv("POS_STORAGE_PATH", filepath.Join(t.TempDir(), "state.json"))
	t.Setenv("POS_TIMEZONE", "UTC")
	t.Setenv("POS_DISPLAY_TIMEZONE", "")
	t.Setenv("POS_JWT_SECRET", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("POS_LOG_LEVEL", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "catalog", "--category", "bakery")
	require.NoError(t, err)
	assert.Contains(t, out, "Croissant")
	assert.Contains(t, out, "$2.95")
	assert.NotContains(t, out, "Latte")
}

func TestSellThenLedgerAndReport(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "sell", "Latte=2", "Croissant")
	require.NoError(t, err)
	assert.Contains(t, out, "2 x $3.75")
	assert.Contains(t, out, "$10.45")

	out, err = execute(t, "catalog", "--search", "latte")
	require.NoError(t, err)
	assert.Contains(t, out, "78")

	out, err = execute(t, "ledger", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Croissant")
	assert.NotContains(t, out, "Latte")

	out, err = execute(t, "ledger", "-n", "0")
	require.NoError(t, err)
	require.Contains(t, out, "Croissant")
	assert.Less(t, strings.Index(out, "Croissant"), strings.Index(out, "Latte"))
	assert.Contains(t, out, "$7.50")

	out, err = execute(t, "report", "--period", "monthly")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly sales")
	assert.Contains(t, out, "hot drinks")
	assert.Contains(t, out, "$10.45")
}

func TestSellRejectsOverselling(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "sell", "Turkey Sandwich=16")
	assert.EqualError(t, err, "insufficient inventory for Turkey Sandwich: requested 16, available 15")

	_, err = execute(t, "sell", "Unicorn=1")
	assert.EqualError(t, err, "product not found: Unicorn")

	out, err := execute(t, "ledger")
	require.NoError(t, err)
	assert.NotContains(t, out, "Turkey")
}

func TestParseSaleArg(t *testing.T) {
	tests := []struct {
		in   string
		name string
		qty  int
		bad  bool
	}{
		{"Latte=3", "Latte", 3, false},
		{"Iced Tea = 2", "Iced Tea", 2, false},
		{"Espresso", "Espresso", 1, false},
		{"Latte=0", "", 0, true},
		{"Latte=x", "", 0, true},
		{"=2", "", 0, true},
	}
	for _, tt := range tests {
		name, qty, err := parseSaleArg(tt.in)
		if tt.bad {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.qty, qty)
	}
}
