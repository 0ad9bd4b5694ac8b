package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthlySpendCountsCurrentMonthOnly(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	ledger := Ledger{Runs: []LedgerEntry{
		{Date: time.Date(2026, time.February, 28, 23, 59, 0, 0, time.UTC), CostUSD: 12.5},
		{Date: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), CostUSD: 100},
		{Date: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC), CostUSD: 75},
		{Date: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC), CostUSD: 40}, // same month, prior year
		{Date: time.Date(2026, time.April, 1, 0, 0, 1, 0, time.UTC), CostUSD: 3},
	}}

	require.InDelta(t, 175, ledger.MonthlySpend(now), 1e-9)
}

func TestMonthlySpendEmptyLedger(t *testing.T) {
	require.Zero(t, Ledger{}.MonthlySpend(time.Now()))
}

func TestAppendingRunIncreasesSpendByExactlyItsCost(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	ledger := Ledger{Runs: []LedgerEntry{
		{Date: now.AddDate(0, 0, -5), CostUSD: 175},
	}}

	before := ledger.MonthlySpend(now)
	ledger.Runs = append(ledger.Runs, LedgerEntry{Date: now, Elements: 576, CostUSD: 2.88, Mode: "now", Output: "artifact.json"})
	after := ledger.MonthlySpend(now)

	require.InDelta(t, 2.88, after-before, 1e-9)
}
