package domain

import "time"

// LedgerEntry records one completed paid matrix run.
type LedgerEntry struct {
	// Date is the moment the run finished billing.
	Date time.Time `json:"date"`
	// Elements is the aggregate billed element count of the run.
	Elements int `json:"elements"`
	// CostUSD is the aggregate cost of the run.
	CostUSD float64 `json:"cost"`
	// Mode names the departure variant the run used ("now", "morning", ...).
	Mode string `json:"mode"`
	// Output names the artifact the run produced.
	Output string `json:"output"`
}

// Ledger is the persisted, append-only record of billed external API usage.
// It is the only entity with cross-run mutable state; monthly spend is
// always derived from it, never stored alongside it.
type Ledger struct {
	Runs []LedgerEntry `json:"runs"`
}

// MonthlySpend sums the cost of every entry whose date falls in the same
// calendar year-month as at.
func (l Ledger) MonthlySpend(at time.Time) float64 {
	var total float64
	for _, run := range l.Runs {
		if run.Date.Year() == at.Year() && run.Date.Month() == at.Month() {
			total += run.CostUSD
		}
	}
	return total
}
