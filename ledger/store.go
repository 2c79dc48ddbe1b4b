// Package ledger maintains medicine purchase transactions, their cumulative
// settlement totals and the per-transaction payment history, recomputing
// balances whenever a payment is added or a history entry is removed.
package ledger

import (
    "hospital-admin-service/models"

    "github.com/shopspring/decimal"
)

// Store persists the three ledger collections. Load returns an empty
// collection when nothing has been saved yet; Save always rewrites the whole
// collection. A transaction with no settlement yet has no entry in the
// totals or history collections — absence means zero.
type Store interface {
    LoadTransactions() ([]models.Transaction, error)
    SaveTransactions(transactions []models.Transaction) error

    LoadTotals() (map[string]decimal.Decimal, error)
    SaveTotals(totals map[string]decimal.Decimal) error

    LoadHistory() (map[string][]models.SettlementRecord, error)
    SaveHistory(history map[string][]models.SettlementRecord) error
}
