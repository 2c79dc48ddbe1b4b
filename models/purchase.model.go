package models

import (
    "time"

    "github.com/shopspring/decimal"
)

// Transaction is a medicine purchase. The purchase amount is always derived
// from quantity and rate, never stored.
type Transaction struct {
    ID          string          `json:"id" db:"id"`
    ProductName string          `json:"product_name" db:"product_name"`
    Category    string          `json:"category" db:"category"`
    Supplier    string          `json:"supplier" db:"supplier"`
    Quantity    int64           `json:"quantity" db:"quantity"`
    Rate        decimal.Decimal `json:"rate" db:"rate"`
    Status      string          `json:"status" db:"status"`
    PaymentType string          `json:"payment_type" db:"payment_type"`
    CreatedDate time.Time       `json:"created_date" db:"created_date"`
}

// Transaction statuses. Transitions are caller-driven; any status may move
// to any other, and reaching a zero balance does not complete a transaction.
const (
    TransactionPending   = "pending"
    TransactionCompleted = "completed"
    TransactionCancelled = "cancelled"
)

// PurchaseAmount returns quantity x rate.
func (t Transaction) PurchaseAmount() decimal.Decimal {
    return t.Rate.Mul(decimal.NewFromInt(t.Quantity))
}

// ValidStatus reports whether s is one of the known transaction statuses.
func ValidStatus(s string) bool {
    switch s {
    case TransactionPending, TransactionCompleted, TransactionCancelled:
        return true
    }
    return false
}

// SettlementRecord is one payment applied against a transaction. Records are
// appended and removed by position, never edited in place.
type SettlementRecord struct {
    Amount      decimal.Decimal `json:"amount" db:"amount"`
    Date        time.Time       `json:"date" db:"date"`
    PaymentType string          `json:"payment_type" db:"payment_type"`
}
