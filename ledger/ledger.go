package ledger

import (
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/models"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
    if logger != nil {
        log = logger
    }
}

// Ledger runs every mutation as read full state, compute, write full state
// back. There is no locking; if two writers race, the last save wins.
type Ledger struct {
    store Store
}

func New(store Store) *Ledger {
    return &Ledger{store: store}
}

type CreateInput struct {
    ProductName string
    Category    string
    Supplier    string
    Quantity    int64
    Rate        decimal.Decimal
}

// CreateTransaction registers a new purchase with status pending, an empty
// payment type and today's date. No settlement total or history entry is
// written for it; consumers treat the missing keys as zero.
//
// Quantity and rate must be provided and strictly positive; zero is
// rejected. This mirrors the established intake rule for purchases and is
// flagged for product clarification rather than relaxed here.
func (l *Ledger) CreateTransaction(in CreateInput) (models.Transaction, error) {
    var empty models.Transaction

    if in.ProductName == "" {
        return empty, &ValidationError{Field: "product_name", Reason: "required"}
    }
    if in.Quantity <= 0 {
        return empty, &ValidationError{Field: "quantity", Reason: "must be provided and greater than zero"}
    }
    if !in.Rate.IsPositive() {
        return empty, &ValidationError{Field: "rate", Reason: "must be provided and greater than zero"}
    }

    transactions, err := l.store.LoadTransactions()
    if err != nil {
        return empty, &StoreError{Op: "load transactions", Err: err}
    }

    txn := models.Transaction{
        ID:          uuid.New().String(),
        ProductName: in.ProductName,
        Category:    in.Category,
        Supplier:    in.Supplier,
        Quantity:    in.Quantity,
        Rate:        in.Rate,
        Status:      models.TransactionPending,
        PaymentType: "",
        CreatedDate: time.Now(),
    }

    transactions = append(transactions, txn)
    if err := l.store.SaveTransactions(transactions); err != nil {
        return empty, &StoreError{Op: "save transactions", Err: err}
    }

    log.Debugf("created purchase transaction %s (%s x%d)", txn.ID, txn.ProductName, txn.Quantity)
    return txn, nil
}

// PaymentResult carries the updated cumulative total and balance for
// immediate display. Clamped is informational, not a failure: the requested
// amount exceeded the remaining balance and Applied is what was actually
// added so the total lands exactly on the purchase amount.
type PaymentResult struct {
    Total   decimal.Decimal `json:"total"`
    Balance decimal.Decimal `json:"balance"`
    Applied decimal.Decimal `json:"applied"`
    Clamped bool            `json:"clamped"`
}

// RecordPayment updates the transaction's date, payment type and status
// unconditionally, then applies amount against the remaining balance.
// Negative amounts coerce to zero, which makes a metadata-only edit: no
// history record is appended and the settlement total is unchanged.
func (l *Ledger) RecordPayment(transactionID string, date time.Time, paymentType, status string, amount decimal.Decimal) (PaymentResult, error) {
    var empty PaymentResult

    if transactionID == "" {
        return empty, &ValidationError{Field: "transaction_id", Reason: "required"}
    }
    if !models.ValidStatus(status) {
        return empty, &ValidationError{Field: "status", Reason: "must be pending, completed or cancelled"}
    }

    transactions, err := l.store.LoadTransactions()
    if err != nil {
        return empty, &StoreError{Op: "load transactions", Err: err}
    }

    idx := -1
    for i := range transactions {
        if transactions[i].ID == transactionID {
            idx = i
            break
        }
    }
    if idx == -1 {
        return empty, &ValidationError{Field: "transaction_id", Reason: "transaction not found"}
    }

    totals, err := l.store.LoadTotals()
    if err != nil {
        return empty, &StoreError{Op: "load totals", Err: err}
    }
    history, err := l.store.LoadHistory()
    if err != nil {
        return empty, &StoreError{Op: "load history", Err: err}
    }

    if amount.IsNegative() {
        amount = decimal.Zero
    }

    purchaseAmount := transactions[idx].PurchaseAmount()
    priorTotal := totals[transactionID]

    applied := amount
    clamped := false
    if priorTotal.Add(amount).GreaterThan(purchaseAmount) {
        applied = purchaseAmount.Sub(priorTotal)
        clamped = true
    }

    transactions[idx].CreatedDate = date
    transactions[idx].PaymentType = paymentType
    transactions[idx].Status = status

    newTotal := priorTotal.Add(applied)
    if applied.IsPositive() {
        totals[transactionID] = newTotal
        history[transactionID] = append(history[transactionID], models.SettlementRecord{
            Amount:      applied,
            Date:        date,
            PaymentType: paymentType,
        })
    }

    if err := l.store.SaveTransactions(transactions); err != nil {
        return empty, &StoreError{Op: "save transactions", Err: err}
    }
    if applied.IsPositive() {
        if err := l.store.SaveTotals(totals); err != nil {
            return empty, &StoreError{Op: "save totals", Err: err}
        }
        if err := l.store.SaveHistory(history); err != nil {
            return empty, &StoreError{Op: "save history", Err: err}
        }
    }

    if clamped {
        log.Warnf("payment on %s clamped from %s to %s", transactionID, amount, applied)
    }

    return PaymentResult{
        Total:   newTotal,
        Balance: purchaseAmount.Sub(newTotal),
        Applied: applied,
        Clamped: clamped,
    }, nil
}

// DeleteSettlementRecord removes the history entry at the given position and
// recomputes the settlement total as the sum of the surviving entries. The
// recomputation is deliberate: it self-heals any drift between the total and
// the history, which a plain subtraction would carry forward.
func (l *Ledger) DeleteSettlementRecord(transactionID string, index int) error {
    history, err := l.store.LoadHistory()
    if err != nil {
        return &StoreError{Op: "load history", Err: err}
    }

    records := history[transactionID]
    if index < 0 || index >= len(records) {
        return &OutOfRangeError{Index: index, Length: len(records)}
    }

    records = append(records[:index], records[index+1:]...)
    if len(records) == 0 {
        delete(history, transactionID)
    } else {
        history[transactionID] = records
    }

    total := decimal.Zero
    for _, rec := range records {
        total = total.Add(rec.Amount)
    }

    totals, err := l.store.LoadTotals()
    if err != nil {
        return &StoreError{Op: "load totals", Err: err}
    }
    if total.IsZero() {
        delete(totals, transactionID)
    } else {
        totals[transactionID] = total
    }

    if err := l.store.SaveHistory(history); err != nil {
        return &StoreError{Op: "save history", Err: err}
    }
    if err := l.store.SaveTotals(totals); err != nil {
        return &StoreError{Op: "save totals", Err: err}
    }

    log.Debugf("deleted settlement record %d of %s, total recomputed to %s", index, transactionID, total)
    return nil
}

// Transactions returns all purchases.
func (l *Ledger) Transactions() ([]models.Transaction, error) {
    transactions, err := l.store.LoadTransactions()
    if err != nil {
        return nil, &StoreError{Op: "load transactions", Err: err}
    }
    return transactions, nil
}

// Transaction returns one purchase with its settled total and balance.
func (l *Ledger) Transaction(transactionID string) (models.Transaction, decimal.Decimal, decimal.Decimal, error) {
    var empty models.Transaction

    transactions, err := l.store.LoadTransactions()
    if err != nil {
        return empty, decimal.Zero, decimal.Zero, &StoreError{Op: "load transactions", Err: err}
    }
    totals, err := l.store.LoadTotals()
    if err != nil {
        return empty, decimal.Zero, decimal.Zero, &StoreError{Op: "load totals", Err: err}
    }

    for _, txn := range transactions {
        if txn.ID == transactionID {
            total := totals[txn.ID]
            return txn, total, txn.PurchaseAmount().Sub(total), nil
        }
    }
    return empty, decimal.Zero, decimal.Zero, &ValidationError{Field: "transaction_id", Reason: "transaction not found"}
}

// History returns the settlement history for one transaction, oldest first.
func (l *Ledger) History(transactionID string) ([]models.SettlementRecord, error) {
    history, err := l.store.LoadHistory()
    if err != nil {
        return nil, &StoreError{Op: "load history", Err: err}
    }
    return history[transactionID], nil
}

// Totals returns the settlement totals keyed by transaction id.
func (l *Ledger) Totals() (map[string]decimal.Decimal, error) {
    totals, err := l.store.LoadTotals()
    if err != nil {
        return nil, &StoreError{Op: "load totals", Err: err}
    }
    return totals, nil
}

// Summary aggregates purchase amounts, settlement totals and balances over a
// set of transactions.
type Summary struct {
    TotalPurchase   decimal.Decimal `json:"total_purchase"`
    TotalSettlement decimal.Decimal `json:"total_settlement"`
    TotalBalance    decimal.Decimal `json:"total_balance"`
}

// Summarize is a pure aggregation. A transaction missing from totals counts
// as zero settled, never as an error.
func Summarize(transactions []models.Transaction, totals map[string]decimal.Decimal) Summary {
    s := Summary{
        TotalPurchase:   decimal.Zero,
        TotalSettlement: decimal.Zero,
        TotalBalance:    decimal.Zero,
    }
    for _, txn := range transactions {
        s.TotalPurchase = s.TotalPurchase.Add(txn.PurchaseAmount())
        s.TotalSettlement = s.TotalSettlement.Add(totals[txn.ID])
    }
    s.TotalBalance = s.TotalPurchase.Sub(s.TotalSettlement)
    return s
}

// ComputeSummary loads current state and summarizes it.
func (l *Ledger) ComputeSummary() (Summary, error) {
    transactions, err := l.store.LoadTransactions()
    if err != nil {
        return Summary{}, &StoreError{Op: "load transactions", Err: err}
    }
    totals, err := l.store.LoadTotals()
    if err != nil {
        return Summary{}, &StoreError{Op: "load totals", Err: err}
    }
    return Summarize(transactions, totals), nil
}
