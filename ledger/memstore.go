package ledger

import (
    "hospital-admin-service/models"

    "github.com/shopspring/decimal"
)

// MemStore is an in-memory Store used by tests and local runs. Loads return
// copies so callers cannot mutate the stored state behind the ledger's back.
type MemStore struct {
    Transactions []models.Transaction
    Totals       map[string]decimal.Decimal
    History      map[string][]models.SettlementRecord

    // Error flags for testing error conditions
    LoadTransactionsError error
    SaveTransactionsError error
    LoadTotalsError       error
    SaveTotalsError       error
    LoadHistoryError      error
    SaveHistoryError      error
}

func NewMemStore() *MemStore {
    return &MemStore{
        Totals:  make(map[string]decimal.Decimal),
        History: make(map[string][]models.SettlementRecord),
    }
}

func (m *MemStore) LoadTransactions() ([]models.Transaction, error) {
    if m.LoadTransactionsError != nil {
        return nil, m.LoadTransactionsError
    }
    result := make([]models.Transaction, len(m.Transactions))
    copy(result, m.Transactions)
    return result, nil
}

func (m *MemStore) SaveTransactions(transactions []models.Transaction) error {
    if m.SaveTransactionsError != nil {
        return m.SaveTransactionsError
    }
    m.Transactions = make([]models.Transaction, len(transactions))
    copy(m.Transactions, transactions)
    return nil
}

func (m *MemStore) LoadTotals() (map[string]decimal.Decimal, error) {
    if m.LoadTotalsError != nil {
        return nil, m.LoadTotalsError
    }
    result := make(map[string]decimal.Decimal, len(m.Totals))
    for k, v := range m.Totals {
        result[k] = v
    }
    return result, nil
}

func (m *MemStore) SaveTotals(totals map[string]decimal.Decimal) error {
    if m.SaveTotalsError != nil {
        return m.SaveTotalsError
    }
    m.Totals = make(map[string]decimal.Decimal, len(totals))
    for k, v := range totals {
        m.Totals[k] = v
    }
    return nil
}

func (m *MemStore) LoadHistory() (map[string][]models.SettlementRecord, error) {
    if m.LoadHistoryError != nil {
        return nil, m.LoadHistoryError
    }
    result := make(map[string][]models.SettlementRecord, len(m.History))
    for k, v := range m.History {
        records := make([]models.SettlementRecord, len(v))
        copy(records, v)
        result[k] = records
    }
    return result, nil
}

func (m *MemStore) SaveHistory(history map[string][]models.SettlementRecord) error {
    if m.SaveHistoryError != nil {
        return m.SaveHistoryError
    }
    m.History = make(map[string][]models.SettlementRecord, len(history))
    for k, v := range history {
        records := make([]models.SettlementRecord, len(v))
        copy(records, v)
        m.History[k] = records
    }
    return nil
}
