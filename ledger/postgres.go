package ledger

import (
    "database/sql"

    "hospital-admin-service/models"

    "github.com/shopspring/decimal"
)

// PostgresStore keeps the three ledger collections in Postgres. Saves follow
// the store contract's full-overwrite semantics: each collection is deleted
// and rewritten inside one database transaction, so a failed save commits
// nothing.
type PostgresStore struct {
    db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
    return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadTransactions() ([]models.Transaction, error) {
    rows, err := s.db.Query(`
        SELECT id, product_name, category, supplier, quantity, rate, status, payment_type, created_date
        FROM purchase_transactions
        ORDER BY created_date, id
    `)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var transactions []models.Transaction
    for rows.Next() {
        var txn models.Transaction
        err := rows.Scan(&txn.ID, &txn.ProductName, &txn.Category, &txn.Supplier,
            &txn.Quantity, &txn.Rate, &txn.Status, &txn.PaymentType, &txn.CreatedDate)
        if err != nil {
            return nil, err
        }
        transactions = append(transactions, txn)
    }
    return transactions, rows.Err()
}

func (s *PostgresStore) SaveTransactions(transactions []models.Transaction) error {
    tx, err := s.db.Begin()
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.Exec(`DELETE FROM purchase_transactions`); err != nil {
        return err
    }
    for _, txn := range transactions {
        _, err := tx.Exec(`
            INSERT INTO purchase_transactions (id, product_name, category, supplier, quantity, rate, status, payment_type, created_date)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `, txn.ID, txn.ProductName, txn.Category, txn.Supplier, txn.Quantity, txn.Rate, txn.Status, txn.PaymentType, txn.CreatedDate)
        if err != nil {
            return err
        }
    }
    return tx.Commit()
}

func (s *PostgresStore) LoadTotals() (map[string]decimal.Decimal, error) {
    rows, err := s.db.Query(`SELECT transaction_id, total FROM settlement_totals`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    totals := make(map[string]decimal.Decimal)
    for rows.Next() {
        var id string
        var total decimal.Decimal
        if err := rows.Scan(&id, &total); err != nil {
            return nil, err
        }
        totals[id] = total
    }
    return totals, rows.Err()
}

func (s *PostgresStore) SaveTotals(totals map[string]decimal.Decimal) error {
    tx, err := s.db.Begin()
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.Exec(`DELETE FROM settlement_totals`); err != nil {
        return err
    }
    for id, total := range totals {
        _, err := tx.Exec(`INSERT INTO settlement_totals (transaction_id, total) VALUES ($1, $2)`, id, total)
        if err != nil {
            return err
        }
    }
    return tx.Commit()
}

func (s *PostgresStore) LoadHistory() (map[string][]models.SettlementRecord, error) {
    rows, err := s.db.Query(`
        SELECT transaction_id, amount, date, payment_type
        FROM settlement_history
        ORDER BY transaction_id, position
    `)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    history := make(map[string][]models.SettlementRecord)
    for rows.Next() {
        var id string
        var rec models.SettlementRecord
        if err := rows.Scan(&id, &rec.Amount, &rec.Date, &rec.PaymentType); err != nil {
            return nil, err
        }
        history[id] = append(history[id], rec)
    }
    return history, rows.Err()
}

func (s *PostgresStore) SaveHistory(history map[string][]models.SettlementRecord) error {
    tx, err := s.db.Begin()
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.Exec(`DELETE FROM settlement_history`); err != nil {
        return err
    }
    for id, records := range history {
        for position, rec := range records {
            _, err := tx.Exec(`
                INSERT INTO settlement_history (transaction_id, position, amount, date, payment_type)
                VALUES ($1, $2, $3, $4, $5)
            `, id, position, rec.Amount, rec.Date, rec.PaymentType)
            if err != nil {
                return err
            }
        }
    }
    return tx.Commit()
}
