package ledger

import (
    "errors"
    "testing"
    "time"

    "hospital-admin-service/models"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newTestLedger() (*Ledger, *MemStore) {
    store := NewMemStore()
    return New(store), store
}

func createPurchase(t *testing.T, l *Ledger, quantity int64, rate int64) models.Transaction {
    t.Helper()
    txn, err := l.CreateTransaction(CreateInput{
        ProductName: "Paracetamol 500mg",
        Category:    "Tablet",
        Supplier:    "MedSupply Co",
        Quantity:    quantity,
        Rate:        decimal.NewFromInt(rate),
    })
    require.NoError(t, err)
    return txn
}

func TestCreateTransaction(t *testing.T) {
    l, store := newTestLedger()

    txn := createPurchase(t, l, 10, 50)

    assert.NotEmpty(t, txn.ID)
    assert.Equal(t, models.TransactionPending, txn.Status)
    assert.Equal(t, "", txn.PaymentType)
    assert.Equal(t, "500", txn.PurchaseAmount().String())

    // Absence, not zero, is the initial settlement state.
    _, hasTotal := store.Totals[txn.ID]
    assert.False(t, hasTotal)
    _, hasHistory := store.History[txn.ID]
    assert.False(t, hasHistory)
}

func TestCreateTransactionValidation(t *testing.T) {
    l, store := newTestLedger()

    tests := []struct {
        name  string
        input CreateInput
        field string
    }{
        {"missing product name", CreateInput{Quantity: 1, Rate: decimal.NewFromInt(10)}, "product_name"},
        {"zero quantity", CreateInput{ProductName: "Ibuprofen", Quantity: 0, Rate: decimal.NewFromInt(10)}, "quantity"},
        {"negative quantity", CreateInput{ProductName: "Ibuprofen", Quantity: -5, Rate: decimal.NewFromInt(10)}, "quantity"},
        {"zero rate", CreateInput{ProductName: "Ibuprofen", Quantity: 5, Rate: decimal.Zero}, "rate"},
        {"negative rate", CreateInput{ProductName: "Ibuprofen", Quantity: 5, Rate: decimal.NewFromInt(-3)}, "rate"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := l.CreateTransaction(tt.input)
            var verr *ValidationError
            require.ErrorAs(t, err, &verr)
            assert.Equal(t, tt.field, verr.Field)
        })
    }

    // Store untouched on every rejection.
    assert.Empty(t, store.Transactions)
}

func TestRecordPaymentClampLaw(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 100) // purchase amount 1000

    store.Totals[txn.ID] = decimal.NewFromInt(800)

    res, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(500))
    require.NoError(t, err)

    assert.True(t, res.Clamped)
    assert.Equal(t, "1000", res.Total.String())
    assert.Equal(t, "0", res.Balance.String())
    assert.Equal(t, "200", res.Applied.String())

    // The history record carries the applied amount, not the requested one.
    require.Len(t, store.History[txn.ID], 1)
    assert.Equal(t, "200", store.History[txn.ID][0].Amount.String())
}

func TestRecordPaymentMetadataOnly(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 100)

    date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
    res, err := l.RecordPayment(txn.ID, date, "UPI", models.TransactionCompleted, decimal.Zero)
    require.NoError(t, err)

    assert.False(t, res.Clamped)
    assert.Equal(t, "0", res.Total.String())
    assert.Equal(t, "1000", res.Balance.String())

    updated := store.Transactions[0]
    assert.Equal(t, models.TransactionCompleted, updated.Status)
    assert.Equal(t, "UPI", updated.PaymentType)
    assert.True(t, date.Equal(updated.CreatedDate))

    assert.Empty(t, store.History[txn.ID])
    _, hasTotal := store.Totals[txn.ID]
    assert.False(t, hasTotal)
}

func TestRecordPaymentNegativeCoercesToZero(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 2, 50)

    res, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(-75))
    require.NoError(t, err)

    assert.Equal(t, "0", res.Total.String())
    assert.Equal(t, "100", res.Balance.String())
    assert.Empty(t, store.History[txn.ID])
}

func TestRecordPaymentUnknownTransaction(t *testing.T) {
    l, _ := newTestLedger()

    _, err := l.RecordPayment("no-such-id", time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(10))
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "transaction_id", verr.Field)
}

func TestRecordPaymentInvalidStatus(t *testing.T) {
    l, _ := newTestLedger()
    txn := createPurchase(t, l, 1, 10)

    _, err := l.RecordPayment(txn.ID, time.Now(), "cash", "shipped", decimal.NewFromInt(5))
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "status", verr.Field)
}

func TestDeleteSettlementRecordSelfHeal(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 100)

    store.History[txn.ID] = []models.SettlementRecord{
        {Amount: decimal.NewFromInt(300), Date: time.Now(), PaymentType: "cash"},
        {Amount: decimal.NewFromInt(200), Date: time.Now(), PaymentType: "card"},
    }
    // Total deliberately out of sync with history.
    store.Totals[txn.ID] = decimal.NewFromInt(600)

    err := l.DeleteSettlementRecord(txn.ID, 0)
    require.NoError(t, err)

    // Recomputed from surviving history, not decremented: 600-300 would
    // leave 300, the sum of what remains is 200.
    assert.Equal(t, "200", store.Totals[txn.ID].String())
    require.Len(t, store.History[txn.ID], 1)
    assert.Equal(t, "200", store.History[txn.ID][0].Amount.String())
    assert.Equal(t, "card", store.History[txn.ID][0].PaymentType)
}

func TestDeleteSettlementRecordOutOfRange(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 100)

    store.History[txn.ID] = []models.SettlementRecord{
        {Amount: decimal.NewFromInt(300)},
        {Amount: decimal.NewFromInt(200)},
    }
    store.Totals[txn.ID] = decimal.NewFromInt(500)

    for _, index := range []int{-1, 2, 99} {
        err := l.DeleteSettlementRecord(txn.ID, index)
        var oor *OutOfRangeError
        require.ErrorAs(t, err, &oor)
        assert.Equal(t, index, oor.Index)
        assert.Equal(t, 2, oor.Length)
    }

    // No mutation on rejection.
    assert.Len(t, store.History[txn.ID], 2)
    assert.Equal(t, "500", store.Totals[txn.ID].String())
}

func TestDeleteLastSettlementRecordClearsEntries(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 1, 100)

    _, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(40))
    require.NoError(t, err)

    require.NoError(t, l.DeleteSettlementRecord(txn.ID, 0))

    _, hasTotal := store.Totals[txn.ID]
    assert.False(t, hasTotal)
    _, hasHistory := store.History[txn.ID]
    assert.False(t, hasHistory)
}

// The core invariant: 0 <= settlement_total <= purchase_amount after every
// payment and every history delete.
func TestInvariantHeldAcrossMutations(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 100)

    checkInvariant := func() {
        t.Helper()
        total := store.Totals[txn.ID]
        assert.False(t, total.IsNegative())
        assert.True(t, total.LessThanOrEqual(txn.PurchaseAmount()))
    }

    amounts := []int64{250, 400, 900, 50, 1}
    for _, a := range amounts {
        _, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(a))
        require.NoError(t, err)
        checkInvariant()
    }

    for len(store.History[txn.ID]) > 0 {
        require.NoError(t, l.DeleteSettlementRecord(txn.ID, 0))
        checkInvariant()
    }
}

func TestSummaryIdempotent(t *testing.T) {
    l, _ := newTestLedger()
    txn := createPurchase(t, l, 10, 100)
    createPurchase(t, l, 3, 40)

    _, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(250))
    require.NoError(t, err)

    first, err := l.ComputeSummary()
    require.NoError(t, err)
    second, err := l.ComputeSummary()
    require.NoError(t, err)

    assert.Equal(t, first.TotalPurchase.String(), second.TotalPurchase.String())
    assert.Equal(t, first.TotalSettlement.String(), second.TotalSettlement.String())
    assert.Equal(t, first.TotalBalance.String(), second.TotalBalance.String())
}

func TestSummaryTreatsMissingTotalsAsZero(t *testing.T) {
    transactions := []models.Transaction{
        {ID: "a", Quantity: 2, Rate: decimal.NewFromInt(100)},
        {ID: "b", Quantity: 1, Rate: decimal.NewFromInt(50)},
    }
    totals := map[string]decimal.Decimal{"a": decimal.NewFromInt(120)}

    s := Summarize(transactions, totals)
    assert.Equal(t, "250", s.TotalPurchase.String())
    assert.Equal(t, "120", s.TotalSettlement.String())
    assert.Equal(t, "130", s.TotalBalance.String())
}

func TestEndToEndScenario(t *testing.T) {
    l, _ := newTestLedger()

    txn := createPurchase(t, l, 10, 50)
    assert.Equal(t, "500", txn.PurchaseAmount().String())

    res, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(200))
    require.NoError(t, err)
    assert.False(t, res.Clamped)
    assert.Equal(t, "200", res.Total.String())
    assert.Equal(t, "300", res.Balance.String())

    res, err = l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(400))
    require.NoError(t, err)
    assert.True(t, res.Clamped)
    assert.Equal(t, "500", res.Total.String())
    assert.Equal(t, "0", res.Balance.String())

    s, err := l.ComputeSummary()
    require.NoError(t, err)
    assert.Equal(t, "500", s.TotalPurchase.String())
    assert.Equal(t, "500", s.TotalSettlement.String())
    assert.Equal(t, "0", s.TotalBalance.String())
}

func TestStoreFailureSurfacesAsStoreError(t *testing.T) {
    l, store := newTestLedger()
    txn := createPurchase(t, l, 10, 50)

    boom := errors.New("connection refused")
    store.SaveTransactionsError = boom

    _, err := l.RecordPayment(txn.ID, time.Now(), "cash", models.TransactionPending, decimal.NewFromInt(100))
    var serr *StoreError
    require.ErrorAs(t, err, &serr)
    assert.ErrorIs(t, err, boom)
}
