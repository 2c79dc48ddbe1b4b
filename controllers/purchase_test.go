package controllers

import (
    "bytes"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "hospital-admin-service/ledger"
    "hospital-admin-service/models"

    "github.com/gin-gonic/gin"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setupPurchaseRouter(store *ledger.MemStore) *gin.Engine {
    gin.SetMode(gin.TestMode)
    Purchases = ledger.New(store)

    r := gin.New()
    r.POST("/purchases", CreatePurchase)
    r.GET("/purchases", GetPurchases)
    r.GET("/purchases/summary", GetPurchaseSummary)
    r.GET("/purchases/export", ExportPurchases)
    r.GET("/purchases/:id", GetPurchase)
    r.PUT("/purchases/:id/payments", RecordPurchasePayment)
    r.GET("/purchases/:id/payments", GetPurchasePayments)
    r.DELETE("/purchases/:id/payments/:index", DeletePurchasePayment)
    return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
    t.Helper()
    var reader *bytes.Reader
    if body != nil {
        data, err := json.Marshal(body)
        require.NoError(t, err)
        reader = bytes.NewReader(data)
    } else {
        reader = bytes.NewReader(nil)
    }

    req := httptest.NewRequest(method, path, reader)
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    return w
}

func TestCreatePurchaseEndpoint(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    w := doJSON(t, r, "POST", "/purchases", gin.H{
        "product_name": "Amoxicillin 250mg",
        "category":     "Capsule",
        "supplier":     "PharmaDist",
        "quantity":     10,
        "rate":         50,
    })
    require.Equal(t, http.StatusCreated, w.Code)

    var resp struct {
        Transaction    models.Transaction `json:"transaction"`
        PurchaseAmount decimal.Decimal    `json:"purchase_amount"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.NotEmpty(t, resp.Transaction.ID)
    assert.Equal(t, models.TransactionPending, resp.Transaction.Status)
    assert.Equal(t, "500", resp.PurchaseAmount.String())
}

func TestCreatePurchaseRejectsZeroQuantity(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    w := doJSON(t, r, "POST", "/purchases", gin.H{
        "product_name": "Amoxicillin 250mg",
        "quantity":     0,
        "rate":         50,
    })
    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.Contains(t, w.Body.String(), "quantity")
    assert.Empty(t, store.Transactions)
}

func TestGetPurchasesEmptyBook(t *testing.T) {
    r := setupPurchaseRouter(ledger.NewMemStore())

    w := doJSON(t, r, "GET", "/purchases", nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Body.String(), `"purchases":[]`)
}

func TestRecordPaymentEndpointClamp(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    txn, err := Purchases.CreateTransaction(ledger.CreateInput{
        ProductName: "Insulin",
        Quantity:    10,
        Rate:        decimal.NewFromInt(100),
    })
    require.NoError(t, err)
    store.Totals[txn.ID] = decimal.NewFromInt(800)

    w := doJSON(t, r, "PUT", "/purchases/"+txn.ID+"/payments", gin.H{
        "date":         "2025-01-01",
        "payment_type": "cash",
        "status":       "pending",
        "amount":       500,
    })
    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        Total   decimal.Decimal `json:"total"`
        Balance decimal.Decimal `json:"balance"`
        Clamped bool            `json:"clamped"`
        Warning string          `json:"warning"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.True(t, resp.Clamped)
    assert.Equal(t, "1000", resp.Total.String())
    assert.Equal(t, "0", resp.Balance.String())
    assert.NotEmpty(t, resp.Warning)
}

func TestRecordPaymentUnknownPurchase(t *testing.T) {
    r := setupPurchaseRouter(ledger.NewMemStore())

    w := doJSON(t, r, "PUT", "/purchases/missing/payments", gin.H{
        "date":         "2025-01-01",
        "payment_type": "cash",
        "status":       "pending",
        "amount":       100,
    })
    assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePaymentEndpointOutOfRange(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    txn, err := Purchases.CreateTransaction(ledger.CreateInput{
        ProductName: "Insulin",
        Quantity:    2,
        Rate:        decimal.NewFromInt(100),
    })
    require.NoError(t, err)
    store.History[txn.ID] = []models.SettlementRecord{
        {Amount: decimal.NewFromInt(50)},
    }
    store.Totals[txn.ID] = decimal.NewFromInt(50)

    w := doJSON(t, r, "DELETE", "/purchases/"+txn.ID+"/payments/99", nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.Contains(t, w.Body.String(), "INDEX_OUT_OF_RANGE")

    // Nothing changed
    assert.Len(t, store.History[txn.ID], 1)
    assert.Equal(t, "50", store.Totals[txn.ID].String())
}

func TestPurchaseSummaryEndpoint(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    txn, err := Purchases.CreateTransaction(ledger.CreateInput{
        ProductName: "Bandages",
        Quantity:    10,
        Rate:        decimal.NewFromInt(50),
    })
    require.NoError(t, err)
    store.Totals[txn.ID] = decimal.NewFromInt(200)

    w := doJSON(t, r, "GET", "/purchases/summary", nil)
    require.Equal(t, http.StatusOK, w.Code)

    var resp ledger.Summary
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.Equal(t, "500", resp.TotalPurchase.String())
    assert.Equal(t, "200", resp.TotalSettlement.String())
    assert.Equal(t, "300", resp.TotalBalance.String())
}

func TestExportPurchasesCSV(t *testing.T) {
    store := ledger.NewMemStore()
    r := setupPurchaseRouter(store)

    _, err := Purchases.CreateTransaction(ledger.CreateInput{
        ProductName: "Syringes",
        Category:    "Consumable",
        Supplier:    "MedSupply Co",
        Quantity:    100,
        Rate:        decimal.NewFromInt(2),
    })
    require.NoError(t, err)

    w := doJSON(t, r, "GET", "/purchases/export", nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
    assert.Contains(t, w.Body.String(), "Syringes")
    assert.Contains(t, w.Body.String(), "200") // purchase amount column
}
