package controllers

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "hospital-admin-service/ledger"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
    "github.com/gocarina/gocsv"
    "github.com/shopspring/decimal"
)

// Purchases is the settlement ledger behind the purchase endpoints. main
// wires it to the Postgres store; handler tests swap in a MemStore.
var Purchases *ledger.Ledger

func sendLedgerError(c *gin.Context, err error) {
    var verr *ledger.ValidationError
    var oor *ledger.OutOfRangeError
    var serr *ledger.StoreError

    switch {
    case errors.As(err, &verr):
        if verr.Reason == "transaction not found" {
            security.SendNotFoundError(c, "purchase transaction")
            return
        }
        security.SendValidationError(c, verr.Error(), gin.H{"field": verr.Field})
    case errors.As(err, &oor):
        security.SendError(c, http.StatusBadRequest, security.CodeOutOfRange, "Invalid payment index",
            err.Error(), gin.H{"index": oor.Index, "length": oor.Length})
    case errors.As(err, &serr):
        security.SendError(c, http.StatusServiceUnavailable, security.CodeStoreError, "Store unavailable",
            "The change was not saved. Reload and try again", nil)
    default:
        security.SendDatabaseError(c, "Unexpected error")
    }
}

type CreatePurchaseInput struct {
    ProductName string  `json:"product_name" binding:"required,max=100"`
    Category    string  `json:"category" binding:"omitempty,max=100"`
    Supplier    string  `json:"supplier" binding:"omitempty,max=100"`
    Quantity    int64   `json:"quantity"`
    Rate        float64 `json:"rate"`
}

func CreatePurchase(c *gin.Context) {
    var input CreatePurchaseInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    txn, err := Purchases.CreateTransaction(ledger.CreateInput{
        ProductName: input.ProductName,
        Category:    input.Category,
        Supplier:    input.Supplier,
        Quantity:    input.Quantity,
        Rate:        decimal.NewFromFloat(input.Rate),
    })
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "transaction":     txn,
        "purchase_amount": txn.PurchaseAmount(),
    })
}

func GetPurchases(c *gin.Context) {
    transactions, err := Purchases.Transactions()
    if err != nil {
        sendLedgerError(c, err)
        return
    }
    totals, err := Purchases.Totals()
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    result := []gin.H{}
    for _, txn := range transactions {
        total := totals[txn.ID]
        result = append(result, gin.H{
            "transaction":     txn,
            "purchase_amount": txn.PurchaseAmount(),
            "settled":         total,
            "balance":         txn.PurchaseAmount().Sub(total),
        })
    }

    c.JSON(http.StatusOK, gin.H{"purchases": result})
}

func GetPurchase(c *gin.Context) {
    txn, total, balance, err := Purchases.Transaction(c.Param("id"))
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "transaction":     txn,
        "purchase_amount": txn.PurchaseAmount(),
        "settled":         total,
        "balance":         balance,
    })
}

type RecordPaymentInput struct {
    Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
    PaymentType string  `json:"payment_type" binding:"required,max=50"`
    Status      string  `json:"status" binding:"required,oneof=pending completed cancelled"`
    Amount      float64 `json:"amount"`
}

func RecordPurchasePayment(c *gin.Context) {
    var input RecordPaymentInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    date, err := time.Parse("2006-01-02", input.Date)
    if err != nil {
        security.SendValidationError(c, "Invalid date", "Use YYYY-MM-DD")
        return
    }

    res, err := Purchases.RecordPayment(c.Param("id"), date, input.PaymentType, input.Status,
        decimal.NewFromFloat(input.Amount))
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    response := gin.H{
        "total":   res.Total,
        "balance": res.Balance,
        "applied": res.Applied,
        "clamped": res.Clamped,
    }
    if res.Clamped {
        response["warning"] = "Requested amount exceeded the remaining balance and was truncated"
    }

    c.JSON(http.StatusOK, response)
}

func GetPurchasePayments(c *gin.Context) {
    records, err := Purchases.History(c.Param("id"))
    if err != nil {
        sendLedgerError(c, err)
        return
    }
    if records == nil {
        records = []models.SettlementRecord{}
    }

    c.JSON(http.StatusOK, gin.H{"payments": records})
}

func DeletePurchasePayment(c *gin.Context) {
    index, err := strconv.Atoi(c.Param("index"))
    if err != nil {
        security.SendValidationError(c, "Invalid payment index", "Index must be an integer")
        return
    }

    if err := Purchases.DeleteSettlementRecord(c.Param("id"), index); err != nil {
        sendLedgerError(c, err)
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Payment deleted and total recomputed"})
}

func GetPurchaseSummary(c *gin.Context) {
    summary, err := Purchases.ComputeSummary()
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    c.JSON(http.StatusOK, summary)
}

type purchaseCSVRow struct {
    ID             string `csv:"id"`
    ProductName    string `csv:"product_name"`
    Category       string `csv:"category"`
    Supplier       string `csv:"supplier"`
    Quantity       int64  `csv:"quantity"`
    Rate           string `csv:"rate"`
    PurchaseAmount string `csv:"purchase_amount"`
    Settled        string `csv:"settled"`
    Balance        string `csv:"balance"`
    Status         string `csv:"status"`
    PaymentType    string `csv:"payment_type"`
    Date           string `csv:"date"`
}

// ExportPurchases streams the purchase book as CSV for the accounts office.
func ExportPurchases(c *gin.Context) {
    transactions, err := Purchases.Transactions()
    if err != nil {
        sendLedgerError(c, err)
        return
    }
    totals, err := Purchases.Totals()
    if err != nil {
        sendLedgerError(c, err)
        return
    }

    rows := make([]purchaseCSVRow, 0, len(transactions))
    for _, txn := range transactions {
        total := totals[txn.ID]
        rows = append(rows, purchaseCSVRow{
            ID:             txn.ID,
            ProductName:    txn.ProductName,
            Category:       txn.Category,
            Supplier:       txn.Supplier,
            Quantity:       txn.Quantity,
            Rate:           txn.Rate.String(),
            PurchaseAmount: txn.PurchaseAmount().String(),
            Settled:        total.String(),
            Balance:        txn.PurchaseAmount().Sub(total).String(),
            Status:         txn.Status,
            PaymentType:    txn.PaymentType,
            Date:           txn.CreatedDate.Format("2006-01-02"),
        })
    }

    c.Header("Content-Type", "text/csv")
    c.Header("Content-Disposition", `attachment; filename="purchases.csv"`)
    if err := gocsv.Marshal(rows, c.Writer); err != nil {
        security.SendError(c, http.StatusInternalServerError, security.CodeDatabaseError, "Export failed",
            "Failed to write CSV export", nil)
    }
}
