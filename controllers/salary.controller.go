package controllers

import (
    "net/http"
    "strconv"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
    "github.com/shopspring/decimal"
)

type CreateSalaryRecordInput struct {
    StaffID string `json:"staff_id" binding:"required,uuid"`
    Month   int    `json:"month" binding:"required,min=1,max=12"`
    Year    int    `json:"year" binding:"required,min=2000,max=2100"`
}

// CreateSalaryRecord opens the salary book for one staff member and month;
// the payable amount is the staff member's current monthly salary.
func CreateSalaryRecord(c *gin.Context) {
    var input CreateSalaryRecordInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    var salary decimal.Decimal
    err := config.DB.QueryRow(`SELECT monthly_salary FROM staff WHERE id=$1 AND is_active=true`, input.StaffID).Scan(&salary)
    if err != nil {
        security.SendNotFoundError(c, "staff member")
        return
    }

    var exists bool
    err = config.DB.QueryRow(`
        SELECT EXISTS(SELECT 1 FROM salary_records WHERE staff_id=$1 AND month=$2 AND year=$3 AND is_active=true)
    `, input.StaffID, input.Month, input.Year).Scan(&exists)
    if err == nil && exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Salary record already exists for this month"})
        return
    }

    var recordID string
    err = config.DB.QueryRow(`
        INSERT INTO salary_records (staff_id, month, year, salary_amount, status)
        VALUES ($1, $2, $3, $4, 'pending') RETURNING id
    `, input.StaffID, input.Month, input.Year, salary).Scan(&recordID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to create salary record")
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "salary_id": recordID,
        "message":   "Salary record created successfully",
    })
}

// salaryPaidTotal recomputes the paid amount as the sum of the surviving
// payments. Deleting a payment must never be compensated by subtraction, or
// any drift between the record and its payments would persist.
func salaryPaidTotal(salaryID string) (decimal.Decimal, error) {
    var paid decimal.Decimal
    err := config.DB.QueryRow(`
        SELECT COALESCE(SUM(amount), 0) FROM salary_payments WHERE salary_id = $1
    `, salaryID).Scan(&paid)
    return paid, err
}

func GetSalaryRecords(c *gin.Context) {
    month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(time.Now().Month()))))
    year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))

    rows, err := config.DB.Query(`
        SELECT r.id, r.staff_id, r.month, r.year, r.salary_amount, r.status, r.is_active, r.created_at,
               s.first_name, s.last_name, s.position,
               COALESCE((SELECT SUM(p.amount) FROM salary_payments p WHERE p.salary_id = r.id), 0) AS paid
        FROM salary_records r
        JOIN staff s ON s.id = r.staff_id
        WHERE r.month = $1 AND r.year = $2 AND r.is_active = true
        ORDER BY s.first_name, s.last_name
    `, month, year)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch salary records")
        return
    }
    defer rows.Close()

    var records []gin.H
    for rows.Next() {
        var record models.SalaryRecord
        var firstName, lastName, position string
        var paid decimal.Decimal
        err := rows.Scan(&record.ID, &record.StaffID, &record.Month, &record.Year, &record.SalaryAmount,
            &record.Status, &record.IsActive, &record.CreatedAt, &firstName, &lastName, &position, &paid)
        if err != nil {
            continue
        }
        records = append(records, gin.H{
            "salary":  record,
            "paid":    paid,
            "balance": record.SalaryAmount.Sub(paid),
            "staff": gin.H{
                "first_name": firstName,
                "last_name":  lastName,
                "position":   position,
            },
        })
    }

    c.JSON(http.StatusOK, gin.H{"month": month, "year": year, "records": records})
}

type AddSalaryPaymentInput struct {
    Amount      float64 `json:"amount"`
    Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
    PaymentType string  `json:"payment_type" binding:"required,max=50"`
    Status      string  `json:"status" binding:"required,oneof=pending completed cancelled"`
}

// AddSalaryPayment applies a payment against a salary record. The amount is
// clamped so the paid total never exceeds the salary amount; the clamp is
// reported, not treated as a failure. A zero amount is a status-only edit.
func AddSalaryPayment(c *gin.Context) {
    salaryID := c.Param("id")
    var input AddSalaryPaymentInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    date, err := time.Parse("2006-01-02", input.Date)
    if err != nil {
        security.SendValidationError(c, "Invalid date", "Use YYYY-MM-DD")
        return
    }

    var salaryAmount decimal.Decimal
    err = config.DB.QueryRow(`SELECT salary_amount FROM salary_records WHERE id=$1 AND is_active=true`, salaryID).Scan(&salaryAmount)
    if err != nil {
        security.SendNotFoundError(c, "salary record")
        return
    }

    paid, err := salaryPaidTotal(salaryID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to compute paid total")
        return
    }

    amount := decimal.NewFromFloat(input.Amount)
    if amount.IsNegative() {
        amount = decimal.Zero
    }

    clamped := false
    if paid.Add(amount).GreaterThan(salaryAmount) {
        amount = salaryAmount.Sub(paid)
        clamped = true
    }

    if amount.IsPositive() {
        _, err = config.DB.Exec(`
            INSERT INTO salary_payments (salary_id, amount, payment_date, payment_type)
            VALUES ($1, $2, $3, $4)
        `, salaryID, amount, date, input.PaymentType)
        if err != nil {
            security.SendDatabaseError(c, "Failed to record payment")
            return
        }
    }

    _, err = config.DB.Exec(`UPDATE salary_records SET status = $1 WHERE id = $2`, input.Status, salaryID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update salary status")
        return
    }

    newPaid := paid.Add(amount)
    response := gin.H{
        "paid":    newPaid,
        "balance": salaryAmount.Sub(newPaid),
        "applied": amount,
        "clamped": clamped,
    }
    if clamped {
        response["warning"] = "Requested amount exceeded the remaining balance and was truncated"
    }

    c.JSON(http.StatusOK, response)
}

func GetSalaryPayments(c *gin.Context) {
    salaryID := c.Param("id")

    rows, err := config.DB.Query(`
        SELECT id, salary_id, amount, payment_date, payment_type, created_at
        FROM salary_payments
        WHERE salary_id = $1
        ORDER BY created_at, id
    `, salaryID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch payments")
        return
    }
    defer rows.Close()

    payments := []models.SalaryPayment{}
    for rows.Next() {
        var payment models.SalaryPayment
        err := rows.Scan(&payment.ID, &payment.SalaryID, &payment.Amount, &payment.PaymentDate,
            &payment.PaymentType, &payment.CreatedAt)
        if err != nil {
            continue
        }
        payments = append(payments, payment)
    }

    c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// DeleteSalaryPayment removes one payment and returns the recomputed totals.
func DeleteSalaryPayment(c *gin.Context) {
    paymentID := c.Param("payment_id")

    var salaryID string
    err := config.DB.QueryRow(`SELECT salary_id FROM salary_payments WHERE id=$1`, paymentID).Scan(&salaryID)
    if err != nil {
        security.SendNotFoundError(c, "salary payment")
        return
    }

    _, err = config.DB.Exec(`DELETE FROM salary_payments WHERE id = $1`, paymentID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to delete payment")
        return
    }

    var salaryAmount decimal.Decimal
    err = config.DB.QueryRow(`SELECT salary_amount FROM salary_records WHERE id=$1`, salaryID).Scan(&salaryAmount)
    if err != nil {
        security.SendDatabaseError(c, "Failed to load salary record")
        return
    }

    paid, err := salaryPaidTotal(salaryID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to recompute paid total")
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "message": "Payment deleted and total recomputed",
        "paid":    paid,
        "balance": salaryAmount.Sub(paid),
    })
}
