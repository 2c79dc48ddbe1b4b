package models

import (
    "time"

    "github.com/shopspring/decimal"
)

type Doctor struct {
    ID              string     `json:"id" db:"id"`
    FirstName       string     `json:"first_name" db:"first_name"`
    LastName        string     `json:"last_name" db:"last_name"`
    Email           *string    `json:"email" db:"email"`
    Phone           *string    `json:"phone" db:"phone"`
    DoctorCode      *string    `json:"doctor_code" db:"doctor_code"`
    Specialization  *string    `json:"specialization" db:"specialization"`
    LicenseNumber   *string    `json:"license_number" db:"license_number"`
    ConsultationFee *float64   `json:"consultation_fee" db:"consultation_fee"`
    JoiningDate     *time.Time `json:"joining_date" db:"joining_date"`
    UserID          *string    `json:"user_id" db:"user_id"`
    IsActive        bool       `json:"is_active" db:"is_active"`
    CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type Staff struct {
    ID            string          `json:"id" db:"id"`
    FirstName     string          `json:"first_name" db:"first_name"`
    LastName      string          `json:"last_name" db:"last_name"`
    Email         *string         `json:"email" db:"email"`
    Phone         *string         `json:"phone" db:"phone"`
    StaffCode     *string         `json:"staff_code" db:"staff_code"`
    Position      string          `json:"position" db:"position"`
    MonthlySalary decimal.Decimal `json:"monthly_salary" db:"monthly_salary"`
    JoiningDate   *time.Time      `json:"joining_date" db:"joining_date"`
    IsActive      bool            `json:"is_active" db:"is_active"`
    CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type Attendance struct {
    ID        string    `json:"id" db:"id"`
    StaffID   string    `json:"staff_id" db:"staff_id"`
    Date      time.Time `json:"date" db:"date"`
    Status    string    `json:"status" db:"status"`
    Note      *string   `json:"note" db:"note"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attendance statuses
const (
    AttendancePresent = "present"
    AttendanceAbsent  = "absent"
    AttendanceHalfDay = "half_day"
    AttendanceLeave   = "leave"
)

// Lookup is the shared shape of the categories, positions and
// specializations tables.
type Lookup struct {
    ID        string    `json:"id" db:"id"`
    Name      string    `json:"name" db:"name"`
    IsActive  bool      `json:"is_active" db:"is_active"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SalaryRecord struct {
    ID           string          `json:"id" db:"id"`
    StaffID      string          `json:"staff_id" db:"staff_id"`
    Month        int             `json:"month" db:"month"`
    Year         int             `json:"year" db:"year"`
    SalaryAmount decimal.Decimal `json:"salary_amount" db:"salary_amount"`
    Status       string          `json:"status" db:"status"`
    IsActive     bool            `json:"is_active" db:"is_active"`
    CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type SalaryPayment struct {
    ID          string          `json:"id" db:"id"`
    SalaryID    string          `json:"salary_id" db:"salary_id"`
    Amount      decimal.Decimal `json:"amount" db:"amount"`
    PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
    PaymentType string          `json:"payment_type" db:"payment_type"`
    CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
