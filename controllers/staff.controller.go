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

type CreateStaffInput struct {
    FirstName     string  `json:"first_name" binding:"required,min=2,max=50"`
    LastName      string  `json:"last_name" binding:"required,min=2,max=50"`
    Email         *string `json:"email" binding:"omitempty,email"`
    Phone         *string `json:"phone" binding:"omitempty"`
    StaffCode     *string `json:"staff_code" binding:"omitempty,max=20"`
    Position      string  `json:"position" binding:"required,max=100"`
    MonthlySalary float64 `json:"monthly_salary" binding:"required,gt=0"`
    JoiningDate   *string `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`
}

func CreateStaff(c *gin.Context) {
    var input CreateStaffInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    if input.StaffCode != nil && *input.StaffCode != "" {
        var exists bool
        err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM staff WHERE staff_code=$1)`, *input.StaffCode).Scan(&exists)
        if err == nil && exists {
            c.JSON(http.StatusConflict, gin.H{"error": "Staff code already exists"})
            return
        }
    }

    var joiningDate *time.Time
    if input.JoiningDate != nil {
        parsed, err := time.Parse("2006-01-02", *input.JoiningDate)
        if err != nil {
            security.SendValidationError(c, "Invalid joining date", "Use YYYY-MM-DD")
            return
        }
        joiningDate = &parsed
    }

    salary := decimal.NewFromFloat(input.MonthlySalary)

    var staffID string
    err := config.DB.QueryRow(`
        INSERT INTO staff (first_name, last_name, email, phone, staff_code, position, monthly_salary, joining_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id
    `, input.FirstName, input.LastName, input.Email, input.Phone, input.StaffCode,
        input.Position, salary, joiningDate).Scan(&staffID)

    if err != nil {
        security.SendDatabaseError(c, "Failed to create staff member")
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "staff_id": staffID,
        "message":  "Staff member registered successfully",
    })
}

func GetStaff(c *gin.Context) {
    position := c.Query("position")

    query := `
        SELECT id, first_name, last_name, email, phone, staff_code, position,
               monthly_salary, joining_date, is_active, created_at
        FROM staff
        WHERE is_active = true
    `
    var args []interface{}
    if position != "" {
        query += " AND position = $1"
        args = append(args, position)
    }
    query += " ORDER BY created_at DESC"

    rows, err := config.DB.Query(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch staff")
        return
    }
    defer rows.Close()

    var staff []models.Staff
    for rows.Next() {
        var member models.Staff
        err := rows.Scan(&member.ID, &member.FirstName, &member.LastName, &member.Email, &member.Phone,
            &member.StaffCode, &member.Position, &member.MonthlySalary, &member.JoiningDate,
            &member.IsActive, &member.CreatedAt)
        if err != nil {
            continue
        }
        staff = append(staff, member)
    }

    c.JSON(http.StatusOK, gin.H{"staff": staff})
}

func GetStaffMember(c *gin.Context) {
    staffID := c.Param("id")

    var member models.Staff
    err := config.DB.QueryRow(`
        SELECT id, first_name, last_name, email, phone, staff_code, position,
               monthly_salary, joining_date, is_active, created_at
        FROM staff
        WHERE id = $1
    `, staffID).Scan(&member.ID, &member.FirstName, &member.LastName, &member.Email, &member.Phone,
        &member.StaffCode, &member.Position, &member.MonthlySalary, &member.JoiningDate,
        &member.IsActive, &member.CreatedAt)

    if err != nil {
        security.SendNotFoundError(c, "staff member")
        return
    }

    c.JSON(http.StatusOK, gin.H{"staff": member})
}

type UpdateStaffInput struct {
    FirstName     *string  `json:"first_name" binding:"omitempty,min=2,max=50"`
    LastName      *string  `json:"last_name" binding:"omitempty,min=2,max=50"`
    Email         *string  `json:"email" binding:"omitempty,email"`
    Phone         *string  `json:"phone"`
    Position      *string  `json:"position" binding:"omitempty,max=100"`
    MonthlySalary *float64 `json:"monthly_salary" binding:"omitempty,gt=0"`
    IsActive      *bool    `json:"is_active"`
}

func UpdateStaff(c *gin.Context) {
    staffID := c.Param("id")
    var input UpdateStaffInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    query := "UPDATE staff SET "
    args := []interface{}{}
    argIndex := 1

    if input.FirstName != nil {
        query += "first_name = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.FirstName)
        argIndex++
    }
    if input.LastName != nil {
        query += "last_name = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.LastName)
        argIndex++
    }
    if input.Email != nil {
        query += "email = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.Email)
        argIndex++
    }
    if input.Phone != nil {
        query += "phone = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.Phone)
        argIndex++
    }
    if input.Position != nil {
        query += "position = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.Position)
        argIndex++
    }
    if input.MonthlySalary != nil {
        query += "monthly_salary = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, decimal.NewFromFloat(*input.MonthlySalary))
        argIndex++
    }
    if input.IsActive != nil {
        query += "is_active = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.IsActive)
        argIndex++
    }

    if len(args) == 0 {
        security.SendValidationError(c, "No fields to update", nil)
        return
    }

    query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(argIndex)
    args = append(args, staffID)

    result, err := config.DB.Exec(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update staff member")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "staff member")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Staff member updated successfully"})
}

func DeleteStaff(c *gin.Context) {
    staffID := c.Param("id")

    result, err := config.DB.Exec(`UPDATE staff SET is_active = false WHERE id = $1`, staffID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to deactivate staff member")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "staff member")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Staff member moved to recycle bin"})
}
