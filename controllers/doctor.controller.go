package controllers

import (
    "net/http"
    "strconv"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"
)

type CreateDoctorInput struct {
    FirstName       string   `json:"first_name" binding:"required,min=2,max=50"`
    LastName        string   `json:"last_name" binding:"required,min=2,max=50"`
    Email           *string  `json:"email" binding:"omitempty,email"`
    Phone           *string  `json:"phone" binding:"omitempty"`
    DoctorCode      *string  `json:"doctor_code" binding:"omitempty,max=20"`
    Specialization  *string  `json:"specialization" binding:"omitempty,max=100"`
    LicenseNumber   *string  `json:"license_number" binding:"omitempty,max=100"`
    ConsultationFee *float64 `json:"consultation_fee" binding:"omitempty,min=0"`
    JoiningDate     *string  `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`

    // Optional login account created in the same call
    Username *string `json:"username" binding:"omitempty,min=3,max=30"`
    Password *string `json:"password" binding:"omitempty,min=8"`
    Role     *string `json:"role" binding:"omitempty,oneof=super_admin admin accountant hr"`
}

func CreateDoctor(c *gin.Context) {
    var input CreateDoctorInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    if input.Username != nil && input.Password == nil {
        security.SendValidationError(c, "Password is required when creating a login account", nil)
        return
    }

    // Ensure doctor_code unique
    if input.DoctorCode != nil && *input.DoctorCode != "" {
        var exists bool
        err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doctor_code=$1)`, *input.DoctorCode).Scan(&exists)
        if err == nil && exists {
            c.JSON(http.StatusConflict, gin.H{"error": "Doctor code already exists"})
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

    var userID *string
    if input.Username != nil {
        var exists bool
        err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, *input.Username).Scan(&exists)
        if err != nil {
            security.SendDatabaseError(c, "Failed to validate username")
            return
        }
        if exists {
            c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
            return
        }

        passHash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
            return
        }

        role := "admin"
        if input.Role != nil {
            role = *input.Role
        }

        var id string
        err = config.DB.QueryRow(`
            INSERT INTO users (first_name, last_name, email, username, phone, password_hash, role)
            VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id
        `, input.FirstName, input.LastName, input.Email, *input.Username, input.Phone, string(passHash), role).Scan(&id)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create login account"})
            return
        }
        userID = &id
    }

    var doctorID string
    err := config.DB.QueryRow(`
        INSERT INTO doctors (first_name, last_name, email, phone, doctor_code, specialization, license_number, consultation_fee, joining_date, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id
    `, input.FirstName, input.LastName, input.Email, input.Phone, input.DoctorCode,
        input.Specialization, input.LicenseNumber, input.ConsultationFee, joiningDate, userID).Scan(&doctorID)

    if err != nil {
        security.SendDatabaseError(c, "Failed to create doctor")
        return
    }

    response := gin.H{
        "doctor_id": doctorID,
        "message":   "Doctor registered successfully",
    }
    if userID != nil {
        response["user_id"] = *userID
    }
    c.JSON(http.StatusCreated, response)
}

func GetDoctors(c *gin.Context) {
    specialization := c.Query("specialization")

    var query string
    var args []interface{}

    if specialization != "" {
        query = `
            SELECT id, first_name, last_name, email, phone, doctor_code, specialization,
                   license_number, consultation_fee, joining_date, user_id, is_active, created_at
            FROM doctors
            WHERE is_active = true AND specialization = $1
            ORDER BY created_at DESC
        `
        args = []interface{}{specialization}
    } else {
        query = `
            SELECT id, first_name, last_name, email, phone, doctor_code, specialization,
                   license_number, consultation_fee, joining_date, user_id, is_active, created_at
            FROM doctors
            WHERE is_active = true
            ORDER BY created_at DESC
        `
    }

    rows, err := config.DB.Query(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch doctors")
        return
    }
    defer rows.Close()

    var doctors []models.Doctor
    for rows.Next() {
        var doctor models.Doctor
        err := rows.Scan(&doctor.ID, &doctor.FirstName, &doctor.LastName, &doctor.Email, &doctor.Phone,
            &doctor.DoctorCode, &doctor.Specialization, &doctor.LicenseNumber, &doctor.ConsultationFee,
            &doctor.JoiningDate, &doctor.UserID, &doctor.IsActive, &doctor.CreatedAt)
        if err != nil {
            continue
        }
        doctors = append(doctors, doctor)
    }

    c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func GetDoctor(c *gin.Context) {
    doctorID := c.Param("id")

    var doctor models.Doctor
    err := config.DB.QueryRow(`
        SELECT id, first_name, last_name, email, phone, doctor_code, specialization,
               license_number, consultation_fee, joining_date, user_id, is_active, created_at
        FROM doctors
        WHERE id = $1
    `, doctorID).Scan(&doctor.ID, &doctor.FirstName, &doctor.LastName, &doctor.Email, &doctor.Phone,
        &doctor.DoctorCode, &doctor.Specialization, &doctor.LicenseNumber, &doctor.ConsultationFee,
        &doctor.JoiningDate, &doctor.UserID, &doctor.IsActive, &doctor.CreatedAt)

    if err != nil {
        security.SendNotFoundError(c, "doctor")
        return
    }

    c.JSON(http.StatusOK, gin.H{"doctor": doctor})
}

type UpdateDoctorInput struct {
    FirstName       *string  `json:"first_name" binding:"omitempty,min=2,max=50"`
    LastName        *string  `json:"last_name" binding:"omitempty,min=2,max=50"`
    Email           *string  `json:"email" binding:"omitempty,email"`
    Phone           *string  `json:"phone"`
    DoctorCode      *string  `json:"doctor_code" binding:"omitempty,max=20"`
    Specialization  *string  `json:"specialization" binding:"omitempty,max=100"`
    LicenseNumber   *string  `json:"license_number" binding:"omitempty,max=100"`
    ConsultationFee *float64 `json:"consultation_fee" binding:"omitempty,min=0"`
    IsActive        *bool    `json:"is_active"`
}

func UpdateDoctor(c *gin.Context) {
    doctorID := c.Param("id")
    var input UpdateDoctorInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    // Build dynamic update query
    query := "UPDATE doctors SET "
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
    if input.DoctorCode != nil {
        query += "doctor_code = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.DoctorCode)
        argIndex++
    }
    if input.Specialization != nil {
        query += "specialization = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.Specialization)
        argIndex++
    }
    if input.LicenseNumber != nil {
        query += "license_number = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.LicenseNumber)
        argIndex++
    }
    if input.ConsultationFee != nil {
        query += "consultation_fee = $" + strconv.Itoa(argIndex) + ", "
        args = append(args, *input.ConsultationFee)
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

    // Remove trailing comma and add WHERE clause
    query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(argIndex)
    args = append(args, doctorID)

    result, err := config.DB.Exec(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update doctor")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "doctor")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Doctor updated successfully"})
}

func DeleteDoctor(c *gin.Context) {
    doctorID := c.Param("id")

    // Soft delete; the record stays recoverable from the recovery screen
    result, err := config.DB.Exec(`UPDATE doctors SET is_active = false WHERE id = $1`, doctorID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to deactivate doctor")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "doctor")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Doctor moved to recycle bin"})
}
