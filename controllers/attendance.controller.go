package controllers

import (
    "net/http"
    "strconv"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
)

type MarkAttendanceInput struct {
    StaffID string  `json:"staff_id" binding:"required,uuid"`
    Date    string  `json:"date" binding:"required,datetime=2006-01-02"`
    Status  string  `json:"status" binding:"required,oneof=present absent half_day leave"`
    Note    *string `json:"note" binding:"omitempty,max=255"`
}

func MarkAttendance(c *gin.Context) {
    var input MarkAttendanceInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    date, err := time.Parse("2006-01-02", input.Date)
    if err != nil {
        security.SendValidationError(c, "Invalid date", "Use YYYY-MM-DD")
        return
    }

    var staffExists bool
    err = config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM staff WHERE id=$1 AND is_active=true)`, input.StaffID).Scan(&staffExists)
    if err != nil {
        security.SendDatabaseError(c, "Failed to validate staff member")
        return
    }
    if !staffExists {
        security.SendNotFoundError(c, "staff member")
        return
    }

    // One entry per staff member per day
    var exists bool
    err = config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM attendance WHERE staff_id=$1 AND date=$2)`, input.StaffID, date).Scan(&exists)
    if err == nil && exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Attendance already marked for this date"})
        return
    }

    var attendanceID string
    err = config.DB.QueryRow(`
        INSERT INTO attendance (staff_id, date, status, note)
        VALUES ($1, $2, $3, $4) RETURNING id
    `, input.StaffID, date, input.Status, input.Note).Scan(&attendanceID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to mark attendance")
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "attendance_id": attendanceID,
        "message":       "Attendance marked successfully",
    })
}

type UpdateAttendanceInput struct {
    Status string  `json:"status" binding:"required,oneof=present absent half_day leave"`
    Note   *string `json:"note" binding:"omitempty,max=255"`
}

func UpdateAttendance(c *gin.Context) {
    attendanceID := c.Param("id")
    var input UpdateAttendanceInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    result, err := config.DB.Exec(`UPDATE attendance SET status = $1, note = $2 WHERE id = $3`,
        input.Status, input.Note, attendanceID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update attendance")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "attendance entry")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Attendance updated successfully"})
}

func GetAttendanceByDate(c *gin.Context) {
    dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
    date, err := time.Parse("2006-01-02", dateStr)
    if err != nil {
        security.SendValidationError(c, "Invalid date", "Use YYYY-MM-DD")
        return
    }

    rows, err := config.DB.Query(`
        SELECT a.id, a.staff_id, a.date, a.status, a.note, a.created_at,
               s.first_name, s.last_name, s.position
        FROM attendance a
        JOIN staff s ON s.id = a.staff_id
        WHERE a.date = $1
        ORDER BY s.first_name, s.last_name
    `, date)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch attendance")
        return
    }
    defer rows.Close()

    var entries []gin.H
    for rows.Next() {
        var entry models.Attendance
        var firstName, lastName, position string
        err := rows.Scan(&entry.ID, &entry.StaffID, &entry.Date, &entry.Status, &entry.Note, &entry.CreatedAt,
            &firstName, &lastName, &position)
        if err != nil {
            continue
        }
        entries = append(entries, gin.H{
            "attendance": entry,
            "staff": gin.H{
                "first_name": firstName,
                "last_name":  lastName,
                "position":   position,
            },
        })
    }

    c.JSON(http.StatusOK, gin.H{"date": dateStr, "entries": entries})
}

// GetMonthlyAttendanceReport returns per-status counts for one staff member
// over a month.
func GetMonthlyAttendanceReport(c *gin.Context) {
    staffID := c.Param("staff_id")

    month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(time.Now().Month()))))
    if err != nil || month < 1 || month > 12 {
        security.SendValidationError(c, "Invalid month", "Month must be between 1 and 12")
        return
    }
    year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
    if err != nil {
        security.SendValidationError(c, "Invalid year", nil)
        return
    }

    var present, absent, halfDay, leave int
    err = config.DB.QueryRow(`
        SELECT
            COUNT(CASE WHEN status = 'present' THEN 1 END),
            COUNT(CASE WHEN status = 'absent' THEN 1 END),
            COUNT(CASE WHEN status = 'half_day' THEN 1 END),
            COUNT(CASE WHEN status = 'leave' THEN 1 END)
        FROM attendance
        WHERE staff_id = $1
        AND EXTRACT(MONTH FROM date) = $2
        AND EXTRACT(YEAR FROM date) = $3
    `, staffID, month, year).Scan(&present, &absent, &halfDay, &leave)
    if err != nil {
        security.SendDatabaseError(c, "Failed to build attendance report")
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "staff_id": staffID,
        "month":    month,
        "year":     year,
        "report": gin.H{
            "present":  present,
            "absent":   absent,
            "half_day": halfDay,
            "leave":    leave,
            "total":    present + absent + halfDay + leave,
        },
    })
}
