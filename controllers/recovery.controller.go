package controllers

import (
    "net/http"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
)

// recoverableTables maps the :entity route segment to the tables that use
// soft deletes. Every administrative delete in this service lands here
// until restored or purged.
var recoverableTables = map[string]string{
    "doctors":         "doctors",
    "staff":           "staff",
    "users":           "users",
    "categories":      "categories",
    "positions":       "positions",
    "specializations": "specializations",
    "salaries":        "salary_records",
}

func recoverableTable(c *gin.Context) (string, bool) {
    table, ok := recoverableTables[c.Param("entity")]
    if !ok {
        security.SendValidationError(c, "Unknown entity type",
            "Expected one of: doctors, staff, users, categories, positions, specializations, salaries")
        return "", false
    }
    return table, true
}

// GetDeletedRecords lists the soft-deleted rows of one entity.
func GetDeletedRecords(c *gin.Context) {
    table, ok := recoverableTable(c)
    if !ok {
        return
    }

    rows, err := config.DB.Query(`SELECT id, created_at FROM ` + table + ` WHERE is_active = false ORDER BY created_at DESC`)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch deleted records")
        return
    }
    defer rows.Close()

    var deleted []gin.H
    for rows.Next() {
        var id string
        var createdAt time.Time
        if err := rows.Scan(&id, &createdAt); err != nil {
            continue
        }
        deleted = append(deleted, gin.H{"id": id, "created_at": createdAt})
    }

    c.JSON(http.StatusOK, gin.H{"entity": c.Param("entity"), "deleted": deleted})
}

// RestoreRecord reactivates a soft-deleted row.
func RestoreRecord(c *gin.Context) {
    table, ok := recoverableTable(c)
    if !ok {
        return
    }

    result, err := config.DB.Exec(`UPDATE `+table+` SET is_active = true WHERE id = $1 AND is_active = false`, c.Param("id"))
    if err != nil {
        security.SendDatabaseError(c, "Failed to restore record")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "deleted record")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Record restored successfully"})
}

// PurgeRecord permanently removes a soft-deleted row. Only rows already in
// the recycle bin can be purged.
func PurgeRecord(c *gin.Context) {
    table, ok := recoverableTable(c)
    if !ok {
        return
    }

    result, err := config.DB.Exec(`DELETE FROM `+table+` WHERE id = $1 AND is_active = false`, c.Param("id"))
    if err != nil {
        security.SendDatabaseError(c, "Failed to purge record")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "deleted record")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Record permanently deleted"})
}
