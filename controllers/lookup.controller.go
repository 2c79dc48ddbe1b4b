package controllers

import (
    "net/http"

    "hospital-admin-service/config"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
)

// lookupTables whitelists the :type route segment to a real table name.
var lookupTables = map[string]string{
    "categories":      "categories",
    "positions":       "positions",
    "specializations": "specializations",
}

func lookupTable(c *gin.Context) (string, bool) {
    table, ok := lookupTables[c.Param("type")]
    if !ok {
        security.SendValidationError(c, "Unknown lookup type",
            "Expected one of: categories, positions, specializations")
        return "", false
    }
    return table, true
}

type LookupInput struct {
    Name string `json:"name" binding:"required,min=2,max=100"`
}

func CreateLookup(c *gin.Context) {
    table, ok := lookupTable(c)
    if !ok {
        return
    }

    var input LookupInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    var exists bool
    err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE LOWER(name)=LOWER($1))`, input.Name).Scan(&exists)
    if err != nil {
        security.SendDatabaseError(c, "Failed to validate name")
        return
    }
    if exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Name already exists"})
        return
    }

    var id string
    err = config.DB.QueryRow(`INSERT INTO `+table+` (name) VALUES ($1) RETURNING id`, input.Name).Scan(&id)
    if err != nil {
        security.SendDatabaseError(c, "Failed to create entry")
        return
    }

    c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Created successfully"})
}

func GetLookups(c *gin.Context) {
    table, ok := lookupTable(c)
    if !ok {
        return
    }

    rows, err := config.DB.Query(`SELECT id, name, is_active, created_at FROM ` + table + ` WHERE is_active = true ORDER BY name`)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch entries")
        return
    }
    defer rows.Close()

    var entries []models.Lookup
    for rows.Next() {
        var entry models.Lookup
        if err := rows.Scan(&entry.ID, &entry.Name, &entry.IsActive, &entry.CreatedAt); err != nil {
            continue
        }
        entries = append(entries, entry)
    }

    c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func UpdateLookup(c *gin.Context) {
    table, ok := lookupTable(c)
    if !ok {
        return
    }

    var input LookupInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    // Renaming to a name another row already holds is the same conflict as
    // creating it
    var exists bool
    err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE LOWER(name)=LOWER($1) AND id <> $2)`,
        input.Name, c.Param("id")).Scan(&exists)
    if err != nil {
        security.SendDatabaseError(c, "Failed to validate name")
        return
    }
    if exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Name already exists"})
        return
    }

    result, err := config.DB.Exec(`UPDATE `+table+` SET name = $1 WHERE id = $2`, input.Name, c.Param("id"))
    if err != nil {
        security.SendDatabaseError(c, "Failed to update entry")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "entry")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

func DeleteLookup(c *gin.Context) {
    table, ok := lookupTable(c)
    if !ok {
        return
    }

    result, err := config.DB.Exec(`UPDATE `+table+` SET is_active = false WHERE id = $1`, c.Param("id"))
    if err != nil {
        security.SendDatabaseError(c, "Failed to delete entry")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "entry")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Moved to recycle bin"})
}
