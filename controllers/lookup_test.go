package controllers

import (
    "net/http"
    "testing"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setupLookupRouter() *gin.Engine {
    gin.SetMode(gin.TestMode)
    r := gin.New()
    r.PUT("/lookups/:type/:id", UpdateLookup)
    return r
}

func TestUpdateLookupRejectsDuplicateName(t *testing.T) {
    mock := setupMockDB(t)
    r := setupLookupRouter()

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM categories`).
        WithArgs("Syrup", "cat-1").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    w := doJSON(t, r, "PUT", "/lookups/categories/cat-1", gin.H{"name": "Syrup"})
    assert.Equal(t, http.StatusConflict, w.Code)
    assert.Contains(t, w.Body.String(), "already exists")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLookupRenames(t *testing.T) {
    mock := setupMockDB(t)
    r := setupLookupRouter()

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM categories`).
        WithArgs("Syrup", "cat-1").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    mock.ExpectExec(`UPDATE categories SET name`).
        WithArgs("Syrup", "cat-1").
        WillReturnResult(sqlmock.NewResult(0, 1))

    w := doJSON(t, r, "PUT", "/lookups/categories/cat-1", gin.H{"name": "Syrup"})
    require.Equal(t, http.StatusOK, w.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
