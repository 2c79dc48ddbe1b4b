package controllers

import (
    "net/http"
    "testing"

    "hospital-admin-service/config"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    config.DB = db
    return mock
}

func TestCreateDoctorWithAccount(t *testing.T) {
    mock := setupMockDB(t)
    gin.SetMode(gin.TestMode)
    r := gin.New()
    r.POST("/doctors", CreateDoctor)

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
        WithArgs("drkumar").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    mock.ExpectQuery(`INSERT INTO users`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
    mock.ExpectQuery(`INSERT INTO doctors`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))

    w := doJSON(t, r, "POST", "/doctors", gin.H{
        "first_name": "Asha",
        "last_name":  "Kumar",
        "username":   "drkumar",
        "password":   "long-enough-pass",
        "role":       "admin",
    })
    require.Equal(t, http.StatusCreated, w.Code)
    assert.Contains(t, w.Body.String(), `"doctor_id":"doc-1"`)
    assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDoctorAccountRequiresPassword(t *testing.T) {
    mock := setupMockDB(t)
    gin.SetMode(gin.TestMode)
    r := gin.New()
    r.POST("/doctors", CreateDoctor)

    w := doJSON(t, r, "POST", "/doctors", gin.H{
        "first_name": "Asha",
        "last_name":  "Kumar",
        "username":   "drkumar",
    })
    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.Contains(t, w.Body.String(), "Password")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDoctorTakenUsername(t *testing.T) {
    mock := setupMockDB(t)
    gin.SetMode(gin.TestMode)
    r := gin.New()
    r.POST("/doctors", CreateDoctor)

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
        WithArgs("drkumar").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    w := doJSON(t, r, "POST", "/doctors", gin.H{
        "first_name": "Asha",
        "last_name":  "Kumar",
        "username":   "drkumar",
        "password":   "long-enough-pass",
    })
    assert.Equal(t, http.StatusConflict, w.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDoctorWithoutAccount(t *testing.T) {
    mock := setupMockDB(t)
    gin.SetMode(gin.TestMode)
    r := gin.New()
    r.POST("/doctors", CreateDoctor)

    mock.ExpectQuery(`INSERT INTO doctors`).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-2"))

    w := doJSON(t, r, "POST", "/doctors", gin.H{
        "first_name": "Asha",
        "last_name":  "Kumar",
    })
    require.Equal(t, http.StatusCreated, w.Code)
    assert.Contains(t, w.Body.String(), `"doctor_id":"doc-2"`)
    assert.NotContains(t, w.Body.String(), "user_id")
    assert.NoError(t, mock.ExpectationsWereMet())
}
