package controllers

import (
    "net/http"
    "regexp"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/models"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "golang.org/x/crypto/bcrypt"
)

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
    // Test database connection
    err := config.DB.Ping()
    if err != nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{
            "status": "unhealthy",
            "error":  "Database connection failed",
        })
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "status":    "healthy",
        "service":   "hospital-admin-service",
        "timestamp": time.Now().Unix(),
    })
}

type RegisterInput struct {
    FirstName string `json:"first_name" binding:"required,min=2,max=50"`
    LastName  string `json:"last_name" binding:"required,min=2,max=50"`
    Email     string `json:"email" binding:"omitempty,email"`
    Username  string `json:"username" binding:"required,min=3,max=30"`
    Phone     string `json:"phone" binding:"omitempty"`
    Password  string `json:"password" binding:"required,min=8"`
    Role      string `json:"role" binding:"required,oneof=super_admin admin accountant hr"`
}

func Register(c *gin.Context) {
    var input RegisterInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    if input.Phone != "" {
        phoneRegex := regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
        if !phoneRegex.MatchString(input.Phone) {
            security.SendValidationError(c, "Invalid phone format", "Please provide a valid phone number")
            return
        }
    }

    // Check if username or email already exists
    var exists bool
    err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 OR (email=$2 AND email <> ''))`,
        input.Username, input.Email).Scan(&exists)
    if err != nil {
        security.SendDatabaseError(c, "Failed to validate user")
        return
    }
    if exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
        return
    }

    passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
        return
    }

    var userID string
    err = config.DB.QueryRow(`
        INSERT INTO users (first_name, last_name, email, username, phone, password_hash, role)
        VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id
    `, input.FirstName, input.LastName, input.Email, input.Username, input.Phone, string(passHash), input.Role).Scan(&userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
        return
    }

    user := models.User{
        ID:        userID,
        FirstName: input.FirstName,
        LastName:  input.LastName,
        Email:     &input.Email,
        Username:  input.Username,
        Phone:     &input.Phone,
        Role:      input.Role,
        IsActive:  true,
        CreatedAt: time.Now(),
    }

    c.JSON(http.StatusCreated, gin.H{"user": user})
}

type LoginInput struct {
    Login    string `json:"login" binding:"required"` // username or email
    Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
    var input LoginInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    var user models.User
    err := config.DB.QueryRow(`
        SELECT id, password_hash, first_name, last_name, email, username, phone, role
        FROM users
        WHERE (username = $1 OR email = $1) AND is_active = true
    `, input.Login).Scan(&user.ID, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Email, &user.Username, &user.Phone, &user.Role)
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
        return
    }

    if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
        return
    }

    _, err = config.DB.Exec(`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`, user.ID)
    if err != nil {
        // Log error but don't fail login
        c.Header("X-Warning", "Failed to update last login timestamp")
    }

    accessToken, err := security.SignAccessToken(user.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
        return
    }

    refreshToken, err := security.SignRefreshToken(user.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
        return
    }

    user.IsActive = true
    c.JSON(http.StatusOK, gin.H{
        "user":         user,
        "accessToken":  accessToken,
        "refreshToken": refreshToken,
    })
}

type RefreshInput struct {
    RefreshToken string `json:"refresh_token" binding:"required"`
}

func RefreshToken(c *gin.Context) {
    var input RefreshInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    token, err := security.VerifyRefreshToken(input.RefreshToken)
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
        return
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
        return
    }
    userID, ok := claims["sub"].(string)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
        return
    }

    var exists bool
    err = config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1 AND is_active=true)`, userID).Scan(&exists)
    if err != nil || !exists {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
        return
    }

    accessToken, err := security.SignAccessToken(userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

func GetUsers(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT id, email, username, first_name, last_name, phone, role, is_active, last_login, created_at
        FROM users
        ORDER BY created_at DESC
    `)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch users")
        return
    }
    defer rows.Close()

    var users []models.User
    for rows.Next() {
        var user models.User
        err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
            &user.Phone, &user.Role, &user.IsActive, &user.LastLogin, &user.CreatedAt)
        if err != nil {
            continue
        }
        users = append(users, user)
    }

    c.JSON(http.StatusOK, gin.H{"users": users})
}

func DeactivateUser(c *gin.Context) {
    userID := c.Param("id")

    result, err := config.DB.Exec(`UPDATE users SET is_active = false WHERE id = $1`, userID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to deactivate user")
        return
    }

    rowsAffected, _ := result.RowsAffected()
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "user")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
