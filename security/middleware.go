package security

import (
    "database/sql"
    "errors"
    "net/http"
    "os"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
)

// Database interface for dependency injection
type Database interface {
    QueryRow(query string, args ...interface{}) *sql.Row
    Query(query string, args ...interface{}) (*sql.Rows, error)
}

// JWT utilities
func SignAccessToken(userID string) (string, error) {
    secret := os.Getenv("JWT_ACCESS_SECRET")
    if secret == "" {
        return "", errors.New("JWT_ACCESS_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  userID,
        "exp":  time.Now().Add(15 * time.Minute).Unix(),
        "iat":  time.Now().Unix(),
        "type": "access",
    })
    return token.SignedString([]byte(secret))
}

func SignRefreshToken(userID string) (string, error) {
    secret := os.Getenv("JWT_REFRESH_SECRET")
    if secret == "" {
        return "", errors.New("JWT_REFRESH_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  userID,
        "exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
        "iat":  time.Now().Unix(),
        "type": "refresh",
    })
    return token.SignedString([]byte(secret))
}

func VerifyRefreshToken(tokenStr string) (*jwt.Token, error) {
    secret := os.Getenv("JWT_REFRESH_SECRET")
    if secret == "" {
        return nil, errors.New("JWT_REFRESH_SECRET not set")
    }

    token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })

    if err != nil {
        return nil, err
    }

    if !token.Valid {
        return nil, errors.New("invalid token")
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return nil, errors.New("invalid token claims")
    }

    tokenType, ok := claims["type"].(string)
    if !ok || tokenType != "refresh" {
        return nil, errors.New("invalid token type")
    }

    return token, nil
}

// AuthMiddleware creates a Gin middleware for JWT authentication
func AuthMiddleware(db Database) gin.HandlerFunc {
    return func(c *gin.Context) {
        tokenStr := c.GetHeader("Authorization")
        if tokenStr == "" {
            SendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
                "Please provide a valid authorization token in the request header", nil)
            c.Abort()
            return
        }

        if strings.HasPrefix(tokenStr, "Bearer ") {
            tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
        }

        secret := os.Getenv("JWT_ACCESS_SECRET")
        if secret == "" {
            SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "JWT configuration error",
                "Server configuration error. Please try again later", nil)
            c.Abort()
            return
        }

        token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
            if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, errors.New("unexpected signing method")
            }
            return []byte(secret), nil
        })

        if err != nil || !token.Valid {
            SendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
                "The provided token is invalid, expired, or malformed. Please login again to get a new token", nil)
            c.Abort()
            return
        }

        claims, ok := token.Claims.(jwt.MapClaims)
        if !ok {
            SendError(c, http.StatusUnauthorized, CodeInvalidTokenFormat, "Invalid token format",
                "The token format is invalid. Please login again to get a new token", nil)
            c.Abort()
            return
        }

        userID, ok := claims["sub"].(string)
        if !ok {
            SendError(c, http.StatusUnauthorized, CodeInvalidUserInfo, "Invalid user information",
                "The token does not contain valid user information. Please login again", nil)
            c.Abort()
            return
        }

        var role string
        err = db.QueryRow(`SELECT role FROM users WHERE id=$1 AND is_active=true`, userID).Scan(&role)
        if err == sql.ErrNoRows {
            SendError(c, http.StatusUnauthorized, CodeUserNotFoundOrInactive, "User account not found or inactive",
                "Your account is not found or has been deactivated. Please contact support", nil)
            c.Abort()
            return
        }
        if err != nil {
            SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
                "Unable to verify user status. Please try again later", nil)
            c.Abort()
            return
        }

        c.Set("user_id", userID)
        c.Set("user_role", role)
        c.Next()
    }
}

// RequireRole creates a Gin middleware for role-based access control.
// super_admin passes every check.
func RequireRole(expectedRoles ...string) gin.HandlerFunc {
    return func(c *gin.Context) {
        role := c.GetString("user_role")

        if role == "" {
            SendError(c, http.StatusUnauthorized, CodeUserNotAuthenticated, "User not authenticated",
                "User authentication is required to access this resource", nil)
            c.Abort()
            return
        }

        if role == "super_admin" {
            c.Next()
            return
        }
        for _, expectedRole := range expectedRoles {
            if role == expectedRole {
                c.Next()
                return
            }
        }

        SendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Insufficient permissions",
            "Access denied. This resource requires one of: "+strings.Join(expectedRoles, ", ")+". Your current role: "+role,
            gin.H{
                "required_roles": expectedRoles,
                "user_role":      role,
            })
        c.Abort()
    }
}

func CORSMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        origin := c.Request.Header.Get("Origin")

        allowOrigin := "*"
        if origin != "" {
            allowOrigin = origin
        }

        c.Header("Access-Control-Allow-Origin", allowOrigin)
        c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
        c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control, X-File-Name")
        c.Header("Access-Control-Allow-Credentials", "true")
        c.Header("Access-Control-Max-Age", "86400")

        if c.Request.Method == http.MethodOptions {
            c.AbortWithStatus(204)
            return
        }

        c.Next()
    }
}
