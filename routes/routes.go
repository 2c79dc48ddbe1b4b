package routes

import (
    "hospital-admin-service/config"
    "hospital-admin-service/controllers"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
)

func AdminRoutes(rg *gin.RouterGroup) {
    // Health check and auth endpoints (no auth required)
    rg.GET("/health", controllers.HealthCheck)
    rg.POST("/auth/login", controllers.Login)
    rg.POST("/auth/refresh", controllers.RefreshToken)

    // Apply authentication middleware to all other routes
    rg.Use(security.AuthMiddleware(config.DB))

    // User accounts
    users := rg.Group("/users")
    {
        users.POST("", security.RequireRole("super_admin"), controllers.Register)
        users.GET("", security.RequireRole("admin"), controllers.GetUsers)
        users.DELETE("/:id", security.RequireRole("super_admin"), controllers.DeactivateUser)
    }

    // Doctor registration
    doctors := rg.Group("/doctors")
    {
        doctors.POST("", security.RequireRole("admin", "hr"), controllers.CreateDoctor)
        doctors.GET("", controllers.GetDoctors)
        doctors.GET("/:id", controllers.GetDoctor)
        doctors.PUT("/:id", security.RequireRole("admin", "hr"), controllers.UpdateDoctor)
        doctors.DELETE("/:id", security.RequireRole("admin"), controllers.DeleteDoctor)
    }

    // Staff registration
    staff := rg.Group("/staff")
    {
        staff.POST("", security.RequireRole("admin", "hr"), controllers.CreateStaff)
        staff.GET("", controllers.GetStaff)
        staff.GET("/:id", controllers.GetStaffMember)
        staff.PUT("/:id", security.RequireRole("admin", "hr"), controllers.UpdateStaff)
        staff.DELETE("/:id", security.RequireRole("admin"), controllers.DeleteStaff)
    }

    // Attendance
    attendance := rg.Group("/attendance")
    {
        attendance.POST("", security.RequireRole("admin", "hr"), controllers.MarkAttendance)
        attendance.GET("", controllers.GetAttendanceByDate)
        attendance.PUT("/:id", security.RequireRole("admin", "hr"), controllers.UpdateAttendance)
        attendance.GET("/report/:staff_id", controllers.GetMonthlyAttendanceReport)
    }

    // Lookup tables: categories, positions, specializations
    lookups := rg.Group("/lookups/:type")
    {
        lookups.POST("", security.RequireRole("admin"), controllers.CreateLookup)
        lookups.GET("", controllers.GetLookups)
        lookups.PUT("/:id", security.RequireRole("admin"), controllers.UpdateLookup)
        lookups.DELETE("/:id", security.RequireRole("admin"), controllers.DeleteLookup)
    }

    // Medicine purchases and their settlement ledger
    purchases := rg.Group("/purchases")
    {
        purchases.POST("", security.RequireRole("admin", "accountant"), controllers.CreatePurchase)
        purchases.GET("", controllers.GetPurchases)
        purchases.GET("/summary", controllers.GetPurchaseSummary)
        purchases.GET("/export", security.RequireRole("admin", "accountant"), controllers.ExportPurchases)
        purchases.GET("/:id", controllers.GetPurchase)
        purchases.PUT("/:id/payments", security.RequireRole("admin", "accountant"), controllers.RecordPurchasePayment)
        purchases.GET("/:id/payments", controllers.GetPurchasePayments)
        purchases.DELETE("/:id/payments/:index", security.RequireRole("admin", "accountant"), controllers.DeletePurchasePayment)
    }

    // Salary payments
    salaries := rg.Group("/salaries")
    {
        salaries.POST("", security.RequireRole("admin", "accountant"), controllers.CreateSalaryRecord)
        salaries.GET("", controllers.GetSalaryRecords)
        salaries.PUT("/:id/payments", security.RequireRole("admin", "accountant"), controllers.AddSalaryPayment)
        salaries.GET("/:id/payments", controllers.GetSalaryPayments)
        salaries.DELETE("/payments/:payment_id", security.RequireRole("admin", "accountant"), controllers.DeleteSalaryPayment)
    }

    // Deleted-record recovery (recycle bin)
    recovery := rg.Group("/recovery/:entity")
    recovery.Use(security.RequireRole("admin"))
    {
        recovery.GET("", controllers.GetDeletedRecords)
        recovery.PUT("/:id/restore", controllers.RestoreRecord)
        recovery.DELETE("/:id", controllers.PurgeRecord)
    }
}
