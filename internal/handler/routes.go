package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/middleware"
	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/response"
)

// Handlers groups the API handlers for route registration.
type Handlers struct {
	Auth     *AuthHandler
	Students *StudentHandler
	Classes  *ClassHandler
}

// RegisterRoutes mounts the API under the given prefix. Allowed-role sets
// are fixed here; the role gate checks exact membership.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService) {
	api := r.Group(prefix)

	api.GET("/", index)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	students := api.Group("/students")
	students.Use(middleware.JWT(authSvc))
	{
		students.POST("", middleware.RequireRoles(models.RoleAdmin), h.Students.Create)
		students.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Students.List)
		students.GET("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Students.Get)
		students.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Students.Update)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Students.Delete)
	}

	classes := api.Group("/classes")
	classes.Use(middleware.JWT(authSvc))
	{
		classes.POST("", middleware.RequireRoles(models.RoleAdmin), h.Classes.Create)
		classes.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Classes.List)
		classes.GET("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Classes.Get)
		classes.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Classes.Update)
		classes.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Classes.Delete)
		classes.POST("/:id/enroll", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Classes.Enroll)
		classes.GET("/:id/students", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Classes.Students)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Envelope{Success: false, Message: "Route not found"})
	})
}

// index lists the available endpoints.
func index(c *gin.Context) {
	response.JSON(c, http.StatusOK, "School Management API", gin.H{
		"version": "1.0.0",
		"endpoints": gin.H{
			"health": "GET /health",
			"auth": gin.H{
				"signup":  "POST /auth/signup",
				"login":   "POST /auth/login",
				"refresh": "POST /auth/refresh",
			},
			"students": gin.H{
				"create":  "POST /students",
				"list":    "GET /students",
				"getById": "GET /students/:id",
				"update":  "PUT /students/:id",
				"delete":  "DELETE /students/:id",
			},
			"classes": gin.H{
				"create":   "POST /classes",
				"list":     "GET /classes",
				"getById":  "GET /classes/:id",
				"update":   "PUT /classes/:id",
				"delete":   "DELETE /classes/:id",
				"enroll":   "POST /classes/:id/enroll",
				"students": "GET /classes/:id/students",
			},
		},
	})
}
