package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/deadline"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/logging"
	"github.com/yukikurage/office-task-api/internal/middleware"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/services"
	"github.com/yukikurage/office-task-api/internal/uploads"
	"go.uber.org/zap"
)

// Dependencies are the services the router serves.
type Dependencies struct {
	Tasks      *services.TaskService
	Users      *services.UserService
	Complaints *services.ComplaintService
	Reports    *services.ReportService
	Calendar   *deadline.Calendar
	Uploads    *uploads.Store
	Sessions   sessions.Store
	Logger     *zap.Logger

	// EnforceRoles restricts user management mutations to deputy directors.
	EnforceRoles bool
	// Extra runs before the routes, after logging and recovery.
	Extra []gin.HandlerFunc
}

// NewRouter wires every route of the API.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(logging.Recovery(deps.Logger), logging.RequestLogger(deps.Logger))
	r.Use(deps.Extra...)
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))
	r.Use(deps.Uploads.LimitBody())

	taskHandler := NewTaskHandler(deps.Tasks, deps.Uploads, deps.Logger)
	complaintHandler := NewComplaintHandler(deps.Complaints, deps.Uploads, deps.Logger)
	userHandler := NewUserHandler(deps.Users, deps.Logger)
	officerHandler := NewOfficerHandler(deps.Users, deps.Logger)
	deadlineHandler := NewDeadlineHandler(deps.Calendar)
	reportHandler := NewReportHandler(deps.Reports, deps.Logger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Office Task API is running",
		})
	})

	r.Static(constants.UploadURLPrefix, deps.Uploads.Dir())

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.POST("/suggest", taskHandler.SuggestTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.PUT("/:id/save-content", taskHandler.SaveContent)
		tasks.PUT("/:id/save-progress", taskHandler.SaveProgress)
		tasks.PUT("/:id/delegate", taskHandler.DelegateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	complaints := r.Group("/complaints")
	{
		complaints.GET("", complaintHandler.ListComplaints)
		complaints.POST("", complaintHandler.CreateComplaint)
	}

	// /users is kept as an alias of /user-management
	for _, prefix := range []string{"/user-management", "/users"} {
		registerUserRoutes(r.Group(prefix), userHandler, deps.EnforceRoles)
	}

	officers := r.Group("/officers")
	{
		officers.GET("", officerHandler.ListOfficers)
		officers.GET("/senior", officerHandler.ListSeniorOfficers)
	}

	deadlines := r.Group("/deadlines")
	{
		deadlines.GET("", deadlineHandler.ComputeDeadline)
		deadlines.POST("/validate", deadlineHandler.ValidateDeadline)
		deadlines.GET("/holidays", deadlineHandler.ListHolidays)
	}

	reports := r.Group("/reports")
	{
		reports.GET("/fiscal-years", reportHandler.ListFiscalYears)
		reports.GET("/tasks", reportHandler.TaskReport)
		reports.GET("/tasks/export", reportHandler.ExportTaskReport)
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	return r
}

func registerUserRoutes(g *gin.RouterGroup, h *UserHandler, enforceRoles bool) {
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", middleware.RequireAuth(), h.GetCurrentUser)
	g.GET("/roles", h.ListRoles)
	g.GET("", h.ListUsers)

	manage := g.Group("")
	if enforceRoles {
		manage.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleDeputyDirector))
	}
	manage.POST("", h.CreateUser)
	manage.PUT("/:id", h.UpdateUser)
	manage.DELETE("/:id", h.DeleteUser)
}
