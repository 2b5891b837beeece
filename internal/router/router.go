package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/handler"
	"github.com/courselog/courselog-api/internal/middleware"
	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
	"github.com/courselog/courselog-api/pkg/config"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/logger"
	corsmiddleware "github.com/courselog/courselog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/courselog/courselog-api/pkg/middleware/requestid"
	"github.com/courselog/courselog-api/pkg/response"
)

// Dependencies carries everything the router needs to assemble the API.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Auth    *service.AuthService
	Admin   *service.AdminService
	Course  *service.CourseService
	Assign  *service.AssignmentService
	Lesson  *service.LessonService
	Board   *service.DashboardService
	Export  *service.ExportService
	Metrics *service.MetricsService
}

// New assembles the gin engine with all middleware and routes.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	adminHandler := handler.NewAdminHandler(deps.Admin)
	courseHandler := handler.NewCourseHandler(deps.Course)
	assignmentHandler := handler.NewAssignmentHandler(deps.Assign)
	lessonHandler := handler.NewLessonHandler(deps.Lesson, deps.Metrics)
	dashboardHandler := handler.NewDashboardHandler(deps.Board)
	exportHandler := handler.NewExportHandler(deps.Export)

	v1 := r.Group(deps.Config.APIPrefix)

	user := v1.Group("/user")
	{
		user.POST("/signup", middleware.OptionalJWT(deps.Auth), authHandler.Signup)
		user.POST("/signin", middleware.OptionalJWT(deps.Auth), authHandler.Signin)

		authed := user.Group("", middleware.JWT(deps.Auth))
		authed.GET("/profile", authHandler.Profile)
		authed.POST("/password", authHandler.ChangePassword)

		teaching := authed.Group("", middleware.RequireRoles(models.RoleLecturer, models.RoleHOD))
		teaching.POST("/lesson/:courseId", lessonHandler.CreateRecord)
		teaching.PUT("/lesson/:lessonRecordId", lessonHandler.UpdateRecord)
		teaching.GET("/lesson/:courseId", lessonHandler.RecordsByCourse)
		teaching.GET("/lessons/all", lessonHandler.AllRecords)
		teaching.GET("/assigned-courses", lessonHandler.AssignedCourses)
		teaching.GET("/myassigned-courses", lessonHandler.MyAssignedCourses)
		teaching.GET("/dashboard", dashboardHandler.LecturerDashboard)
	}

	admin := v1.Group("/admin", middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.PATCH("/approve/:userId", adminHandler.ApproveUser)
		admin.GET("/users", adminHandler.ListUsers)
	}

	hod := v1.Group("/hod", middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleHOD))
	{
		hod.GET("/courses", courseHandler.ListCourses)
		hod.POST("/course", courseHandler.AddCourse)
		hod.PUT("/course/:id", courseHandler.UpdateCourse)
		hod.DELETE("/course/:id", courseHandler.DeleteCourse)

		hod.GET("/assign", assignmentHandler.AssignmentOptions)
		hod.POST("/assign/:courseId", assignmentHandler.AssignLecturer)
		hod.PUT("/reassign/:assignmentId", assignmentHandler.ReassignLecturer)
		hod.GET("/current-assignments", assignmentHandler.CurrentAssignments)

		hod.GET("/lessonrecords", lessonHandler.DepartmentRecords)
		if deps.Config.Exports.Enabled {
			hod.GET("/lessonrecords/export", exportHandler.DepartmentRecords)
		}
		hod.GET("/dashboard", dashboardHandler.HODDashboard)
	}

	// The v2 surface exists but is switched off.
	r.Any("/api/v2/*any", func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "sorry this route is restricted"))
	})

	return r
}
