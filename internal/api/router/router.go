package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/api/handler"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/api/middleware"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/jwt"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/redis"
)

// Setup builds the gin engine with every route of the portal.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if err := middleware.RegisterValidators(); err != nil {
		logger.Fatal("register validators failed", zap.Error(err))
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// role tiers
	staff := middleware.RoleAuth(model.RoleSuperAdmin, model.RoleATPAdmin, model.RoleATPReader)
	editor := middleware.RoleAuth(model.RoleSuperAdmin, model.RoleATPAdmin)
	super := middleware.RoleAuth(model.RoleSuperAdmin)
	director := middleware.RoleAuth(model.RoleDirector)
	uploader := middleware.RoleAuth(model.RoleDirector, model.RoleSuperAdmin, model.RoleATPAdmin)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// machine endpoints, shared secret instead of a session
		machine := v1.Group("")
		machine.Use(middleware.CronSecret(cfg.Cron.Secret))
		{
			machine.POST("/cron/reminders", h.Reminder.RunDaily)
			machine.GET("/status", h.Reminder.Status)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// director portal
			me := authorized.Group("/me", director)
			{
				me.GET("/dashboard", h.Delivery.Dashboard)
				me.GET("/calendar.ics", h.Export.Calendar)
			}

			cycles := authorized.Group("/cycles")
			{
				cycles.GET("", staff, h.Cycle.List)
				cycles.GET("/active", h.Cycle.GetActive)
				cycles.POST("", editor, h.Cycle.Create)
				cycles.PUT("/:id/activate", editor, h.Cycle.Activate)
				cycles.PUT("/active/announcement", editor, h.Cycle.SetAnnouncement)
			}

			schools := authorized.Group("/schools")
			{
				schools.GET("", staff, h.School.List)
				schools.GET("/:id", staff, h.School.Get)
				schools.POST("", editor, h.School.Create)
				schools.PUT("/:id", editor, h.School.Update)
				schools.DELETE("/:id", super, h.School.Delete)
				schools.GET("/:id/overrides", staff, h.School.ListOverrides)
				schools.PUT("/:id/overrides", editor, h.School.SetOverrides)
			}

			programs := authorized.Group("/programs")
			{
				programs.GET("", staff, h.Program.List)
				programs.GET("/:id", staff, h.Program.Get)
				programs.POST("", editor, h.Program.Create)
				programs.POST("/extraordinary", editor, h.Program.CreateExtraordinary)
				programs.PUT("/:id", editor, h.Program.Update)
				programs.PUT("/:id/auto-reminder", editor, h.Program.SetAutoReminder)
				programs.POST("/:id/generate", editor, h.Program.Regenerate)
				programs.POST("/:id/reminders", editor, h.Reminder.SendProgram)
				programs.DELETE("/:id", super, h.Program.Delete)
			}

			periods := authorized.Group("/periods")
			{
				periods.GET("/:id", staff, h.Program.GetPeriod)
				periods.GET("/:id/deliveries", staff, h.Delivery.ListByPeriod)
				periods.PUT("/:id/active", editor, h.Program.SetPeriodActive)
				periods.PUT("/:id/deadline", editor, h.Program.SetPeriodDeadline)
			}

			// ownership of director requests is checked by the service
			deliveries := authorized.Group("/deliveries")
			{
				deliveries.GET("/:id", h.Delivery.Get)
				deliveries.POST("/:id/files", uploader, h.Delivery.Upload)
				deliveries.POST("/:id/files/register", uploader, h.Delivery.RegisterFile)
				deliveries.DELETE("/:id/files/:fileId", uploader, h.Delivery.DeleteFile)
				deliveries.PUT("/:id/status", editor, h.Delivery.UpdateStatus)
				deliveries.GET("/:id/corrections", h.Delivery.ListCorrections)
				deliveries.POST("/:id/corrections", editor, h.Delivery.AddCorrection)
				deliveries.POST("/:id/reminder", editor, h.Reminder.SendOne)
			}

			events := authorized.Group("/events")
			{
				events.GET("/catalog", h.Event.Catalog)
				events.GET("/registration", director, h.Event.Registration)
				events.PUT("/registration", director, h.Event.Save)
				events.GET("/summary", staff, h.Event.Summary)
				events.PUT("/config", editor, h.Event.SetOpen)
				events.DELETE("/registrations/:schoolId", super, h.Event.DeleteRegistration)
			}

			circular := authorized.Group("/circular05")
			{
				circular.GET("/config", h.Circular05.GetConfig)
				circular.PUT("/config", editor, h.Circular05.UpdateConfig)
				circular.POST("/generate", director, h.Circular05.Generate)
				circular.GET("/downloads", staff, h.Circular05.ListDownloads)
			}

			resources := authorized.Group("/resources")
			{
				resources.GET("", h.Resource.List)
				resources.POST("", editor, h.Resource.Upload)
				resources.DELETE("/:id", editor, h.Resource.Delete)
			}

			admins := authorized.Group("/admins", super)
			{
				admins.GET("", h.Admin.List)
				admins.POST("", h.Admin.Create)
				admins.PUT("/:id", h.Admin.Update)
				admins.DELETE("/:id", h.Admin.Delete)
			}

			export := authorized.Group("/export", staff)
			{
				export.GET("/deliveries", h.Export.ExportDeliveries)
				export.GET("/events", h.Export.ExportEvents)
			}
		}
	}

	return r
}
