package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"law_desk_app_go/app"
	"law_desk_app_go/config"
	"law_desk_app_go/db"
	"law_desk_app_go/handlers"
	"law_desk_app_go/middleware"
	"law_desk_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Databases, settings store, storage and alerters
	a, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	handlers.Init(handlers.Deps{
		Config:        cfg,
		Settings:      a.Settings,
		Notifications: a.Notifications,
		Feed:          a.Feed,
		Monitor:       a.Monitor,
	})

	scheduler, err := jobs.StartScheduler(jobs.Deps{
		DB:            db.DB,
		Settings:      a.Settings,
		Notifications: a.Notifications,
		Location:      a.Location,
		AlertSpec:     cfg.AlertCron,
	})
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, middleware.CSRFHeader},
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	loginLimiter := middleware.NewLoginRateLimiter()
	defer loginLimiter.Stop()
	apiLimiter := middleware.NewAPIRateLimiter()
	defer apiLimiter.Stop()

	// Public routes
	e.GET("/healthz", handlers.HealthHandler)
	e.POST("/login", handlers.LoginPostHandler, loginLimiter.Middleware())
	e.POST("/logout", handlers.LogoutHandler)

	api := e.Group("/api",
		middleware.RequireAuth(db.DB),
		apiLimiter.Middleware(),
		middleware.CSRF(cfg.Environment == "production"),
	)
	{
		api.GET("/session", handlers.SessionHandler)
		api.GET("/dashboard", handlers.DashboardHandler)

		api.GET("/notifications", handlers.GetNotificationsHandler)
		api.POST("/notifications/:id/snooze", handlers.SnoozeNotificationHandler)
		api.GET("/alerts", handlers.GetAlertsHandler)

		api.GET("/clients", handlers.GetClientsHandler)
		api.POST("/clients", handlers.CreateClientHandler)
		api.GET("/clients/:id", handlers.GetClientHandler)
		api.PUT("/clients/:id", handlers.UpdateClientHandler)
		api.DELETE("/clients/:id", handlers.DeleteClientHandler)
		api.GET("/clients/:id/documents", handlers.GetClientDocumentsHandler)

		api.GET("/cases", handlers.GetCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/next-number", handlers.NextCaseNumberHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.PUT("/cases/:id", handlers.UpdateCaseHandler)
		api.DELETE("/cases/:id", handlers.DeleteCaseHandler)

		api.GET("/documents", handlers.GetDocumentsHandler)
		api.POST("/documents", handlers.CreateDocumentHandler)
		api.GET("/documents/:id", handlers.GetDocumentHandler)
		api.PUT("/documents/:id", handlers.UpdateDocumentHandler)
		api.DELETE("/documents/:id", handlers.DeleteDocumentHandler)
		api.POST("/documents/:id/files", handlers.UploadDocumentFileHandler)

		api.GET("/events", handlers.GetEventsHandler)
		api.POST("/events", handlers.CreateEventHandler)
		api.GET("/events/:id", handlers.GetEventHandler)
		api.PUT("/events/:id", handlers.UpdateEventHandler)
		api.DELETE("/events/:id", handlers.DeleteEventHandler)
		api.GET("/events/:id/ics", handlers.DownloadEventICSHandler)

		api.GET("/invoices", handlers.GetInvoicesHandler)
		api.POST("/invoices", handlers.CreateInvoiceHandler)
		api.GET("/invoices/next-number", handlers.NextInvoiceNumberHandler)
		api.GET("/invoices/:id", handlers.GetInvoiceHandler)
		api.PUT("/invoices/:id", handlers.UpdateInvoiceHandler)
		api.DELETE("/invoices/:id", handlers.DeleteInvoiceHandler)

		api.GET("/templates", handlers.GetTemplatesHandler)
		api.POST("/templates", handlers.CreateTemplateHandler)
		api.GET("/templates/variables", handlers.GetTemplateVariablesHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler)
		api.GET("/templates/:id/print", handlers.PrintTemplateHandler)
		api.GET("/templates/:id/pdf", handlers.TemplatePDFHandler)

		api.GET("/reports", handlers.ReportsHandler)
		api.GET("/reports/print", handlers.PrintReportHandler)
		api.GET("/reports/pdf", handlers.ReportPDFHandler)

		api.GET("/export", handlers.ExportCatalogHandler)
		api.GET("/export/:entity/xlsx", handlers.ExportXLSXHandler)
		api.GET("/export/:entity/print", handlers.ExportPrintHandler)
		api.GET("/export/:entity/pdf", handlers.ExportPDFHandler)

		api.GET("/settings/preferences", handlers.GetPreferencesHandler)
		api.PUT("/settings/preferences", handlers.UpdatePreferencesHandler)
		api.GET("/settings/office", handlers.GetOfficeHandler)
		api.PUT("/settings/office", handlers.UpdateOfficeHandler)
		api.POST("/settings/office/logo", handlers.UploadOfficeLogoHandler)
		api.PUT("/settings/password", handlers.ChangePasswordHandler)

		api.GET("/files/*", handlers.DownloadFileHandler)
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down", sig)
	case err := <-errCh:
		log.Printf("[ERROR] Server stopped: %v", err)
	}

	// Let the running alert pass finish before the stores close
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
