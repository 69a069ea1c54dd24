package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal/internal/api"
	"portal/internal/config"
	"portal/internal/entity"
	"portal/internal/model"
	"portal/internal/storage"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the development default, set it before exposing the server")
	}

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedAdminUser(context.Background(), repo, cfg); err != nil {
			logrus.WithError(err).Warn("failed to seed admin account")
		}
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.GET("/me", httpHandler.Me)
	protected.PATCH("/me", httpHandler.UpdateMe)
	protected.POST("/me/avatar", httpHandler.UploadAvatar)
	protected.GET("/announcements", httpHandler.ListAnnouncements)
	protected.GET("/materials", httpHandler.ListMaterials)

	teacherGroup := protected.Group("/teacher")
	teacherGroup.Use(httpHandler.RequireRoles(entity.RoleTeacher, entity.RoleAdmin))
	teacherGroup.GET("/courses", httpHandler.ListTeacherCourses)
	teacherGroup.POST("/courses", httpHandler.CreateCourse)
	teacherGroup.POST("/assignments", httpHandler.CreateAssignment)
	teacherGroup.GET("/submissions/:assignment_id", httpHandler.ListSubmissions)
	teacherGroup.POST("/grade", httpHandler.GradeSubmission)
	teacherGroup.POST("/announcements", httpHandler.CreateAnnouncement)
	teacherGroup.POST("/materials", httpHandler.CreateMaterial)
	teacherGroup.POST("/materials/upload", httpHandler.UploadMaterialFile)

	studentGroup := protected.Group("/student")
	studentGroup.Use(httpHandler.RequireRoles(entity.RoleStudent))
	studentGroup.GET("/courses", httpHandler.ListStudentCourses)
	studentGroup.POST("/enroll", httpHandler.EnrollCourse)
	studentGroup.GET("/assignments", httpHandler.ListStudentAssignments)
	studentGroup.POST("/submit", httpHandler.SubmitAssignment)
	studentGroup.POST("/submissions/upload", httpHandler.UploadSubmissionFile)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(httpHandler.RequireRoles(entity.RoleAdmin))
	adminGroup.GET("/users", httpHandler.ListUsers)
	adminGroup.POST("/approve", httpHandler.ApproveUser)
	adminGroup.POST("/assign-teacher", httpHandler.AssignTeacher)
	adminGroup.GET("/stats", httpHandler.Stats)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
