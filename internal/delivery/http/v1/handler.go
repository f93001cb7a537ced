package v1

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleSignup(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleVerifyEmail(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetUserData(c *gin.Context)
	HandleGetUserTaskData(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleUpdateStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// PingFunc reports whether a backing service is reachable.
type PingFunc func(ctx context.Context) error

type handlerImpl struct {
	logger        zerolog.Logger
	tokens        services.TokenService
	users         services.UserService
	tasks         services.TaskService
	revocations   services.RevocationService
	verifications services.VerificationService
	secureCookie  bool
	healthChecks  map[string]PingFunc
}

func New(
	logger zerolog.Logger,
	tokenService services.TokenService,
	userService services.UserService,
	taskService services.TaskService,
	revocationService services.RevocationService,
	verificationService services.VerificationService,
	secureCookie bool,
	healthChecks map[string]PingFunc,
) Handler {
	useJSONFieldNames()

	return &handlerImpl{
		logger:        logger,
		tokens:        tokenService,
		users:         userService,
		tasks:         taskService,
		revocations:   revocationService,
		verifications: verificationService,
		secureCookie:  secureCookie,
		healthChecks:  healthChecks,
	}
}

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validation errors refer to fields by
// their json names.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	for _, group := range []gin.IRouter{router, router.Group("/api/users")} {
		group.POST("/login", h.HandleLogin)
		group.POST("/signup", h.HandleSignup)
		group.GET("/verify-email", h.HandleVerifyEmail)
		group.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

		group.GET("/get-user-data", h.HandleAuthMiddleware, h.HandleGetUserData)
		group.GET("/get-user-task-data", h.HandleAuthMiddleware, h.HandleGetUserTaskData)
		group.POST("/create-task", h.HandleAuthMiddleware, h.HandleCreateTask)
		group.POST("/update-task", h.HandleAuthMiddleware, h.HandleUpdateTask)
		group.POST("/update-status", h.HandleAuthMiddleware, h.HandleUpdateStatus)
		group.DELETE("/delete-task", h.HandleAuthMiddleware, h.HandleDeleteTask)
	}
}
