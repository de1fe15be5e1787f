package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"todolist/api/internal/config"
	"todolist/api/internal/middleware"
	"todolist/api/internal/models"
	"todolist/api/internal/repository"
	"todolist/api/internal/security"
	"todolist/api/internal/service"
)

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	authService  *service.AuthService
	todoService  *service.TodoService
	adminService *service.AdminService
	statsCache   *service.StatsCache
	db           *pgxpool.Pool
	cache        *redis.Client
	users        *repository.UserRepository
	sessions     *repository.SessionRepository
	todos        *repository.TodoRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	statsCache := service.NewStatsCache(cache, userRepo, todoRepo, cfg.Stats.CacheTTL, log)
	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	todoSvc := service.NewTodoService(todoRepo, statsCache, log)
	adminSvc := service.NewAdminService(userRepo, todoRepo, statsCache, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		authService:  auth,
		todoService:  todoSvc,
		adminService: adminSvc,
		statsCache:   statsCache,
		db:           db,
		cache:        cache,
		users:        userRepo,
		sessions:     sessionRepo,
		todos:        todoRepo,
	}
}

// StatsCache exposes the shared cache so the job scheduler can warm it.
func (h HandlerSet) StatsCache() *service.StatsCache {
	return h.statsCache
}

// SessionRepo is used by the scheduler for expired-session purges.
func (h HandlerSet) SessionRepo() *repository.SessionRepository {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	authed := router.Group("")
	authed.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/todos", h.ListTodos)
		authed.POST("/todos", h.CreateTodo)
		authed.PUT("/todos/:id", h.UpdateTodo)
		authed.DELETE("/todos/:id", h.DeleteTodo)

		authed.GET("/users/me", h.Me)
		authed.PUT("/users/me", h.UpdateProfile)
		authed.POST("/users/me/change-password", h.ChangePassword)
	}

	admin := router.Group("/admin")
	admin.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.RequireRoles(models.RoleAdmin),
	)
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminListUsers)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.GET("/todos", h.AdminListTodos)
		admin.DELETE("/todos/:id", h.AdminDeleteTodo)
	}
}

// Wire representations. Field names are part of the client contract and
// stay snake_case; role travels as its numeric value.
type userResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	PhoneNumber string      `json:"phone_number"`
	CreatedAt   time.Time   `json:"created_at"`
}

type todoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
	}
}

func toTodoResponse(todo models.Todo) todoResponse {
	return todoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UserID:    todo.UserID,
		UserName:  todo.UserName,
		UserEmail: todo.UserEmail,
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.CtxUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

func currentClaims(c *gin.Context) (security.AccessClaims, bool) {
	claimsVal, exists := c.Get(middleware.CtxClaims)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := claimsVal.(security.AccessClaims)
	return claims, ok
}
