package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/rew4n/smart-task-resource-manager/api/handler"
	"github.com/rew4n/smart-task-resource-manager/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Web    *apiHandler.WebHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, auth *middleware.SessionAuth) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// HTML surface
	r.GET("/", handlers.Web.Home)
	r.GET("/login", handlers.Auth.LoginPage)
	r.POST("/login", handlers.Auth.LoginSubmit)
	r.GET("/logout", handlers.Auth.Logout)

	r.GET("/tasks", auth.Web(handlers.Web.TasksPage))
	r.POST("/tasks", auth.Web(handlers.Web.CreateTask))
	r.POST("/tasks/{id}/toggle", auth.Web(handlers.Web.Toggle))
	r.POST("/tasks/{id}/delete", auth.Web(handlers.Web.Delete))
	r.GET("/tasks/{id}/edit", auth.Web(handlers.Web.EditPage))
	r.POST("/tasks/{id}/edit", auth.Web(handlers.Web.EditSubmit))

	// JSON API
	r.POST("/api/login", handlers.Auth.APILogin)
	r.GET("/api/tasks", auth.API(handlers.Task.List))
	r.POST("/api/tasks", auth.API(handlers.Task.Create))
	r.PUT("/api/tasks/{id}", auth.API(handlers.Task.Update))
	r.DELETE("/api/tasks/{id}", auth.API(handlers.Task.Delete))

	return r
}
