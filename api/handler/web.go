package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/internal/view"
	"github.com/rew4n/smart-task-resource-manager/pkg/httpcontext"
	authUC "github.com/rew4n/smart-task-resource-manager/usecase/auth"
	taskUC "github.com/rew4n/smart-task-resource-manager/usecase/task"
)

// WebHandler serves the server-rendered HTML surface. Failures redirect with
// a transient notice instead of returning error pages.
type WebHandler struct {
	baseHandler
	auth     *authUC.UseCase
	tasks    *taskUC.UseCase
	renderer *view.Renderer
}

func NewWebHandler(auth *authUC.UseCase, tasks *taskUC.UseCase, renderer *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) *WebHandler {
	return &WebHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		tasks:       tasks,
		renderer:    renderer,
	}
}

// Home renders the landing page. The identity lookup is best effort since
// the route is unauthenticated.
func (h *WebHandler) Home(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, _ := h.auth.Identity(stdCtx, h.sessionToken(ctx))
	h.renderPage(ctx, "index", view.Page{
		Title:    "Home",
		Identity: identity,
		Flash:    h.takeFlash(ctx),
	})
}

// TasksPage renders the owner's task list with the create form.
func (h *WebHandler) TasksPage(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.tasks.List(stdCtx, owner)
	if err != nil {
		h.logger.Error("listing tasks failed", zap.String("owner", owner), zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	h.renderPage(ctx, "tasks", view.Page{
		Title:    "Tasks",
		Identity: owner,
		Flash:    h.takeFlash(ctx),
		Tasks:    h.renderer.NewTaskItems(tasks),
	})
}

// CreateTask handles the list-page form submission.
func (h *WebHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	input := taskUC.Input{
		Title:       string(ctx.PostArgs().Peek("title")),
		Description: string(ctx.PostArgs().Peek("description")),
		DueDate:     string(ctx.PostArgs().Peek("due_date")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.tasks.Create(stdCtx, owner, input); err != nil {
		h.setFlash(ctx, flashMessage(err))
	}
	h.redirect(ctx, "/tasks")
}

// Toggle flips the completion flag and returns to the list.
func (h *WebHandler) Toggle(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.tasks.Toggle(stdCtx, owner, id); err != nil {
		h.setFlash(ctx, flashMessage(err))
	}
	h.redirect(ctx, "/tasks")
}

// Delete removes the task and returns to the list.
func (h *WebHandler) Delete(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tasks.Delete(stdCtx, owner, id); err != nil {
		h.setFlash(ctx, flashMessage(err))
	}
	h.redirect(ctx, "/tasks")
}

// EditPage renders the edit form for one task.
func (h *WebHandler) EditPage(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.tasks.Get(stdCtx, owner, id)
	if err != nil {
		h.setFlash(ctx, flashMessage(err))
		h.redirect(ctx, "/tasks")
		return
	}

	item := h.renderer.NewTaskItem(*task)
	h.renderPage(ctx, "edit", view.Page{
		Title:    "Edit task",
		Identity: owner,
		Flash:    h.takeFlash(ctx),
		Task:     &item,
	})
}

// EditSubmit applies the edit form and returns to the list.
func (h *WebHandler) EditSubmit(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	input := taskUC.Input{
		Title:       string(ctx.PostArgs().Peek("title")),
		Description: string(ctx.PostArgs().Peek("description")),
		DueDate:     string(ctx.PostArgs().Peek("due_date")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.tasks.Update(stdCtx, owner, id, input); err != nil {
		h.setFlash(ctx, flashMessage(err))
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			h.redirect(ctx, "/tasks/"+strconv.FormatInt(id, 10)+"/edit")
			return
		}
	}
	h.redirect(ctx, "/tasks")
}

func (h *WebHandler) taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.setFlash(ctx, "Unknown task.")
		h.redirect(ctx, "/tasks")
		return 0, false
	}
	return id, true
}

func (h *WebHandler) renderPage(ctx *fasthttp.RequestCtx, name string, data view.Page) {
	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	if err := h.renderer.Render(ctx, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
	}
}

func flashMessage(err error) string {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return err.Error()
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return "Task not found."
	default:
		return "Something went wrong, please try again."
	}
}
