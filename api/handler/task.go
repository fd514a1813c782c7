package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/api/transport"
	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/pkg/httpcontext"
	taskUC "github.com/rew4n/smart-task-resource-manager/usecase/task"
)

// TaskHandler serves the JSON task API under /api/tasks.
type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// List returns every task owned by the authenticated identity.
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, owner)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskListResponse(tasks))
}

// Create inserts a new task for the authenticated identity.
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)

	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Error()})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Create(stdCtx, owner, taskUC.Input{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.CreatedResponse{
		Message: "task created",
		TaskID:  task.ID,
	})
}

// Update applies any subset of the writable fields to one owned task.
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.PatchTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Error()})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.ApplyPatch(stdCtx, owner, id, taskUC.Patch{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
		DueDate:     req.DueDate,
	}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: "task updated"})
}

// Delete removes one owned task.
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, owner, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: "task deleted"})
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return 0, false
	}
	return id, true
}
