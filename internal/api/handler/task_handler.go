package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/api/metrics"
	"github.com/shyaka/todo-backend/internal/core/domain"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

// HeaderIdempotencyKey names the optional header deduplicating task creation.
const HeaderIdempotencyKey = "Idempotency-Key"

// TaskHandler handles HTTP requests for the caller's TODO items.
type TaskHandler struct {
	service ports.TaskService
	log     zerolog.Logger
}

func NewTaskHandler(service ports.TaskService, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{service: service, log: log}
}

// Create handles POST /todos.
//
// @Summary      Create a TODO item
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays return the task first created with this key"
// @Param        body             body      createTaskRequest  true   "Task"
// @Success      201              {object}  domain.Task
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /todos [post]
func (h *TaskHandler) Create(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		metrics.TaskOperationsTotal.WithLabelValues("create", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}
	if err := c.Validate(&req); err != nil {
		metrics.TaskOperationsTotal.WithLabelValues("create", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	res, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		OwnerID:        ownerID,
		Title:          req.Title,
		Description:    req.Description,
		Completed:      req.Completed,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.TaskOperationsTotal.WithLabelValues("create", "invalid").Inc()
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}
		metrics.TaskOperationsTotal.WithLabelValues("create", "error").Inc()
		h.log.Error().Err(err).Str("user_id", ownerID).Msg("create task failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create TODO item"))
	}

	metrics.TaskOperationsTotal.WithLabelValues("create", "ok").Inc()
	if res.Replayed {
		metrics.IdempotentReplaysTotal.Inc()
	}
	return c.JSON(http.StatusCreated, res.Task)
}

// List handles GET /todos and returns the caller's tasks.
//
// @Summary      List my TODO items
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /todos [get]
func (h *TaskHandler) List(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return h.list(c, ownerID)
}

// ListByOwner handles GET /todos/:userId. The Owner middleware has already
// checked that the path id is the caller.
//
// @Summary      List a user's TODO items
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id (must be the caller)"
// @Success      200     {array}   domain.Task
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /todos/{userId} [get]
func (h *TaskHandler) ListByOwner(c echo.Context) error {
	return h.list(c, c.Param("userId"))
}

func (h *TaskHandler) list(c echo.Context, ownerID string) error {
	tasks, err := h.service.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		metrics.TaskOperationsTotal.WithLabelValues("list", "error").Inc()
		h.log.Error().Err(err).Str("user_id", ownerID).Msg("list tasks failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to fetch TODO items"))
	}

	metrics.TaskOperationsTotal.WithLabelValues("list", "ok").Inc()
	return c.JSON(http.StatusOK, tasks)
}

// Update handles PUT /todos/:id. Fields left out of the body are not changed.
//
// @Summary      Update a TODO item
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /todos/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		metrics.TaskOperationsTotal.WithLabelValues("update", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}

	task, err := h.service.Update(c.Request().Context(), ports.UpdateTaskInput{
		ID:          c.Param("id"),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			metrics.TaskOperationsTotal.WithLabelValues("update", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorBody("TODO item not found"))
		}
		metrics.TaskOperationsTotal.WithLabelValues("update", "error").Inc()
		h.log.Error().Err(err).Str("task_id", c.Param("id")).Msg("update task failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Opps,Failed to update TODO item"))
	}

	metrics.TaskOperationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /todos/:id.
//
// @Summary      Delete a TODO item
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /todos/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			metrics.TaskOperationsTotal.WithLabelValues("delete", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorBody("TODO item not found"))
		}
		metrics.TaskOperationsTotal.WithLabelValues("delete", "error").Inc()
		h.log.Error().Err(err).Str("task_id", c.Param("id")).Msg("delete task failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to delete TODO item"))
	}

	metrics.TaskOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "TODO item deleted successfully"})
}
