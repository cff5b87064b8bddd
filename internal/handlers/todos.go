package handlers

import (
	"net/http"

	"TODOAPP_BACK-END/internal/dto"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/middleware"
	"TODOAPP_BACK-END/internal/services"
	"TODOAPP_BACK-END/internal/utils"
)

var (
	getMessages    = errorMessages{notFound: "Todo object not found", internal: "Internal Error"}
	updateMessages = errorMessages{notFound: "Todo Not Found", internal: "An error occurred while trying to update a Todo"}
	deleteMessages = errorMessages{notFound: "Todo Not Found", internal: "An error occurred while trying to delete a Todo"}
)

// TodoHandler serves the authenticated user's todos. Every route sits behind
// middleware.RequireAuth.
type TodoHandler struct {
	todos *services.TodoService
	log   logging.Logger
}

func NewTodoHandler(todos *services.TodoService, log logging.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, log: log.With("handler", "todos")}
}

// Create adds a todo
// @Summary Create todo
// @Tags todos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateTodoRequest true "Todo text"
// @Success 200 {object} models.Todo
// @Failure 400 {object} dto.ErrorResponse "Missing text"
// @Failure 401 {object} dto.ErrorResponse "unauthorised"
// @Router /todos [post]
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	var req dto.CreateTodoRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, req.Text)
	if err != nil {
		writeServiceError(w, r, h.log, err, defaultMessages)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, todo)
}

// List returns the caller's todos
// @Summary List todos
// @Tags todos
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.TodoListResponse
// @Failure 401 {object} dto.ErrorResponse "unauthorised"
// @Failure 400 {object} dto.ErrorResponse "Unable to fetch todos"
// @Router /todos [get]
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	todos, err := h.todos.List(r.Context(), user.ID)
	if err != nil {
		h.log.Error(r.Context(), "list todos", "user_id", user.ID, "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Unable to fetch todos")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TodoListResponse{Todos: todos})
}

// Get returns one todo
// @Summary Get todo
// @Tags todos
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Todo object not found"
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	todo, err := h.todos.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, getMessages)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TodoResponse{Todo: *todo})
}

// Update changes text and completion
// @Summary Update todo
// @Description completed=true stamps completedAt; anything else clears completion
// @Tags todos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Fields to change"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Todo Not Found"
// @Router /todos/{id} [patch]
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	var req dto.UpdateTodoRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	todo, err := h.todos.Update(r.Context(), user.ID, r.PathValue("id"), req.ToPatch())
	if err != nil {
		writeServiceError(w, r, h.log, err, updateMessages)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TodoResponse{Todo: *todo})
}

// Delete removes a todo and returns it
// @Summary Delete todo
// @Tags todos
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Todo Not Found"
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	todo, err := h.todos.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, deleteMessages)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TodoResponse{Todo: *todo})
}
