package dto

import "TODOAPP_BACK-END/internal/models"

// CreateTodoRequest is the body of POST /todos
type CreateTodoRequest struct {
	Text string `json:"text" example:"Walk the dog"`
}

// UpdateTodoRequest is the body of PATCH /todos/{id}. Completed is kept
// loosely typed: only the JSON boolean true marks a todo as done.
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty" example:"Walk the cat"`
	Completed any     `json:"completed,omitempty" swaggertype:"boolean"`
}

// ToPatch keeps the fields the caller actually sent.
func (r UpdateTodoRequest) ToPatch() models.TodoPatch {
	patch := models.TodoPatch{Text: r.Text}
	if b, ok := r.Completed.(bool); ok {
		patch.Completed = &b
	}
	return patch
}

// TodoResponse wraps a single todo
type TodoResponse struct {
	Todo models.Todo `json:"todo"`
}

// TodoListResponse wraps the caller's todos
type TodoListResponse struct {
	Todos []models.Todo `json:"todos"`
}
