package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/store"
)

type todoText struct {
	Text string `json:"text" validate:"required"`
}

// TodoService manages todos on behalf of their creator. Records of other
// creators are reported as not found.
type TodoService struct {
	todos    store.TodoRepository
	validate *validator.Validate
	log      logging.Logger
	now      func() time.Time
}

// NewTodoService constructs a TodoService.
func NewTodoService(todos store.TodoRepository, log logging.Logger) *TodoService {
	return &TodoService{
		todos:    todos,
		validate: newValidator(),
		log:      log.With("module", "todos"),
		now:      time.Now,
	}
}

func (s *TodoService) Create(ctx context.Context, creatorID, text string) (*models.Todo, error) {
	in := todoText{Text: strings.TrimSpace(text)}
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	todo := &models.Todo{ID: models.NewID(), Text: in.Text, CreatorID: creatorID}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.log.Debug(ctx, "todo created", "todo_id", todo.ID, "user_id", creatorID)
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, creatorID string) ([]models.Todo, error) {
	todos, err := s.todos.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get returns common.ErrInvalidID for a malformed id before touching storage.
func (s *TodoService) Get(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}
	todo, err := s.todos.FindOwned(ctx, creatorID, id)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// Update applies patch. Completion is only kept when the patch sets it to
// true, in which case completedAt is stamped; anything else clears both.
func (s *TodoService) Update(ctx context.Context, creatorID, id string, patch models.TodoPatch) (*models.Todo, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}

	var upd models.TodoUpdate
	if patch.Text != nil {
		in := todoText{Text: strings.TrimSpace(*patch.Text)}
		if err := validateStruct(s.validate, in); err != nil {
			return nil, err
		}
		upd.Text = &in.Text
	}
	if patch.Completed != nil && *patch.Completed {
		at := s.now().UnixMilli()
		upd.Completed = true
		upd.CompletedAt = &at
	}

	todo, err := s.todos.UpdateOwned(ctx, creatorID, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}
	todo, err := s.todos.DeleteOwned(ctx, creatorID, id)
	if err != nil {
		return nil, fmt.Errorf("delete todo: %w", err)
	}

	s.log.Debug(ctx, "todo deleted", "todo_id", id, "user_id", creatorID)
	return todo, nil
}
