package todos

import (
	"context"
	"log/slog"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgContent      = "Please enter a todo."
	MsgCreateFailed = "Database Error: Failed to Create Todo."
	MsgUpdateFailed = "Database Error: Failed to Update Todo."
	MsgDeleteFailed = "Database Error: Failed to Delete Todo."
	MsgDeleted      = "Deleted Todo."
)

// Input is the validated todo form.
type Input struct {
	Content string `form:"content" validate:"required,max=255"`
}

// State is what the todo page re-renders with.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Result is the outcome of a mutation. A non-empty Redirect carries no state.
type Result struct {
	State    State
	Redirect string
}

// Store executes todo statements scoped to one user.
type Store interface {
	Insert(ctx context.Context, userID, content string) error
	Toggle(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]Todo, error)
}

// Revalidator discards cached renderings of a page path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Fetcher serves cached page data.
type Fetcher interface {
	Fetch(ctx context.Context, path, variant string, dest any, loader func(context.Context) (any, error)) error
}

// MutationRecorder counts mutation outcomes.
type MutationRecorder interface {
	RecordMutation(entity, op, outcome string)
}

// Service runs the todo pipeline.
type Service struct {
	store       Store
	revalidator Revalidator
	cache       Fetcher
	recorder    MutationRecorder
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewService constructs a Service. recorder may be nil.
func NewService(store Store, revalidator Revalidator, cache Fetcher, recorder MutationRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return &Service{
		store:       store,
		revalidator: revalidator,
		cache:       cache,
		recorder:    recorder,
		logger:      logger,
		validate:    v,
	}
}

// Create adds a todo for userID.
func (s *Service) Create(ctx context.Context, userID string, form url.Values) Result {
	in := Input{Content: strings.TrimSpace(form.Get("content"))}
	if err := s.validate.Struct(in); err != nil {
		s.record("create", "invalid")
		return Result{State: State{Errors: map[string][]string{"content": {MsgContent}}}}
	}
	if err := s.store.Insert(ctx, userID, in.Content); err != nil {
		s.logger.Error("create todo", slog.Any("error", err))
		s.record("create", "error")
		return Result{State: State{Message: MsgCreateFailed}}
	}
	s.record("create", "ok")
	s.revalidate(ctx)
	return Result{Redirect: ListPath}
}

// Toggle flips the completion flag of the user's todo id.
func (s *Service) Toggle(ctx context.Context, userID, id string) Result {
	if err := s.store.Toggle(ctx, userID, id); err != nil {
		s.logger.Error("toggle todo", slog.String("id", id), slog.Any("error", err))
		s.record("toggle", "error")
		return Result{State: State{Message: MsgUpdateFailed}}
	}
	s.record("toggle", "ok")
	s.revalidate(ctx)
	return Result{Redirect: ListPath}
}

// Delete removes the user's todo id. Deleting a missing todo succeeds.
func (s *Service) Delete(ctx context.Context, userID, id string) State {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		s.logger.Error("delete todo", slog.String("id", id), slog.Any("error", err))
		s.record("delete", "error")
		return State{Message: MsgDeleteFailed}
	}
	s.record("delete", "ok")
	s.revalidate(ctx)
	return State{Message: MsgDeleted}
}

// List returns the todos of userID through the path cache.
func (s *Service) List(ctx context.Context, userID string) ([]Todo, error) {
	var out []Todo
	err := s.cache.Fetch(ctx, ListPath, "user:"+userID, &out, func(ctx context.Context) (any, error) {
		return s.store.List(ctx, userID)
	})
	return out, err
}

func (s *Service) revalidate(ctx context.Context) {
	if s.revalidator == nil {
		return
	}
	if err := s.revalidator.Revalidate(ctx, ListPath); err != nil {
		s.logger.Warn("revalidate todos", slog.Any("error", err))
	}
}

func (s *Service) record(op, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordMutation("todo", op, outcome)
	}
}
