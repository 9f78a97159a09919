package invoices

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

const (
	MsgCreateMissing = "Missing Fields. Failed to Create Invoice."
	MsgUpdateMissing = "Missing Fields. Failed to Update Invoice."
	MsgCreateFailed  = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed  = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed  = "Database Error: Failed to Delete Invoice."
	MsgDeleted       = "Deleted Invoice."
)

// State is what an invoice form or listing re-renders with.
type State struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Result is the outcome of a form mutation. A non-empty Redirect ends the
// flow: the caller navigates there and State is empty.
type Result struct {
	State    State
	Redirect string
}

// Store executes invoice statements.
type Store interface {
	Insert(ctx context.Context, inv Invoice) error
	Update(ctx context.Context, inv Invoice) error
	Delete(ctx context.Context, id string) error
}

// Revalidator discards cached renderings of a page path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// MutationRecorder counts mutation outcomes.
type MutationRecorder interface {
	RecordMutation(entity, op, outcome string)
}

// Service runs the invoice mutation pipeline:
// validate, persist, invalidate, then redirect or report.
type Service struct {
	store       Store
	revalidator Revalidator
	recorder    MutationRecorder
	logger      *slog.Logger
	clock       func() time.Time
}

// NewService constructs a Service. recorder may be nil.
func NewService(store Store, revalidator Revalidator, recorder MutationRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       store,
		revalidator: revalidator,
		recorder:    recorder,
		logger:      logger,
		clock:       time.Now,
	}
}

// Create validates form and inserts a new invoice dated today (UTC).
// prev is the state of the previous submission and only threads through.
func (s *Service) Create(ctx context.Context, prev State, form url.Values) Result {
	in, errs := ParseForm(form)
	if errs != nil {
		s.record("create", "invalid")
		return Result{State: State{Errors: errs, Message: MsgCreateMissing}}
	}

	inv := Invoice{
		CustomerID: in.CustomerID,
		Amount:     Cents(in.Amount),
		Status:     in.Status,
		Date:       s.clock().UTC().Format(time.DateOnly),
	}
	if err := s.store.Insert(ctx, inv); err != nil {
		s.logger.Error("create invoice", slog.Any("error", err))
		s.record("create", "error")
		return Result{State: State{Message: MsgCreateFailed}}
	}

	s.record("create", "ok")
	s.revalidate(ctx)
	return Result{Redirect: ListingPath}
}

// Update validates form and rewrites customer, amount and status of the
// invoice id. Updating an id that matches no row is not an error.
func (s *Service) Update(ctx context.Context, id string, prev State, form url.Values) Result {
	in, errs := ParseForm(form)
	if errs != nil {
		s.record("update", "invalid")
		return Result{State: State{Errors: errs, Message: MsgUpdateMissing}}
	}

	inv := Invoice{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     Cents(in.Amount),
		Status:     in.Status,
	}
	if err := s.store.Update(ctx, inv); err != nil {
		s.logger.Error("update invoice", slog.String("id", id), slog.Any("error", err))
		s.record("update", "error")
		return Result{State: State{Message: MsgUpdateFailed}}
	}

	s.record("update", "ok")
	s.revalidate(ctx)
	return Result{Redirect: ListingPath}
}

// Delete removes invoice id. It does not redirect; the listing that issued
// the delete shows the returned message.
func (s *Service) Delete(ctx context.Context, id string) State {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("delete invoice", slog.String("id", id), slog.Any("error", err))
		s.record("delete", "error")
		return State{Message: MsgDeleteFailed}
	}
	s.record("delete", "ok")
	s.revalidate(ctx)
	return State{Message: MsgDeleted}
}

// revalidate is fire-and-forget: a failed invalidation is logged and the
// mutation still succeeds.
func (s *Service) revalidate(ctx context.Context) {
	if s.revalidator == nil {
		return
	}
	if err := s.revalidator.Revalidate(ctx, ListingPath); err != nil {
		s.logger.Warn("revalidate invoices", slog.Any("error", err))
	}
}

func (s *Service) record(op, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordMutation("invoice", op, outcome)
	}
}
