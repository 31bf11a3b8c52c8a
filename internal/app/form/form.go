// Package form drives the create and edit product forms: field state,
// validation and submission.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mrops-br/financial-products/internal/app/remote"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/app/translate"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/pkg/clock"
)

var (
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	ErrAlreadySubmitted = errors.New("form: already submitted")
	ErrNotEditing       = errors.New("form: not accepting input")
	ErrResetNotAllowed  = errors.New("form: reset is only available when creating")
	ErrUnknownField     = errors.New("form: unknown field")
)

// MsgIDExists is shown under the id field when the pre-submit check finds
// the id taken.
const MsgIDExists = "El ID ya existe."

const (
	msgCreated      = "Producto creado con éxito"
	msgUpdated      = "Producto actualizado con éxito"
	msgUpdateFailed = "Hubo un error al actualizar el producto"
)

// Gateway is the part of the products API a form needs.
type Gateway interface {
	IDExists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	Replace(ctx context.Context, id string, product domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type State int

const (
	// Loading is only reachable on edit forms while the record is refreshed.
	Loading State = iota
	Editing
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of one Submit call. Errors is empty on success.
type Result struct {
	Product *domain.Product
	Errors  domain.FieldErrors
	Notice  *screen.Notice
}

func (r Result) OK() bool { return len(r.Errors) == 0 && r.Product != nil }

// Controller owns the state of one form instance. Methods are safe to call
// from several goroutines; remote calls run without holding the lock.
type Controller struct {
	mu sync.Mutex

	mode       Mode
	state      State
	originalID string
	values     domain.Product
	errors     domain.FieldErrors
	notice     *screen.Notice
	record     remote.Data[domain.Product]

	api    Gateway
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(c clock.Clock) Option {
	return func(f *Controller) { f.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Controller) { f.logger = logger }
}

// NewCreate returns a registration form filled with defaults.
func NewCreate(api Gateway, _ screen.CreateRoute, opts ...Option) *Controller {
	f := newController(api, ModeCreate, opts)
	f.values = f.defaults()
	f.state = Editing
	return f
}

// NewEdit returns an edit form seeded with the routed product.
func NewEdit(api Gateway, route screen.EditRoute, opts ...Option) *Controller {
	f := newController(api, ModeEdit, opts)
	p := route.Product.Normalized()
	f.originalID = p.ID
	f.values = p
	f.record = remote.ReadyData(p)
	f.state = Editing
	return f
}

func newController(api Gateway, mode Mode, opts []Option) *Controller {
	f := &Controller{
		mode:   mode,
		errors: domain.FieldErrors{},
		api:    api,
		clock:  clock.RealClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Controller) defaults() domain.Product {
	today := domain.DateOf(f.clock.Now())
	return domain.Product{
		DateRelease:  today.String(),
		DateRevision: today.AddYear().String(),
	}
}

func (f *Controller) Mode() Mode { return f.mode }

func (f *Controller) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns a copy of the current field values.
func (f *Controller) Values() domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns a copy of the current field errors.
func (f *Controller) Errors() domain.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.FieldErrors{}.Merge(f.errors)
}

// Notice returns the notice produced by the last submission, if any.
func (f *Controller) Notice() *screen.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Set changes one field by its wire name.
func (f *Controller) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Editing {
		return fmt.Errorf("%w (state %s)", ErrNotEditing, f.state)
	}

	switch field {
	case domain.FieldID:
		f.values.ID = value
	case domain.FieldName:
		f.values.Name = value
	case domain.FieldDescription:
		f.values.Description = value
	case domain.FieldLogo:
		f.values.Logo = value
	case domain.FieldDateRelease:
		f.values.DateRelease = value
	case domain.FieldDateRevision:
		f.values.DateRevision = value
	default:
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return nil
}

// SetRelease sets the release date and derives the revision date from it,
// as the date picker does. An unparseable release leaves revision unchanged.
func (f *Controller) SetRelease(release string) error {
	if err := f.Set(domain.FieldDateRelease, release); err != nil {
		return err
	}
	if revision, err := domain.RevisionFor(release); err == nil {
		return f.Set(domain.FieldDateRevision, revision)
	}
	return nil
}

// Reset restores the defaults of a registration form and clears errors.
// It never contacts the server.
func (f *Controller) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mode != ModeCreate {
		return ErrResetNotAllowed
	}
	if f.state == Submitting {
		return ErrSubmitInProgress
	}

	f.values = f.defaults()
	f.errors = domain.FieldErrors{}
	f.notice = nil
	f.state = Editing
	return nil
}

// Refresh reloads the edited record from the server. Input is rejected while
// the reload runs. On failure the form keeps its current values.
func (f *Controller) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.mode != ModeEdit {
		f.mu.Unlock()
		return nil
	}
	if f.state != Editing {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotEditing, state)
	}
	f.state = Loading
	f.record.Start()
	id := f.originalID
	f.mu.Unlock()

	p, err := f.api.Get(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Editing
	if err != nil {
		f.record.Fail(err)
		f.errors = translate.Errors(err)
		f.logger.WarnContext(ctx, "Failed to reload product",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}
	f.record.Succeed(*p)
	f.values = *p
	f.originalID = p.ID
	f.errors = domain.FieldErrors{}
	return nil
}

// Record exposes the load state of the edited record.
func (f *Controller) Record() remote.Data[domain.Product] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

// Submit runs the submission sequence: id check (create, or edit with a
// changed id), date validation, then create or update. It stops at the first
// failing step and returns to Editing with the errors populated.
func (f *Controller) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	case Submitted:
		f.mu.Unlock()
		return Result{}, ErrAlreadySubmitted
	case Loading:
		f.mu.Unlock()
		return Result{}, ErrNotEditing
	}
	f.state = Submitting
	f.notice = nil
	values := f.values
	originalID := f.originalID
	mode := f.mode
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "Submitting product form",
		slog.String("mode", mode.String()),
		slog.String("product_id", values.ID),
	)

	res := f.run(ctx, mode, originalID, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.notice = res.Notice
	if res.OK() {
		f.state = Submitted
		f.values = *res.Product
		f.errors = domain.FieldErrors{}
		f.originalID = res.Product.ID
		f.record.Succeed(*res.Product)
	} else {
		f.state = Editing
		f.errors = res.Errors
	}
	return res, nil
}

func (f *Controller) run(ctx context.Context, mode Mode, originalID string, values domain.Product) Result {
	if mode == ModeCreate || strings.TrimSpace(values.ID) != strings.TrimSpace(originalID) {
		exists, err := f.api.IDExists(ctx, values.ID)
		if err != nil {
			f.logger.ErrorContext(ctx, "Id verification failed",
				slog.String("product_id", values.ID),
				slog.String("error", err.Error()),
			)
			return Result{Errors: translate.Errors(err)}
		}
		if exists {
			return Result{Errors: domain.FieldErrors{domain.FieldID: MsgIDExists}}
		}
	}

	if errs := domain.ValidateDates(values.DateRelease, values.DateRevision); len(errs) > 0 {
		return Result{Errors: errs}
	}

	var (
		saved *domain.Product
		err   error
	)
	if mode == ModeCreate {
		saved, err = f.api.Create(ctx, values)
	} else {
		saved, err = f.api.Replace(ctx, originalID, values)
	}

	if err != nil {
		f.logger.WarnContext(ctx, "Product submission rejected",
			slog.String("mode", mode.String()),
			slog.String("product_id", values.ID),
			slog.String("error", err.Error()),
		)
		res := Result{Errors: translate.Errors(err)}
		if mode == ModeEdit {
			res.Notice = screen.Failure(msgUpdateFailed)
		}
		return res
	}

	msg := msgCreated
	if mode == ModeEdit {
		msg = msgUpdated
	}
	return Result{Product: saved, Notice: screen.Success(msg)}
}
