package enquiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/toast"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

// State is the engine's submission lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// DefaultSuccessDisplay is how long the success state stays visible before
// the form auto-resets and closes.
const DefaultSuccessDisplay = 2 * time.Second

// Sink receives a validated enquiry payload.
type Sink interface {
	Submit(ctx context.Context, payload Payload) error
}

// Hooks let the presenter react to the form opening and closing. Acquire is
// called once per open cycle and Release exactly once on every exit path,
// so a held page lock can never leak.
type Hooks struct {
	Acquire func()
	Release func()
}

// EngineParams wires the engine's collaborators.
type EngineParams struct {
	Sink           Sink
	Logger         *logger.Logger
	Metrics        *metrics.StorefrontMetrics
	Notifier       *toast.Notifier
	Hooks          Hooks
	SuccessDisplay time.Duration
}

// Engine manages one enquiry/registration form: a write-once context, an
// editable draft, synchronous all-at-once validation, and a single-flight
// submission lifecycle. Reopening resets the draft unconditionally.
type Engine struct {
	params EngineParams

	mu          sync.Mutex
	open        bool
	state       State
	formCtx     FormContext
	draft       Draft
	fieldErrors map[string]string
	errMessage  string
	generation  int
	resetTimer  *time.Timer
}

// NewEngine builds an engine around the given sink.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Sink == nil {
		return nil, fmt.Errorf("enquiry sink required")
	}
	if params.SuccessDisplay <= 0 {
		params.SuccessDisplay = DefaultSuccessDisplay
	}
	return &Engine{params: params, state: StateIdle}, nil
}

func defaultDraft(fc FormContext) Draft {
	quantity := fc.DefaultQuantity
	if quantity < 1 {
		quantity = 1
	}
	return Draft{Quantity: quantity, PurchaseType: PurchasePersonal}
}

// Open starts a form cycle for the given context, resetting any previous
// draft. Opening while already open re-targets the form without
// re-acquiring the presenter hook.
func (e *Engine) Open(fc FormContext) {
	e.mu.Lock()
	if fc.Kind == "" {
		fc.Kind = KindProductEnquiry
	}
	wasOpen := e.open
	e.open = true
	e.generation++
	e.stopResetTimerLocked()
	e.formCtx = fc
	e.draft = defaultDraft(fc)
	e.state = StateIdle
	e.fieldErrors = nil
	e.errMessage = ""
	e.mu.Unlock()

	if !wasOpen && e.params.Hooks.Acquire != nil {
		e.params.Hooks.Acquire()
	}
}

// Close dismisses the form without submitting (cancel, escape, backdrop or
// unmount all land here). An in-flight submission's result is discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return
	}
	e.open = false
	e.generation++
	e.stopResetTimerLocked()
	e.state = StateIdle
	e.fieldErrors = nil
	e.errMessage = ""
	e.mu.Unlock()

	if e.params.Hooks.Release != nil {
		e.params.Hooks.Release()
	}
}

// stopResetTimerLocked must be called with the lock held.
func (e *Engine) stopResetTimerLocked() {
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
}

// UpdateDraft replaces the editable fields. Moving the purchase type away
// from wholesale clears any entered company name so it cannot be submitted
// by flipping the toggle back and forth.
func (e *Engine) UpdateDraft(d Draft) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return pkgerrors.New(pkgerrors.CodeConflict, "enquiry form is not open")
	}
	if e.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}

	if d.PurchaseType != PurchaseWholesale {
		d.CompanyName = ""
	}
	e.draft = d
	e.fieldErrors = nil
	e.errMessage = ""
	if e.state != StateIdle {
		e.state = StateIdle
	}
	return nil
}

// IncrementQuantity bumps the draft quantity. Disabled while submitting.
func (e *Engine) IncrementQuantity() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open || e.state == StateSubmitting {
		return
	}
	e.draft.Quantity++
}

// DecrementQuantity lowers the draft quantity, flooring at 1. Disabled
// while submitting.
func (e *Engine) DecrementQuantity() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open || e.state == StateSubmitting {
		return
	}
	if e.draft.Quantity > 1 {
		e.draft.Quantity--
	}
}

// Submit validates the draft and hands the payload to the sink. While a
// submission is in flight further submits are rejected without reaching the
// sink. On success the draft resets to the open-time defaults and the form
// auto-closes after the success display window; on failure the draft is
// kept so the buyer's input is not lost.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()

	if !e.open {
		e.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "enquiry form is not open")
	}
	if e.state == StateSubmitting {
		e.mu.Unlock()
		e.params.Metrics.IncEnquiry("blocked")
		return pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}

	e.state = StateValidating
	if fields := validateDraft(e.draft); fields != nil {
		e.fieldErrors = fields
		e.state = StateIdle
		e.mu.Unlock()
		e.params.Metrics.IncEnquiry("invalid")
		return pkgerrors.New(pkgerrors.CodeValidation, "enquiry validation failed").WithDetails(fields)
	}

	payload := buildPayload(e.formCtx, e.draft)
	e.state = StateSubmitting
	generation := e.generation
	e.mu.Unlock()

	err := e.params.Sink.Submit(ctx, payload)

	e.mu.Lock()
	if generation != e.generation {
		// Form was closed or reopened while in flight; drop the result.
		e.mu.Unlock()
		return nil
	}

	if err != nil {
		e.state = StateError
		e.errMessage = "Something went wrong. Please try again."
		e.mu.Unlock()

		e.params.Metrics.IncEnquiry("error")
		if e.params.Notifier != nil {
			e.params.Notifier.Error("Enquiry not sent", "Please try again.")
		}
		if e.params.Logger != nil {
			e.params.Logger.Error(ctx, "enquiry submission failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "submit enquiry")
	}

	e.state = StateSuccess
	e.fieldErrors = nil
	e.errMessage = ""
	e.draft = defaultDraft(e.formCtx)
	e.resetTimer = time.AfterFunc(e.params.SuccessDisplay, func() {
		e.closeAfterSuccess(generation)
	})
	e.mu.Unlock()

	e.params.Metrics.IncEnquiry("success")
	if e.params.Notifier != nil {
		e.params.Notifier.Success("Enquiry sent", "We will get back to you shortly.")
	}
	return nil
}

func (e *Engine) closeAfterSuccess(generation int) {
	e.mu.Lock()
	if generation != e.generation || !e.open {
		e.mu.Unlock()
		return
	}
	e.open = false
	e.generation++
	e.resetTimer = nil
	e.state = StateIdle
	e.mu.Unlock()

	if e.params.Hooks.Release != nil {
		e.params.Hooks.Release()
	}
}

// Shutdown force-closes the form, releasing the presenter hook.
func (e *Engine) Shutdown() {
	e.Close()
}

// IsOpen reports whether a form cycle is active.
func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// State returns the lifecycle position.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns the current editable fields.
func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Context returns the write-once open-time fields.
func (e *Engine) Context() FormContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.formCtx
}

// FieldErrors returns the per-field messages from the last validation.
func (e *Engine) FieldErrors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fieldErrors == nil {
		return nil
	}
	copied := make(map[string]string, len(e.fieldErrors))
	for k, v := range e.fieldErrors {
		copied[k] = v
	}
	return copied
}

// ErrorMessage returns the form-level retry message, if any.
func (e *Engine) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMessage
}
