// Package form implements the modal mutation form: validate locally, submit
// exactly one request at a time, report the outcome and hand control back to
// the parent page.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/validation"
)

var (
	// ErrBusy is returned while a previous submission is still in flight
	ErrBusy = errors.New("submission already in progress")
	// ErrClosed is returned by Submit after a successful submission closed the form
	ErrClosed = errors.New("form closed")
)

// State is the lifecycle state of a form
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Rule is an extra check that struct tags cannot express
type Rule func(input any) validation.Errors

// Config parameterizes a Form
type Config struct {
	Name           string
	SuccessMessage string
	Validator      *validation.Validator
	Rules          []Rule
	Notifier       notify.Notifier
	Logger         zerolog.Logger
	// OnDone runs after a successful submission, before the form closes.
	// The parent uses it to refresh its data.
	OnDone func(ctx context.Context) error
}

// Form is one open instance of a modal mutation form. At most one submission
// is in flight per instance.
type Form struct {
	cfg Config
	log zerolog.Logger

	mu        sync.Mutex
	state     State
	fieldErrs validation.Errors
	lastErr   string
}

// New opens a form in the Idle state
func New(cfg Config) *Form {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	if cfg.Validator == nil {
		cfg.Validator = validation.NewValidator()
	}
	return &Form{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "form").Str("form", cfg.Name).Logger(),
	}
}

// Submit validates input and, when valid, calls send. Invalid input never
// reaches send; the field errors are returned as validation.Errors.
func (f *Form) Submit(ctx context.Context, input any, send func(ctx context.Context) error) error {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return ErrBusy
	case StateSuccess, StateClosed:
		f.mu.Unlock()
		return ErrClosed
	}
	if errs := f.validate(input); len(errs) > 0 {
		f.fieldErrs = errs
		f.lastErr = ""
		f.mu.Unlock()
		return errs
	}
	f.state = StateSubmitting
	f.fieldErrs = nil
	f.lastErr = ""
	f.mu.Unlock()

	err := send(ctx)

	f.mu.Lock()
	if err != nil {
		f.state = StateIdle
		f.lastErr = err.Error()
		f.mu.Unlock()
		f.log.Warn().Err(err).Msg("Submission failed")
		f.cfg.Notifier.Notify(notify.LevelError, err.Error())
		return err
	}
	f.state = StateSuccess
	f.mu.Unlock()

	f.log.Info().Msg("Submission succeeded")
	if f.cfg.SuccessMessage != "" {
		f.cfg.Notifier.Notify(notify.LevelSuccess, f.cfg.SuccessMessage)
	}

	var doneErr error
	if f.cfg.OnDone != nil {
		doneErr = f.cfg.OnDone(ctx)
	}

	f.mu.Lock()
	f.state = StateClosed
	f.mu.Unlock()
	return doneErr
}

// State returns the current state
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy reports whether a submission is in flight
func (f *Form) Busy() bool {
	return f.State() == StateSubmitting
}

// Closed reports whether the form finished successfully
func (f *Form) Closed() bool {
	return f.State() == StateClosed
}

// FieldErrors returns the errors of the last rejected input
func (f *Form) FieldErrors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrs
}

// LastError returns the message of the last failed submission
func (f *Form) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Form) validate(input any) validation.Errors {
	var errs validation.Errors
	if input != nil {
		if err := f.cfg.Validator.Struct(input); err != nil {
			if fe, ok := validation.AsErrors(err); ok {
				errs = append(errs, fe...)
			} else {
				errs = append(errs, validation.ValidationError{Field: "form", Message: err.Error()})
			}
		}
	}
	for _, rule := range f.cfg.Rules {
		errs = append(errs, rule(input)...)
	}
	return errs
}
