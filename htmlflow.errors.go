package htmlflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-htmlflow/internal"
)

// Error message constants
const (
	// Usage errors
	ErrMsgModelRequired       = "view depends on a model; render it with a model"
	ErrMsgRenderOnStream      = "view writes to a stream; use Write instead of Render"
	ErrMsgWriteOnBuffer       = "view renders to an in-memory buffer; use Render instead of Write"
	ErrMsgConcurrentSharedUse = "concurrent render on a view that is not thread safe"
	ErrMsgAwaitInSyncView     = "await blocks require an async view"
	ErrMsgModelType           = "model type does not match the view"
	ErrMsgNilTemplate         = "template cannot be nil"
	ErrMsgNilBlock            = "block function cannot be nil"
	ErrMsgElementNotOpen      = "element is not the innermost open element"
	ErrMsgEndOnRoot           = "cannot close the page root"
	ErrMsgEndBorrowed         = "cannot close the element that owns a dynamic block from inside the block"
	ErrMsgUnbalancedStep      = "dynamic block left elements open"
	ErrMsgEmptyViewName       = "view name cannot be empty"
	ErrMsgNilView             = "view cannot be nil"
	ErrMsgViewExists          = "view already registered"
	ErrMsgViewNotFound        = "view not found"

	// Configuration errors
	ErrMsgThreadSafeStream = "thread safe views cannot write to a shared stream"
	ErrMsgInvalidLogLevel  = "invalid log level"
	ErrMsgInvalidCache     = "cache limits cannot be negative"
	ErrMsgConfigDecode     = "failed to decode configuration"
	ErrMsgConfigRead       = "failed to read configuration file"
	ErrMsgHandlerShared    = "page handlers require a thread safe view"

	// Template errors
	ErrMsgContractViolation = "template definition violated the discovery contract"
	ErrMsgDiscoveryPanic    = "template panicked during discovery"

	// Render errors
	ErrMsgAsyncStepFailed = "async step failed"
	ErrMsgAsyncPanic      = "async render panicked"
	ErrMsgRenderCanceled  = "render canceled"
	ErrMsgMarkup          = "invalid markup construction"
)

// Error code constants for categorization
const (
	ErrCodeUsage    = "HTMLFLOW_USAGE"
	ErrCodeConfig   = "HTMLFLOW_CONFIG"
	ErrCodeTemplate = "HTMLFLOW_TEMPLATE"
	ErrCodeRender   = "HTMLFLOW_RENDER"
	ErrCodeRegistry = "HTMLFLOW_REGISTRY"
)

// Sentinel errors matched with errors.Is.
var (
	ErrInvalidUsage      = errors.New("invalid usage")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrContractViolation = errors.New("template definition contract violation")
	ErrAsyncStep         = errors.New("asynchronous step failure")
	ErrMarkup            = errors.New("markup error")
)

// NewInvalidUsageError reports an operation called in the wrong way, for
// example rendering a model dependent view without a model.
func NewInvalidUsageError(msg, operation string) error {
	return cuserr.WrapStdError(ErrInvalidUsage, ErrCodeUsage, msg).
		WithMetadata(MetaKeyOperation, operation)
}

// NewInvalidConfigError reports a configuration rejected before any render.
func NewInvalidConfigError(msg, operation string) error {
	return cuserr.WrapStdError(ErrInvalidConfig, ErrCodeConfig, msg).
		WithMetadata(MetaKeyOperation, operation)
}

// NewContractViolationError reports a template that cannot be discovered.
func NewContractViolationError(view, reason string, cause error) error {
	err := cuserr.WrapStdError(contractCause(cause), ErrCodeTemplate, ErrMsgContractViolation).
		WithMetadata(MetaKeyView, view)
	if reason != "" {
		err = err.WithMetadata(MetaKeyReason, reason)
	}
	return err
}

// NewAsyncStepError reports the failure of the async step at chain index node.
func NewAsyncStepError(node int, cause error) error {
	return cuserr.WrapStdError(&stepError{cause: cause}, ErrCodeRender, ErrMsgAsyncStepFailed).
		WithMetadata(MetaKeyNode, strconv.Itoa(node))
}

// NewRenderCanceledError reports a render stopped by its context.
func NewRenderCanceledError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgRenderCanceled)
}

// NewMarkupError converts a structural element error.
func NewMarkupError(cause error) error {
	err := cuserr.WrapStdError(&markupError{cause: cause}, ErrCodeRender, ErrMsgMarkup)
	var me *internal.MarkupError
	if errors.As(cause, &me) && me.Tag != "" {
		err = err.WithMetadata(MetaKeyTag, me.Tag)
	}
	return err
}

// NewModelTypeError reports a model of the wrong type passed to a view.
func NewModelTypeError(view string, model any) error {
	return cuserr.WrapStdError(ErrInvalidUsage, ErrCodeUsage, ErrMsgModelType).
		WithMetadata(MetaKeyView, view).
		WithMetadata(MetaKeyModelType, fmt.Sprintf("%T", model))
}

// NewViewExistsError reports a registry name collision.
func NewViewExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgViewExists).
		WithMetadata(MetaKeyView, name)
}

// NewViewNotFoundError reports an unknown view name.
func NewViewNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyView, ErrMsgViewNotFound).
		WithMetadata(MetaKeyView, name)
}

// IsInvalidUsage reports whether err is an Invalid Usage error.
func IsInvalidUsage(err error) bool {
	return errors.Is(err, ErrInvalidUsage)
}

// IsInvalidConfig reports whether err is an Invalid Configuration error.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsContractViolation reports whether err is a Template Definition
// Contract Violation.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsAsyncStepFailure reports whether err is an Asynchronous Step Failure.
func IsAsyncStepFailure(err error) bool {
	return errors.Is(err, ErrAsyncStep)
}

// IsCanceled reports whether err ends a render stopped by its context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// stepError ties a step failure to ErrAsyncStep and its cause.
type stepError struct {
	cause error
}

func (e *stepError) Error() string {
	if e.cause == nil {
		return ErrAsyncStep.Error()
	}
	return ErrAsyncStep.Error() + ": " + e.cause.Error()
}

func (e *stepError) Unwrap() []error {
	return []error{ErrAsyncStep, e.cause}
}

// markupError ties an internal markup error to ErrMarkup.
type markupError struct {
	cause error
}

func (e *markupError) Error() string {
	return e.cause.Error()
}

func (e *markupError) Unwrap() []error {
	return []error{ErrMarkup, e.cause}
}

func contractCause(cause error) error {
	if cause == nil {
		return ErrContractViolation
	}
	return &contractError{cause: cause}
}

type contractError struct {
	cause error
}

func (e *contractError) Error() string {
	return e.cause.Error()
}

func (e *contractError) Unwrap() []error {
	return []error{ErrContractViolation, e.cause}
}

// wrapRenderError classifies an error recorded by a render visitor.
// Errors that already carry a taxonomy pass through unchanged.
func wrapRenderError(err error) error {
	if err == nil {
		return nil
	}
	var ce *cuserr.CustomError
	if errors.As(err, &ce) {
		return err
	}
	var me *internal.MarkupError
	if errors.As(err, &me) {
		return NewMarkupError(err)
	}
	return err
}

func markupCause(msg, tag string) error {
	return internal.NewMarkupError(msg, tag)
}
