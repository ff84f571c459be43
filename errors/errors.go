package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryDecode     Category = "decode"
	CategoryEncode     Category = "encode"
	CategoryContainer  Category = "container"
	CategorySearch     Category = "search"
	CategoryBudget     Category = "budget"
	CategoryCanceled   Category = "canceled"
	CategoryTimeout    Category = "timeout"
	CategoryPipeline   Category = "pipeline"
	CategoryConfig     Category = "config"
)

// PipelineError is the structured error type used throughout the module.
// Failures past intake carry the finalized report so callers can diagnose
// what the pipeline attempted before giving up.
type PipelineError struct {
	Category  Category
	Op        string // operation name
	Err       error
	Retryable bool

	// Report is the audit trail accumulated before the failure.  Nil for
	// errors raised before a report exists (nil request, pool mechanics).
	Report *core.TransformReport

	// Suggestions carries caller-facing remediation hints on budget
	// exhaustion.
	Suggestions []string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// New creates a non-retryable PipelineError.
func New(category Category, op string, err error) *PipelineError {
	return &PipelineError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// WithReport attaches rep to err when err is a PipelineError without one.
func WithReport(err error, rep *core.TransformReport) error {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.Report == nil {
		pe.Report = rep
	}
	return err
}

// NewBudget creates the budget-exhaustion error returned when every
// candidate, including the ultra-aggressive fallback, exceeded the ceiling.
func NewBudget(op string, rep *core.TransformReport, detail string) *PipelineError {
	err := error(ErrBudgetUnachievable)
	if detail != "" {
		err = fmt.Errorf("%w: %s", ErrBudgetUnachievable, detail)
	}
	return &PipelineError{
		Category:    CategoryBudget,
		Op:          op,
		Err:         err,
		Report:      rep,
		Suggestions: append([]string(nil), BudgetSuggestions...),
	}
}

// FromContext translates a context error into the retryable canceled or
// timeout category.
func FromContext(op string, ctxErr error, rep *core.TransformReport) *PipelineError {
	cat := CategoryCanceled
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		cat = CategoryTimeout
	}
	return &PipelineError{Category: cat, Op: op, Err: ctxErr, Retryable: true, Report: rep}
}

// IsRetryable reports whether err represents a transient failure the caller
// may resubmit unchanged.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// ReportOf extracts the attached report from err, or nil.
func ReportOf(err error) *core.TransformReport {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Report
	}
	return nil
}

// SuggestionsOf extracts remediation hints from err, or nil.
func SuggestionsOf(err error) []string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Suggestions
	}
	return nil
}

// BudgetSuggestions are the remediation hints attached to budget errors.
var BudgetSuggestions = []string{
	"raise maxSizeKB if the portal accepts a larger file",
	"supply smaller targetDimensions to shrink the pixel area",
	"re-scan or re-photograph the document at a lower resolution",
	"switch the target format to JPEG, which compresses photos best",
}

// Sentinel errors for common failure modes.
var (
	ErrEmptyInput            = errors.New("empty source document")
	ErrInvalidBudget         = errors.New("maxSizeKB must be a positive integer")
	ErrInconsistentBudget    = errors.New("minSizeKB exceeds maxSizeKB")
	ErrInvalidDimensions     = errors.New("invalid target dimensions")
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrUnsupportedConversion = errors.New("unsupported conversion path")
	ErrBudgetUnachievable    = errors.New("byte budget unachievable")
)
