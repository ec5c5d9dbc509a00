package convert

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside *ConversionError, matched via errors.Is.
var (
	// ErrSkeleton marks forward conversion attempted on a skeleton adapter.
	ErrSkeleton = errors.New("target adapter is a skeleton")
	// ErrUnsupportedDirection marks a conversion direction the adapter
	// does not implement.
	ErrUnsupportedDirection = errors.New("conversion direction not supported")
	// ErrComponentNotSupported marks an unresolvable component type.
	ErrComponentNotSupported = errors.New("component type not supported")
)

// Direction is the conversion direction carried by ConversionError.
type Direction string

const (
	DirectionToTarget   Direction = "to-target"
	DirectionFromTarget Direction = "from-target"
)

// ConversionError is the base error for genuinely exceptional,
// non-recoverable conversion failures.
type ConversionError struct {
	Target    Target
	Direction Direction
	Details   map[string]any

	msg   string
	cause error
}

func (e *ConversionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (target %s, %s): %v", e.msg, e.Target, e.Direction, e.cause)
	}
	return fmt.Sprintf("%s (target %s, %s)", e.msg, e.Target, e.Direction)
}

func (e *ConversionError) Unwrap() error { return e.cause }

// NewConversionError builds a ConversionError wrapping cause (which may be
// nil).
func NewConversionError(target Target, direction Direction, msg string, cause error) *ConversionError {
	return &ConversionError{
		Target:    target,
		Direction: direction,
		Details:   map[string]any{},
		msg:       msg,
		cause:     cause,
	}
}

// NewSkeletonError is the documented failure of a skeleton adapter's forward
// conversion. The skeleton state is first-class and queryable: details carry
// the implementation-status flag and the planned feature list.
func NewSkeletonError(target Target, planned []string) *ConversionError {
	e := NewConversionError(target, DirectionToTarget, "forward conversion not implemented", ErrSkeleton)
	e.Details["implementation_status"] = "skeleton"
	e.Details["planned_features"] = planned
	return e
}

// NewUnsupportedDirection reports a direction the adapter does not support.
func NewUnsupportedDirection(target Target, direction Direction) *ConversionError {
	return NewConversionError(target, direction, "direction not supported by adapter", ErrUnsupportedDirection)
}

// NewComponentNotSupported reports an unresolvable component type, carrying
// the offending type string in the details map.
func NewComponentNotSupported(target Target, componentType string) *ConversionError {
	e := NewConversionError(target, DirectionToTarget,
		fmt.Sprintf("component type %q is not supported", componentType), ErrComponentNotSupported)
	e.Details["component_type"] = componentType
	return e
}

// Validation error codes. ValidationError is a data item in a list — always
// returned, never thrown — so batch validation reports every defect at once.
const (
	CodeMissingField          = "missing_field"
	CodeComponentNotSupported = "component_not_supported"
	CodeUnknownEdgeTarget     = "unknown_edge_target"
	CodeInvalidEdge           = "invalid_edge"
	CodeConstraintViolation   = "constraint_violation"
	CodeEmptySpecification    = "empty_specification"
)

// ValidationError is a structural or semantic defect found during
// validation.
type ValidationError struct {
	Code        string `json:"code"`
	ComponentID string `json:"component,omitempty"`
	Message     string `json:"message"`
}

func (v ValidationError) String() string {
	if v.ComponentID != "" {
		return fmt.Sprintf("%s: %s", v.ComponentID, v.Message)
	}
	return v.Message
}

// Messages flattens validation errors to their display strings.
func Messages(errs []ValidationError) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.String()
	}
	return out
}
