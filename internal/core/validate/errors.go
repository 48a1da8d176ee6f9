package validate

import (
	"fmt"
	"strings"
)

// FieldError is implemented by every validation error. It names the rejected
// field and value so a prompt can ask again with a meaningful message.
type FieldError interface {
	error
	FieldName() string
	// Recoverable reports whether asking for the field again may succeed.
	Recoverable() bool
}

// SelfReferentialNameError is returned when a project name collides with a
// package the project will depend on.
type SelfReferentialNameError struct {
	Field string
	Value string
}

func (e *SelfReferentialNameError) Error() string {
	return fmt.Sprintf("your project can not be named '%s' because the '%s' package will be installed as a project dependency", e.Value, e.Value)
}

func (e *SelfReferentialNameError) FieldName() string { return e.Field }
func (e *SelfReferentialNameError) Recoverable() bool { return true }

// ConflictingProviderError is returned when mutually exclusive realtime
// providers are selected together.
type ConflictingProviderError struct {
	Field string
	Value []string
}

func (e *ConflictingProviderError) Error() string {
	return fmt.Sprintf("you can only pick socketio or primus, not both (got %s)", strings.Join(e.Value, ", "))
}

func (e *ConflictingProviderError) FieldName() string { return e.Field }
func (e *ConflictingProviderError) Recoverable() bool { return true }

// InvalidChoiceError is returned for values outside a field's allowed set.
type InvalidChoiceError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidChoiceError) FieldName() string { return e.Field }
func (e *InvalidChoiceError) Recoverable() bool { return true }

// UnresolvedPropertyError is returned when a required field has no value and
// no default once collection is over.
type UnresolvedPropertyError struct {
	Field string
}

func (e *UnresolvedPropertyError) Error() string {
	return fmt.Sprintf("required property %q has no value", e.Field)
}

func (e *UnresolvedPropertyError) FieldName() string { return e.Field }
func (e *UnresolvedPropertyError) Recoverable() bool { return false }
