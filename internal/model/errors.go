package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies pipeline failures. All kinds are fatal for the run.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "CONFIGURATION"
	KindDivergence    ErrorKind = "DIVERGENCE"
	KindDomain        ErrorKind = "DOMAIN"
	KindInputData     ErrorKind = "INPUT_DATA"
)

// Sentinels for errors.Is. A *Error matches a sentinel of the same kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrDivergence    = &Error{Kind: KindDivergence}
	ErrDomain        = &Error{Kind: KindDomain}
	ErrInputData     = &Error{Kind: KindInputData}
)

// Error is a pipeline error carrying the year/age/model/delta_l combination
// that triggered it.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, " "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// WithContext adds a key/value pair identifying where the error happened.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *Error) WithYear(year int) *Error        { return e.WithContext("year", year) }
func (e *Error) WithAge(age int) *Error          { return e.WithContext("age", age) }
func (e *Error) WithRho(rho float64) *Error      { return e.WithContext("rho", rho) }
func (e *Error) WithDeltaL(d float64) *Error     { return e.WithContext("delta_l", d) }
func (e *Error) WithModel(m UtilityModel) *Error { return e.WithContext("model", string(m)) }

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NewConfigurationError reports a missing reference year/age or an invalid
// calibration constant.
func NewConfigurationError(format string, args ...interface{}) *Error {
	return newError(KindConfiguration, nil, format, args...)
}

// NewDivergenceError reports BETA*s_100 >= 1 at the terminal age.
func NewDivergenceError(format string, args ...interface{}) *Error {
	return newError(KindDivergence, nil, format, args...)
}

// NewDomainError reports an undefined valuation, e.g. a negative base under a
// fractional power.
func NewDomainError(format string, args ...interface{}) *Error {
	return newError(KindDomain, nil, format, args...)
}

// NewInputDataError reports malformed or incomplete life-table input.
func NewInputDataError(cause error, format string, args ...interface{}) *Error {
	return newError(KindInputData, cause, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
