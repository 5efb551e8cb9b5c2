package constraints

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	OutOfBounds ErrorKind = iota
	NoExist
	FunctionError
	NoConvergence
	ValueAtRiskError
	JSONError
	OptimizationError
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "out_of_bounds"
	case NoExist:
		return "no_exist"
	case FunctionError:
		return "function_error"
	case NoConvergence:
		return "no_convergence"
	case ValueAtRiskError:
		return "value_at_risk_error"
	case JSONError:
		return "json_error"
	case OptimizationError:
		return "optimization_error"
	}
	return "unknown"
}

// ParameterError is the only error type clients ever see. Detail holds the
// parameter name, selector or pass-through message depending on Kind.
type ParameterError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ParameterError) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return fmt.Sprintf("Parameter %s out of bounds.", e.Detail)
	case NoExist:
		return fmt.Sprintf("Parameter %s does not exist.", e.Detail)
	case FunctionError:
		return fmt.Sprintf("Function indicator %s does not exist.", e.Detail)
	case NoConvergence:
		return "Root does not exist for implied volatility"
	}
	return e.Detail
}

// Envelope is the client-facing error body.
type Envelope struct {
	Err string `json:"err"`
}

func (e *ParameterError) Envelope() Envelope {
	return Envelope{Err: e.Error()}
}

func NewOutOfBounds(name string) *ParameterError {
	return &ParameterError{Kind: OutOfBounds, Detail: name}
}

func NewNoExist(name string) *ParameterError {
	return &ParameterError{Kind: NoExist, Detail: name}
}

func NewFunctionError(selector string) *ParameterError {
	return &ParameterError{Kind: FunctionError, Detail: selector}
}

func NewNoConvergence() *ParameterError {
	return &ParameterError{Kind: NoConvergence}
}

func NewValueAtRiskError(msg string) *ParameterError {
	return &ParameterError{Kind: ValueAtRiskError, Detail: msg}
}

func NewJSONError(msg string) *ParameterError {
	return &ParameterError{Kind: JSONError, Detail: msg}
}

func NewOptimizationError(msg string) *ParameterError {
	return &ParameterError{Kind: OptimizationError, Detail: msg}
}

// AsParameterError reports whether err carries a ParameterError.
func AsParameterError(err error) (*ParameterError, bool) {
	var pe *ParameterError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
