package er

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

var stacktraceDisabled = []string{"No stack, ENABLE_STACKTRACE not set"}

type err struct {
	e      error
	code   *ErrorCode
	bstack []byte
	stack  []string
}

// R is the result type returned by every fallible function in this codebase.
// It is an interface rather than a struct so that nil comparisons work the
// way callers expect.
type R interface {
	Message() string
	Stack() []string
	String() string
	Wrapped0() error
	Native() error
}

func (e *err) Stack() []string {
	if e.stack == nil {
		if e.bstack != nil {
			e.stack = strings.Split(string(e.bstack), "\n")
		} else {
			e.stack = stacktraceDisabled
		}
	}
	return e.stack
}

func (e *err) Message() string {
	return e.e.Error()
}

func (e *err) String() string {
	if e.bstack != nil {
		return fmt.Sprintf("%s\n%s", e.e.Error(), strings.Join(e.Stack(), "\n"))
	}
	return e.e.Error()
}

func (e *err) Wrapped0() error {
	return e.e
}

func (e *err) Native() error {
	return errors.New(e.String())
}

func captureStack() []byte {
	if "" == os.Getenv("ENABLE_STACKTRACE") {
		return nil
	}
	return debug.Stack()
}

// Wrapped returns the native error wrapped by an R, or nil.
func Wrapped(e R) error {
	if e == nil {
		return nil
	}
	return e.Wrapped0()
}

// New creates a new R from a string message.
func New(s string) R {
	return &err{
		e:      errors.New(s),
		bstack: captureStack(),
	}
}

// Errorf creates a new R with fmt.Errorf semantics.
func Errorf(format string, a ...interface{}) R {
	return &err{
		e:      fmt.Errorf(format, a...),
		bstack: captureStack(),
	}
}

// E wraps a native error into an R.
func E(e error) R {
	if e == nil {
		return nil
	}
	return &err{
		e:      e,
		bstack: captureStack(),
	}
}

// ErrorType is a grouping of related error codes, for example all of the
// errors which can come from the script engine.
type ErrorType struct {
	name  string
	codes *[]*ErrorCode
}

// NewErrorType creates a new error type, the name given should identify the
// subsystem which emits the errors, e.g. "txscript.Err".
func NewErrorType(name string) ErrorType {
	codes := make([]*ErrorCode, 0, 64)
	return ErrorType{name: name, codes: &codes}
}

// Code registers a new error code with this error type.  The name given is
// the stable identifier of the code, the same string which appears in logs.
func (t ErrorType) Code(name string) *ErrorCode {
	c := &ErrorCode{
		Detail: name,
		Number: len(*t.codes),
		tname:  t.name,
	}
	*t.codes = append(*t.codes, c)
	return c
}

// Decode returns the error code carried by an error, if the error carries a
// code belonging to this error type, otherwise nil.
func (t ErrorType) Decode(e R) *ErrorCode {
	if e == nil {
		return nil
	}
	if ee, ok := e.(*err); ok && ee.code != nil && ee.code.tname == t.name {
		return ee.code
	}
	return nil
}

// Is returns true if the error carries any code belonging to this type.
func (t ErrorType) Is(e R) bool {
	return t.Decode(e) != nil
}

// ErrorCode is one specific error identity within an ErrorType.
type ErrorCode struct {
	Detail string
	Number int
	tname  string
}

// New creates an R carrying this error code.  The info string, if non-empty,
// is appended to the code's identifier.  The wrapped error, if any, is
// included in the message.
func (c *ErrorCode) New(info string, wrapped R) R {
	msg := fmt.Sprintf("%s(%s)", c.tname, c.Detail)
	if info != "" {
		msg = fmt.Sprintf("%s: %s", msg, info)
	}
	if wrapped != nil {
		msg = fmt.Sprintf("%s [%s]", msg, wrapped.Message())
	}
	return &err{
		e:      errors.New(msg),
		code:   c,
		bstack: captureStack(),
	}
}

// Default creates an R carrying this error code with no additional info.
func (c *ErrorCode) Default() R {
	return c.New("", nil)
}

// Is returns true if the given error carries this code.
func (c *ErrorCode) Is(e R) bool {
	if e == nil {
		return false
	}
	if ee, ok := e.(*err); ok {
		return ee.code == c
	}
	return false
}
