package transport

import (
	"fmt"
	"runtime/debug"

	"github.com/aamyot/molecule/pkg/api"
)

// PanicError is returned by Recovery when the wrapped application panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recovery returns middleware that catches panics in the application and
// converts them to a *PanicError. The server continues to accept new
// requests after a panic is recovered.
func Recovery() Middleware {
	return func(next Application) Application {
		return ApplicationFunc(func(req *api.Request, resp *api.Response) (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return next.Handle(req, resp)
		})
	}
}
