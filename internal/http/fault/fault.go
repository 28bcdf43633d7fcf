// Package fault describes failures raised by the HTTP framework layer itself
// rather than by application code: undecodable request bodies, unmatched
// routes, unsupported methods, and recovered panics.
//
// Gin reports these situations through NoRoute/NoMethod handlers, binding
// errors, and panics. The middleware in this module turns each of them into a
// *Fault recorded on the Gin context so that a single translator can map them
// onto the application error taxonomy.
package fault

import (
	"fmt"
	"strings"
)

// Kind categorizes a framework-level fault.
type Kind int

const (
	BadRequest Kind = iota
	NotFound
	MethodNotAllowed
	InternalServerError
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case NotFound:
		return "not_found"
	case MethodNotAllowed:
		return "method_not_allowed"
	case InternalServerError:
		return "internal_server_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// JSONDecodePrefix starts the description of every bad request raised
// because a JSON body could not be decoded.
const JSONDecodePrefix = "Failed to decode JSON object"

// Fault is a framework-level failure.
type Fault struct {
	Kind        Kind
	Description string
	Err         error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Description, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Description)
}

func (f *Fault) Unwrap() error { return f.Err }

// IsJSONDecode reports whether f is a bad request caused by an undecodable
// JSON body.
func (f *Fault) IsJSONDecode() bool {
	return f.Kind == BadRequest && strings.HasPrefix(f.Description, JSONDecodePrefix)
}

// NewBadRequest returns a bad request fault with the given description.
func NewBadRequest(desc string, err error) *Fault {
	return &Fault{Kind: BadRequest, Description: desc, Err: err}
}

// DecodeJSON returns the bad request fault raised when a request body is not
// valid JSON for the target type.
func DecodeJSON(err error) *Fault {
	desc := JSONDecodePrefix
	if err != nil {
		desc += ": " + err.Error()
	}
	return &Fault{Kind: BadRequest, Description: desc, Err: err}
}

// RouteNotFound returns the fault raised when no route matches the request.
func RouteNotFound(path string) *Fault {
	return &Fault{Kind: NotFound, Description: "no route matches " + path}
}

// NewMethodNotAllowed returns the fault raised when the route exists but not
// for the request method.
func NewMethodNotAllowed(method, path string) *Fault {
	return &Fault{Kind: MethodNotAllowed, Description: method + " not allowed on " + path}
}

// Internal returns an internal server error fault wrapping err.
func Internal(err error) *Fault {
	return &Fault{Kind: InternalServerError, Description: "internal server error", Err: err}
}
