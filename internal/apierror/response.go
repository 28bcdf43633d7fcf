package apierror

import (
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
)

// Response is the serialized form of an Error.
//
// StatusCode and Code are required at the point of emission. Data is an
// opaque payload: it is never validated and is omitted from the JSON body
// when nil.
type Response struct {
	StatusCode int    `json:"status_code" validate:"required,gte=100,lte=599"`
	Code       string `json:"code" validate:"required,min=1"`
	Data       any    `json:"data,omitempty" validate:"-"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// NewResponse builds the wire model for err. A nil err yields the server
// error response. Data is dropped for server errors.
func NewResponse(err *Error) Response {
	if err == nil {
		err = Server()
	}
	resp := Response{
		StatusCode: err.StatusCode(),
		Code:       err.Code(),
		Data:       err.Data,
	}
	// Server errors never expose data.
	if resp.Code == CodeServer {
		resp.Data = nil
	}
	return resp
}

// Validate checks the required fields.
func (r Response) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("apierror: invalid response: %w", err)
	}
	return nil
}

// Marshal validates r and returns its JSON encoding. Map keys in Data are
// emitted in sorted order, so the output for a given value is stable.
func (r Response) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("apierror: encode response: %w", err)
	}
	return b, nil
}

// serverBody is the pre-encoded fallback used when a response cannot be
// validated or encoded.
var serverBody = []byte(`{"status_code":500,"code":"server-error"}`)

// Render returns the status and body to emit for err. It never fails: when
// the response built from err is invalid or its data cannot be encoded, the
// server error body is returned together with the encoding error so the
// caller can log it.
func Render(err *Error) (status int, body []byte, renderErr error) {
	resp := NewResponse(err)
	b, mErr := resp.Marshal()
	if mErr != nil {
		return KindServer.StatusCode(), serverBody, mErr
	}
	return resp.StatusCode, b, nil
}
