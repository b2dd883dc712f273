package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"fmt"
	"net/http"
	"reflect"
)

const (
	MsgServerError    = "An unexpected server error occurred."
	MsgInvalidJSON    = "Request body must be valid JSON."
	MsgBodyTooLarge   = "Request body is too large."
	MsgWrongType      = "Request body has a field of the wrong type."
	MsgNotFound       = "Resource not found."
	MsgMethodNotAllow = "Method not allowed."
	MsgRateLimited    = "Too many requests."
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
	Error   any           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, message string, details []ErrorDetail) {
	JSON(w, status, ErrorResponse{Message: message, Details: details})
}

// ServerError writes a 500 carrying the underlying error and logs it.
func ServerError(w http.ResponseWriter, r *http.Request, message string, err error) {
	LoggerFrom(r).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFrom(r),
		"err", err,
	)
	JSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: message,
		Error:   errorDetail(err),
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON reads the request body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// DecodeError answers a request whose body DecodeJSON rejected.
func DecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge, nil)
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		Error(w, http.StatusBadRequest, MsgWrongType, []ErrorDetail{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		}})
		return
	}
	Error(w, http.StatusBadRequest, MsgInvalidJSON, nil)
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, MsgNotFound, nil)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusMethodNotAllowed, MsgMethodNotAllow, nil)
}

func errorDetail(err error) any {
	if err == nil {
		return nil
	}
	var d interface{ ErrorDetail() any }
	if errors.As(err, &d) {
		return d.ErrorDetail()
	}
	return map[string]string{"message": err.Error()}
}
