package supabase

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// CodeNoRows is the PostgREST code for a single-object request that matched no rows.
const CodeNoRows = "PGRST116"

// Error is a failure reported by the Supabase API.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorDetail is the JSON-safe view of the error included in 500 responses.
func (e *Error) ErrorDetail() any {
	return e
}

// IsNoRows reports whether err is a PostgREST "no rows" error.
func IsNoRows(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeNoRows
}

// errorBody covers the PostgREST shape ({code,message,details,hint}) and
// the GoTrue shapes ({code,error_code,msg} and {error,error_description}).
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          json.RawMessage `json:"details"`
	Hint             json.RawMessage `json:"hint"`
}

func decodeError(status int, raw []byte) *Error {
	apiErr := &Error{Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Code = body.ErrorCode
	if apiErr.Code == "" {
		var code string
		if json.Unmarshal(body.Code, &code) == nil {
			apiErr.Code = code
		}
	}
	apiErr.Details = rawString(body.Details)
	apiErr.Hint = rawString(body.Hint)

	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
