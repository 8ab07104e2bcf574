package apic

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Error is an error reported by the APIC in an imdata error object.
type Error struct {
	Status int
	Code   string
	Text   string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("apic: HTTP %d: %s", e.Status, e.Text)
	}
	return fmt.Sprintf("apic: HTTP %d: error %s: %s", e.Status, e.Code, e.Text)
}

// parseError returns the error carried in body, if any. A non-2xx status
// without an error object is still reported.
func parseError(status int, body []byte) error {
	apicErr := gjson.GetBytes(body, "imdata.0.error.attributes")
	if apicErr.Exists() {
		return &Error{
			Status: status,
			Code:   apicErr.Get("code").String(),
			Text:   apicErr.Get("text").String(),
		}
	}
	if status < 200 || status > 299 {
		return &Error{Status: status, Text: http.StatusText(status)}
	}
	return nil
}

// IsNotAuthenticated reports whether err is an APIC authentication failure.
func IsNotAuthenticated(err error) bool {
	e, ok := errors.Cause(err).(*Error)
	if !ok {
		return false
	}
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
