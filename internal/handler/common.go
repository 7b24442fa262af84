package handler // handler defines http handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

// errValidation marks a missing or unparseable form field. Handlers map it
// to HTTP 400.
var errValidation = errors.New("validation failed")

// getUserID extracts the session user id injected by the session middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id, nil
	}
	return 0, errors.New("no user in context")
}

// formValues returns the parsed form (POST body plus query). Echo parses
// lazily; an unparseable body yields an empty set.
func formValues(c echo.Context) url.Values {
	vals, err := c.FormParams()
	if err != nil {
		return url.Values{}
	}
	return vals
}

// requiredFloat parses a mandatory float field. Absence and garbage are
// both validation failures.
func requiredFloat(vals url.Values, key string) (float64, error) {
	if !vals.Has(key) {
		return 0, errValidation
	}
	f, err := strconv.ParseFloat(vals.Get(key), 64)
	if err != nil {
		return 0, errValidation
	}
	return f, nil
}

// optionalFloat parses an optional float field: nil when the field was not
// submitted at all, errValidation when submitted but unparseable. Presence
// is what distinguishes "leave unchanged" from "set to this value".
func optionalFloat(vals url.Values, key string) (*float64, error) {
	if !vals.Has(key) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(vals.Get(key), 64)
	if err != nil {
		return nil, errValidation
	}
	return &f, nil
}

// optionalString returns a pointer to the submitted value, or nil when the
// field was absent. Empty strings are legitimate values (clearing text,
// image_url, color or label), so presence alone decides.
func optionalString(vals url.Values, key string) *string {
	if !vals.Has(key) {
		return nil
	}
	v := vals.Get(key)
	return &v
}

// floatOr parses an optional float with a default for creation forms.
func floatOr(vals url.Values, key string, def float64) (float64, error) {
	p, err := optionalFloat(vals, key)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return def, nil
	}
	return *p, nil
}

// requiredID parses the numeric id field mutation forms carry.
func requiredID(vals url.Values) (uint64, error) {
	id, err := strconv.ParseUint(vals.Get("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errValidation
	}
	return id, nil
}
