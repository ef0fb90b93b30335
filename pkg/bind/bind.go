// Package bind decodes and validates JSON request bodies.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/pkg/validate"
)

const defaultMaxBody = 1 << 20

// ErrTrailingData is returned when the body holds more than one JSON value.
var ErrTrailingData = errors.New("invalid JSON: unexpected data after the request object")

func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", strconv.Itoa(defaultMaxBody)), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBody
	}
	return n
}

// JSON decodes r.Body into dest and validates it.
//
// Bodies that cannot be decoded as exactly one JSON value within the size
// cap yield a non-nil error. A well-formed body that breaks validation rules yields the field messages
// and a nil error. An empty body decodes as "{}" so required rules still
// report.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (map[string]string, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes()))

	if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", tooLarge.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, ErrTrailingData
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
