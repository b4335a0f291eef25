package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/msomdec/microblog/internal/domain"
)

// pathID parses the named path wildcard as a positive int64.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: parameter '%s' has an invalid value: '%s'", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// pageRequest reads the page and size query parameters. Absent values fall
// back to the defaults applied by PageRequest.Normalize.
func pageRequest(r *http.Request) (domain.PageRequest, error) {
	var req domain.PageRequest
	verr := domain.NewValidationError()

	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("page", "must be an integer")
		case n < 0:
			verr.Add("page", "must not be negative")
		default:
			req.Page = n
		}
	}
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("size", "must be an integer")
		case n < 0:
			verr.Add("size", "must not be negative")
		default:
			req.Size = n
		}
	}

	if verr.Empty() {
		if size := req.Normalize().Size; req.Page > math.MaxInt/size {
			verr.Add("page", "is too large")
		}
	}
	if !verr.Empty() {
		return domain.PageRequest{}, verr
	}
	return req, nil
}
