// Package handlers maps HTTP routes onto store operations. Each handler is
// independent glue: decode, one or two queries, envelope the result.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads a request body into dst, false on malformed input.
func decodeJSON(r *http.Request, dst any) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

// isDuplicateKey reports whether a store error is a unique-index violation.
// Handlers pre-check for duplicates, but under concurrency the index is the
// arbiter; the drivers phrase the violation differently (sqlite says
// "UNIQUE constraint failed", postgres "duplicate key value").
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// violations flattens validator errors into a field -> reason map for the
// response envelope.
func violations(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["payload"] = "invalid"
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if field != "" {
			field = strings.ToLower(field[:1]) + field[1:]
		}
		switch fe.Tag() {
		case "required":
			out[field] = "required"
		case "email":
			out[field] = "must_be_email"
		case "gt", "gte":
			out[field] = "must_be_positive"
		case "oneof":
			out[field] = "must_be_one_of_" + strings.ReplaceAll(fe.Param(), " ", "_")
		default:
			out[field] = "invalid"
		}
	}
	return out
}
