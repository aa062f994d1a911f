package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type (
	// ValidationError maps request fields to what is wrong with them.
	ValidationError map[string][]string

	malformedBody struct {
		cause error
	}
)

const (
	maxBodySize = 1 << 20
)

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for k := range v {
		fields = append(fields, k)
	}
	if len(fields) == 0 {
		return "The given data was invalid."
	}
	sort.Strings(fields)
	first := v[fields[0]][0]
	total := 0
	for _, msgs := range v {
		total += len(msgs)
	}
	switch total {
	case 1:
		return first
	case 2:
		return fmt.Sprintf("%v (and 1 more error)", first)
	default:
		return fmt.Sprintf("%v (and %v more errors)", first, total-1)
	}
}

func (v ValidationError) add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (m malformedBody) Error() string {
	return fmt.Sprintf("malformed request body: %v", m.cause)
}

func (m malformedBody) Unwrap() error {
	return m.cause
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// decode reads a JSON body into dst and validates it. Unknown fields are
// ignored, which is how a client supplied owner id gets dropped.
func (s *server) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	err := dec.Decode(dst)
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		invalid := ValidationError{}
		invalid.add(typeErr.Field, fmt.Sprintf("The %v field must be a %v.", humanField(typeErr.Field), jsonKind(typeErr.Type)))
		return invalid
	case errors.Is(err, io.EOF):
		// empty body, let validation report missing fields
	case err != nil:
		return malformedBody{cause: err}
	}
	return s.check(dst)
}

func (s *server) check(dst interface{}) error {
	err := s.validate.Struct(dst)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	invalid := ValidationError{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		name := humanField(field)
		switch fe.Tag() {
		case "required":
			invalid.add(field, fmt.Sprintf("The %v field is required.", name))
		case "email":
			invalid.add(field, fmt.Sprintf("The %v field must be a valid email address.", name))
		case "max":
			invalid.add(field, fmt.Sprintf("The %v field must not be greater than %v characters.", name, fe.Param()))
		case "maxbytes":
			invalid.add(field, fmt.Sprintf("The %v field must not be greater than %v bytes.", name, fe.Param()))
		case "min":
			invalid.add(field, fmt.Sprintf("The %v field must be at least %v characters.", name, fe.Param()))
		case "eqfield":
			target := strings.TrimSuffix(field, "_confirmation")
			invalid.add(target, fmt.Sprintf("The %v field confirmation does not match.", humanField(target)))
		default:
			invalid.add(field, fmt.Sprintf("The %v field is invalid.", name))
		}
	}
	return invalid
}

func humanField(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func jsonKind(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64:
		return "number"
	default:
		return t.Kind().String()
	}
}
