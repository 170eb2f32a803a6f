package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/rpupo63/personal-blog-backend/errs"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields,
// then validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return errs.NewUnsupportedMediaTypeError(contentType, []string{"application/json"})
		}
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewInvalidJSONError(errors.New("body must contain a single JSON object"))
	}

	return validateStruct(dst)
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return errs.NewMalformedPayloadError("JSON", err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errs.NewInvalidJSONError(err)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return errs.NewInvalidJSONError(err)
		}
		return errs.NewInvalidFieldError(field, "must be a "+typeErr.Type.String())
	case errors.As(err, &maxErr):
		return errs.NewMaxBodySizeExceededError(maxErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return errs.NewInvalidFieldError(field, "unknown field")
	default:
		return errs.NewInvalidJSONError(err)
	}
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := validationErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return errs.NewMissingRequiredFieldError(field)
	case "email":
		return errs.NewInvalidFieldError(field, "must be a valid email address")
	case "url", "http_url":
		return errs.NewInvalidFieldError(field, "must be a valid URL")
	case "uuid":
		return errs.NewInvalidFieldError(field, "must be a valid id")
	case "oneof":
		return errs.NewInvalidFieldError(field, "must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return errs.NewInvalidFieldError(field, "must be at most "+fe.Param()+" long")
	default:
		return errs.NewInvalidFieldError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}

// uuidField parses the body field name as a UUID. uuid.Parse accepts the
// same spellings as path parameters, uppercase included.
func uuidField(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a valid id")
	}
	return id, nil
}

// uuidParam parses the chi URL parameter name as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a valid id")
	}
	return id, nil
}

// positiveIntQuery reads a query value that must be an integer of at least 1.
func positiveIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errs.NewInvalidFieldError(key, "must be a positive integer")
	}
	return n, nil
}

// listQuery collects a filter given as repeated keys or comma separated values.
func listQuery(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
