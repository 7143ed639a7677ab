// Package httpx holds the echo glue shared by every controller: request
// binding and validation, date parsing, and the JSON error handler.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"agrovision/pkg/apperr"
)

type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report wire names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("Dados inválidos", err.Error())
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	return apperr.Validation("Dados inválidos", details...)
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " é obrigatório"
	case "email":
		return f + " deve ser um email válido"
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", f, fe.Param())
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", f, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", f, fe.Param())
	case "lte":
		return fmt.Sprintf("%s deve ser menor ou igual a %s", f, fe.Param())
	}
	return fmt.Sprintf("%s inválido (%s)", f, fe.Tag())
}

// Bind decodes the body into v and runs the struct validator.
func Bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Validation("JSON inválido")
	}
	return c.Validate(v)
}

// ParseDate accepts a calendar day or an RFC 3339 timestamp.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation(field + " deve ser uma data (AAAA-MM-DD)")
}

// OptionalDate is ParseDate for fields that may be absent.
func OptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ErrorHandler renders every error as {"error": ...}. Unknown errors are
// logged and reported as a generic 500.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := http.StatusInternalServerError, errorBody{Error: "Erro interno do servidor"}

		var he *echo.HTTPError
		if ae, ok := apperr.As(err); ok {
			status, body = ae.Status, errorBody{Error: ae.Message, Details: ae.Details}
			if ae.Kind == apperr.KindInternal {
				log.Error().Err(ae.Err).Str("uri", c.Request().RequestURI).Msg("internal error")
			}
		} else if errors.As(err, &he) {
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(he.Code)
			}
		} else {
			log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
