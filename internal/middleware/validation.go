package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "haulpulse/internal/errors"
	"haulpulse/internal/haulage"
)

// Query parameter names of the dashboard API.
const (
	ParamYear   = "year"
	ParamMonth  = "month"
	ParamFormat = "format"
	ParamTable  = "table"
)

type periodQuery struct {
	Year  int `json:"year" validate:"gte=1,lte=9999"`
	Month int `json:"month" validate:"gte=1,lte=12"`
}

// QueryValidator parses and validates dashboard query parameters
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a validator that reports fields by their JSON
// names.
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// ParsePeriod reads the optional year/month pair. It returns nil when both
// are absent and an *apierrors.APIError with code INVALID_PERIOD when only
// one is given, either is not an integer, or the month is outside 1..12.
func (v *QueryValidator) ParsePeriod(r *http.Request) (*haulage.Period, error) {
	q := r.URL.Query()
	rawYear := strings.TrimSpace(q.Get(ParamYear))
	rawMonth := strings.TrimSpace(q.Get(ParamMonth))

	if rawYear == "" && rawMonth == "" {
		return nil, nil
	}

	var fields []apierrors.ValidationError
	if rawYear == "" {
		fields = append(fields, apierrors.ValidationError{Field: ParamYear, Message: "year is required when month is given"})
	}
	if rawMonth == "" {
		fields = append(fields, apierrors.ValidationError{Field: ParamMonth, Message: "month is required when year is given"})
	}
	if len(fields) > 0 {
		return nil, v.reject(r, fields)
	}

	year, errYear := strconv.Atoi(rawYear)
	if errYear != nil {
		fields = append(fields, apierrors.ValidationError{Field: ParamYear, Message: "year must be a valid integer"})
	}
	month, errMonth := strconv.Atoi(rawMonth)
	if errMonth != nil {
		fields = append(fields, apierrors.ValidationError{Field: ParamMonth, Message: "month must be a valid integer"})
	}
	if len(fields) > 0 {
		return nil, v.reject(r, fields)
	}

	if err := v.validator.Struct(periodQuery{Year: year, Month: month}); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			fields = append(fields, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		return nil, v.reject(r, fields)
	}
	return &haulage.Period{Year: year, Month: month}, nil
}

// ParseEnum returns the lower-cased value of param, or def when it is absent.
// Values outside allowed produce err.
func (v *QueryValidator) ParseEnum(r *http.Request, param string, allowed []string, def string, err *apierrors.APIError) (string, error) {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(param)))
	if value == "" {
		return def, nil
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}

	v.logger.DebugContext(r.Context(), "rejected query parameter",
		slog.String("param", param),
		slog.String("value", value))
	return "", apierrors.NewWithDetails(err.StatusCode, err.ErrorCode,
		fmt.Sprintf("%s: %q", err.Message, value),
		map[string]interface{}{"param": param, "allowed": allowed})
}

func (v *QueryValidator) reject(r *http.Request, fields []apierrors.ValidationError) error {
	v.logger.DebugContext(r.Context(), "rejected period query",
		slog.String("query", r.URL.RawQuery),
		slog.Int("violations", len(fields)))
	return apierrors.InvalidPeriodError(fields)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
