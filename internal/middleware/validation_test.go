package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "haulpulse/internal/errors"
	"haulpulse/internal/haulage"
	"haulpulse/internal/shared/testutil"
)

func TestQueryValidator_ParsePeriod(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       *haulage.Period
		wantFields []string
	}{
		{name: "absent means default period", query: "", want: nil},
		{name: "blank values count as absent", query: "year=&month=", want: nil},
		{name: "valid pair", query: "year=2024&month=3", want: &haulage.Period{Year: 2024, Month: 3}},
		{name: "surrounding spaces", query: "year=%202024&month=12%20", want: &haulage.Period{Year: 2024, Month: 12}},
		{name: "year without month", query: "year=2024", wantFields: []string{"month"}},
		{name: "month without year", query: "month=3", wantFields: []string{"year"}},
		{name: "month zero", query: "year=2024&month=0", wantFields: []string{"month"}},
		{name: "month thirteen", query: "year=2024&month=13", wantFields: []string{"month"}},
		{name: "negative year", query: "year=-1&month=1", wantFields: []string{"year"}},
		{name: "non numeric", query: "year=abc&month=x", wantFields: []string{"year", "month"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewQueryValidator(logger)
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+tt.query, nil)

			got, err := v.ParsePeriod(r)

			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.Nil(t, got)

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, apierrors.CodeInvalidPeriod, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			fields := make([]string, 0, len(details.Errors))
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestQueryValidator_ParseEnum(t *testing.T) {
	allowed := []string{"csv", "xlsx"}
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{name: "default", query: "", want: "csv"},
		{name: "explicit", query: "format=xlsx", want: "xlsx"},
		{name: "case insensitive", query: "format=CSV", want: "csv"},
		{name: "rejected", query: "format=pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewQueryValidator(logger)
			r := httptest.NewRequest(http.MethodGet, "/api/export?"+tt.query, nil)

			got, err := v.ParseEnum(r, ParamFormat, allowed, "csv", apierrors.ErrUnsupportedFormat)
			if tt.wantErr {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, apierrors.CodeUnsupportedFormat, apiErr.ErrorCode)
				assert.Contains(t, apiErr.Message, `"pdf"`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
