package transport

import (
	"errors"
	"io"
	"net/http"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/types"
)

func TestClassify_Success(t *testing.T) {
	var out struct {
		Gateways []string `json:"gateways"`
	}
	err := Classify(clients.NewResponse(http.StatusOK, []byte(`{"gateways":["a"]}`)), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Gateways)

	assert.NoError(t, Classify(clients.NewResponse(http.StatusNoContent, nil), nil))
}

func TestClassify_SuccessWithBadJSON(t *testing.T) {
	var out map[string]any
	err := Classify(clients.NewResponse(http.StatusOK, []byte(`<html>`)), &out)
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestClassify_Failure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *types.StepError
	}{
		{
			name: "message",
			body: `{"message":"Amount too low"}`,
			want: &types.StepError{Message: "Amount too low"},
		},
		{
			name: "field",
			body: `{"field":"email","message":"Invalid email"}`,
			want: &types.StepError{Field: "email", Message: "Invalid email"},
		},
		{
			name: "field list",
			body: `[{"name":"firstName","message":"Required"},{"name":"lastName","message":"Too long"}]`,
			want: &types.StepError{Fields: []types.FieldError{
				{Name: "firstName", Message: "Required"},
				{Name: "lastName", Message: "Too long"},
			}},
		},
		{
			name: "fatal",
			body: `{"fatal":true,"message":"Transaction rejected"}`,
			want: &types.StepError{Fatal: true, Message: "Transaction rejected"},
		},
		{
			name: "json string",
			body: `"Service unavailable"`,
			want: &types.StepError{Message: "Service unavailable"},
		},
		{
			name: "object without message",
			body: `{"code":42}`,
			want: &types.StepError{Message: `{"code":42}`},
		},
		{
			name: "plain text",
			body: `Bad Gateway`,
			want: &types.StepError{Message: "Bad Gateway"},
		},
		{
			name: "blank body",
			body: "",
			want: &types.StepError{Message: types.DecodeFailureMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(clients.NewResponse(http.StatusBadRequest, []byte(tt.body)), nil)

			var stepErr *types.StepError
			require.ErrorAs(t, err, &stepErr)
			tt.want.StatusCode = http.StatusBadRequest
			assert.Equal(t, tt.want, stepErr)
		})
	}
}

func TestClassify_UnreadableBody(t *testing.T) {
	resp := clients.ReadResponse(&http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(iotest.ErrReader(errors.New("connection reset"))),
	})

	err := Classify(resp, nil)

	var stepErr *types.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, types.DecodeFailureMessage, stepErr.Message)
	assert.Equal(t, types.StepErrorMessage, stepErr.Kind())
	assert.False(t, stepErr.Fatal)
}
