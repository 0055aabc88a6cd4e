package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpenseAmount(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    string
		wantErr string
	}{
		{json.Number("12.5"), "12.5", ""},
		{"7", "7", ""},
		{json.Number("0.01"), "0.01", ""},
		{json.Number("10.500"), "10.5", ""},
		{json.Number("0"), "", "amount must be greater than 0"},
		{json.Number("-3"), "", "amount must be greater than 0"},
		{json.Number("1.005"), "", "amount must have at most 2 decimal places"},
		{json.Number("9999999999999.99"), "9999999999999.99", ""},
		{json.Number("10000000000000"), "", "amount must be less than 10000000000000"},
		{json.Number("1e20"), "", "amount must be less than 10000000000000"},
		{json.Number("1e400"), "", "amount must be a number"},
		{"abc", "", "amount must be a number"},
		{nil, "", "amount must be a number"},
	}

	for _, tt := range tests {
		got, err := ParseExpenseAmount(tt.in)
		if tt.wantErr != "" {
			assert.EqualError(t, err, tt.wantErr, "input %#v", tt.in)
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name  string      `json:"name"`
		Value interface{} `json:"value"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","value":1.25}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, json.Number("1.25"), dst.Value)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(req, &dst), ErrEmptyBody)
}

func TestQueryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/expenses?group_id=4", nil)
	id, ok, err := QueryID(req, "group_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	req = httptest.NewRequest(http.MethodGet, "/expenses", nil)
	_, ok, err = QueryID(req, "group_id")
	require.NoError(t, err)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/expenses?group_id=x", nil)
	_, _, err = QueryID(req, "group_id")
	assert.Error(t, err)
}
