package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if body == "" {
		c.Request = httptest.NewRequest(method, target, nil)
	} else {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return c
}

func TestBindListQuery(t *testing.T) {
	cases := []struct {
		query string
		want  ListQuery
	}{
		{"", ListQuery{Paginated: false, Page: 1, Limit: 10}},
		{"?page=3", ListQuery{Paginated: true, Page: 3, Limit: 10}},
		{"?limit=5", ListQuery{Paginated: true, Page: 1, Limit: 5}},
		{"?page=2&limit=1000", ListQuery{Paginated: true, Page: 2, Limit: MaxLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got, err := BindListQuery(newContext(http.MethodGet, "/stories"+tc.query, ""))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBindListQueryRejectsInvalid(t *testing.T) {
	for _, q := range []string{"?page=0", "?page=-2", "?limit=0", "?page=x", "?limit=", "?page=1e3"} {
		_, err := BindListQuery(newContext(http.MethodGet, "/stories"+q, ""))
		assert.Error(t, err, q)
	}
}

func TestDecodeJSON(t *testing.T) {
	var req GenerateStoryRequest
	err := DecodeJSON(newContext(http.MethodPost, "/", `{"prompt":"p","mode":"mystery","max_length":300}`), &req)
	require.NoError(t, err)
	assert.Equal(t, GenerateStoryRequest{Prompt: "p", Mode: "mystery", MaxLength: 300}, req)

	err = DecodeJSON(newContext(http.MethodPost, "/", `{"prompt":"p","extra":1}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	err = DecodeJSON(newContext(http.MethodPost, "/", `{"max_length":"long"}`), &req)
	assert.Error(t, err)

	err = DecodeJSON(newContext(http.MethodPost, "/", "   "), &req)
	assert.EqualError(t, err, "request body is required")
}
