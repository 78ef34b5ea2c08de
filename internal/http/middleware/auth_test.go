package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/rfp-quotation/internal/model"
)

type fakeParser struct{}

func (fakeParser) Parse(token string) (model.Principal, error) {
	if token != "good" {
		return model.Principal{}, errors.New("bad token")
	}
	return model.Principal{Subject: "user-1"}, nil
}

func newRouter(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(parser))
	r.GET("/me", func(c *gin.Context) {
		principal, _ := MustPrincipal(c)
		c.String(http.StatusOK, principal.Subject)
	})
	return r
}

func TestAuth(t *testing.T) {
	cases := []struct {
		name   string
		parser TokenParser
		header string
		status int
		body   string
	}{
		{"disabled", nil, "", http.StatusOK, ""},
		{"missing", fakeParser{}, "", http.StatusUnauthorized, ""},
		{"wrong scheme", fakeParser{}, "Basic good", http.StatusUnauthorized, ""},
		{"invalid", fakeParser{}, "Bearer bad", http.StatusUnauthorized, ""},
		{"valid", fakeParser{}, "Bearer good", http.StatusOK, "user-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			newRouter(tc.parser).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusOK && rec.Body.String() != tc.body {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.body)
			}
		})
	}
}
