package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/utils"
)

type request struct {
	method string
	target string
	body   string
	uid    string
	role   string
	params map[string]string
}

func newContext(t *testing.T, r request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = utils.NewValidator()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.target, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if r.uid != "" {
		c.Set(middleware.ContextUID, r.uid)
	}
	if r.role != "" {
		c.Set(middleware.ContextRole, r.role)
	}
	names := make([]string, 0, len(r.params))
	values := make([]string, 0, len(r.params))
	for name, value := range r.params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
