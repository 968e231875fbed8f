package httphandler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/medsupply/internal/adapter/httphandler"
	"github.com/niksmo/medsupply/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ httphandler.Service = (*service.Store)(nil)

type client struct {
	t   *testing.T
	srv *httptest.Server
	cl  *http.Client
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Store) {
	t.Helper()

	store := service.New(service.SyncDelaysOpt(0, 0))
	mux := http.NewServeMux()
	httphandler.Register(mux, store)
	sessions := httphandler.NewSessions(
		httphandler.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
		store,
	)

	srv := httptest.NewServer(httphandler.NewHandler(mux, sessions))
	t.Cleanup(srv.Close)
	return srv, store
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, srv: srv, cl: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(c.t.Context(), method, c.srv.URL+path, r)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.cl.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestCatalog(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	res, data := c.do(http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	ps := decode[[]httphandler.Product](t, data)
	require.Len(t, ps, 8)
	assert.Equal(t, "Normal Saline", ps[0].Name)

	res, data = c.do(http.MethodGet, "/v1/products/2", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Digital BP Machine", decode[httphandler.Product](t, data).Name)

	res, _ = c.do(http.MethodGet, "/v1/products/404", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestQuoteFlow(t *testing.T) {
	srv, store := newTestServer(t)
	customer := newClient(t, srv)
	staff := newClient(t, srv)

	for range 2 {
		res, _ := customer.do(http.MethodPost, "/v1/cart/items", map[string]string{
			"product_id": "1",
		})
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	res, data := customer.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []httphandler.CartLine{
		{ProductID: "1", Quantity: 2, Name: "Normal Saline"},
	}, decode[[]httphandler.CartLine](t, data))

	res, _ = staff.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, data = customer.do(http.MethodPost, "/v1/quotes", map[string]string{
		"name": "Jane", "email": "j@x.com", "phone": "123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	q := decode[httphandler.Quote](t, data)
	assert.Equal(t, "Pending", q.Status)
	assert.Regexp(t, `^QT-[0-9A-F]{6}$`, q.ID)

	res, data = customer.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decode[[]httphandler.CartLine](t, data))

	res, data = staff.do(http.MethodGet, "/v1/admin/quotes", nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	screen := decode[httphandler.Screen](t, data)
	assert.Equal(t, "login", screen.Name)
	assert.Equal(t, "admin", screen.RedirectFrom)

	res, data = staff.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"name": "Grace Phiri", "role": "ADMIN",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "grace.phiri@funsasuppliers.com", decode[httphandler.User](t, data).Email)

	res, data = staff.do(http.MethodGet, "/v1/admin/quotes", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	quotes := decode[[]httphandler.Quote](t, data)
	require.Len(t, quotes, 1)
	assert.Equal(t, q.ID, quotes[0].ID)

	res, data = staff.do(http.MethodPatch, "/v1/admin/quotes/"+q.ID, map[string]any{
		"status": "Approved", "total_estimated": "80.5",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	updated := decode[httphandler.Quote](t, data)
	assert.Equal(t, "Approved", updated.Status)
	require.NotNil(t, updated.TotalEstimated)
	assert.Equal(t, "80.50", updated.TotalEstimated.StringFixed(2))

	res, _ = staff.do(http.MethodGet, "/v1/admin/audit-log", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = staff.do(http.MethodGet, "/v1/admin/archive/quotes/"+q.ID, nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	require.NoError(t, store.Wait(t.Context()))
}

func TestCartErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	res, _ := c.do(http.MethodPost, "/v1/cart/items", map[string]string{
		"product_id": "404",
	})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/v1/quotes", map[string]string{
		"name": "Jane", "email": "j@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/v1/cart/items", map[string]string{
		"unknown": "1",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, err := http.NewRequestWithContext(
		t.Context(), http.MethodPost, srv.URL+"/v1/cart/items",
		strings.NewReader(`{"product_id":"1"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := c.cl.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestSuperAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	res, _ := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"name": "Root", "role": "SUPER_ADMIN",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, data := c.do(http.MethodGet, "/v1/session/screen", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "super-admin-dashboard", decode[httphandler.Screen](t, data).Name)

	res, data = c.do(http.MethodPost, "/v1/admin/audit-log", map[string]string{
		"action": "EXPORT", "details": "quotes exported",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "INFO_EXPORT", decode[httphandler.AuditEntry](t, data).Action)

	res, data = c.do(http.MethodGet, "/v1/admin/audit-log", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	log := decode[[]httphandler.AuditEntry](t, data)
	require.Len(t, log, 2)
	assert.Equal(t, "INFO_EXPORT", log[0].Action)
	assert.Equal(t, "SECURE_AUTH", log[1].Action)
	assert.Equal(t, "Root", log[1].UserID)

	res, _ = c.do(http.MethodDelete, "/v1/admin/products/8", nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/v1/auth/logout", nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, data = c.do(http.MethodGet, "/v1/session", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	st := decode[httphandler.SessionState](t, data)
	assert.Nil(t, st.User)
	assert.Equal(t, "home", st.View)
}

func TestSessionView(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	res, data := c.do(http.MethodPut, "/v1/session/view", map[string]string{
		"view": "contact",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, httphandler.Screen{
		Name: "marketing", Layout: "composite", Section: "contact",
	}, decode[httphandler.Screen](t, data))

	res, data = c.do(http.MethodPost, "/v1/session/theme", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"dark_mode":true}`, string(data))
}
