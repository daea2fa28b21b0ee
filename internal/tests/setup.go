package tests

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safelease/accounts-web/internal/api"
	apphttp "github.com/safelease/accounts-web/internal/http"
	"github.com/safelease/accounts-web/internal/http/handlers"
	"github.com/safelease/accounts-web/internal/middleware"
	"github.com/safelease/accounts-web/internal/session"
)

// frontend wires the full HTTP stack against a FakeAPI and drives it
// with a cookie-jar client, the way a browser would.
type frontend struct {
	Server *httptest.Server
	API    *FakeAPI
	client *http.Client
	jar    *cookiejar.Jar
}

func newFrontend(t *testing.T) *frontend {
	t.Helper()

	fake := NewFakeAPI()
	t.Cleanup(fake.Close)

	client := api.NewClient(fake.Server.URL)
	cookies := &session.CookieStore{Secure: false}
	manager := session.NewManager(client, nil)
	h := handlers.New(client, manager, cookies)
	srv := httptest.NewServer(apphttp.NewRouter(h, manager, cookies))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &frontend{
		Server: srv,
		API:    fake,
		jar:    jar,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// get issues a GET without following redirects and returns the response
// with the body already read.
func (f *frontend) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// postForm submits a form with the CSRF token filled in. It fetches the
// login page first if the jar does not hold a token yet.
func (f *frontend) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	token := f.csrfToken(t)
	if token == "" {
		f.get(t, "/ingresar")
		token = f.csrfToken(t)
	}
	require.NotEmpty(t, token, "CSRF token must be in the jar")
	form.Set(middleware.CSRFField, token)

	resp, err := f.client.PostForm(f.Server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *frontend) csrfToken(t *testing.T) string {
	t.Helper()
	return f.cookie(t, "safelease_csrf")
}

// cookie returns the named cookie's current value in the jar, or "".
func (f *frontend) cookie(t *testing.T, name string) string {
	t.Helper()
	u, err := url.Parse(f.Server.URL)
	require.NoError(t, err)
	for _, c := range f.jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login signs the fixture account in and asserts it landed on the
// dashboard redirect.
func (f *frontend) login(t *testing.T) {
	t.Helper()
	resp, _ := f.postForm(t, "/ingresar", url.Values{
		"email":    {TestEmail},
		"password": {TestPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Contains(t, []int{http.StatusFound, http.StatusSeeOther}, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}
