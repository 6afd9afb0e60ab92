package frontend

import (
	"bytes"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jo-hoe/imgup/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	uploads     [][]string
	recentCalls int
	failDetail  bool
	failUpload  bool
}

func (f *fakeAPI) register(e *echo.Echo) {
	e.PUT("/api/upload", func(c echo.Context) error {
		if f.failUpload {
			return c.String(http.StatusInternalServerError, "storage down")
		}
		form, err := c.MultipartForm()
		if err != nil {
			return err
		}
		var names []string
		for _, fh := range form.File["file"] {
			names = append(names, fh.Filename)
		}
		f.uploads = append(f.uploads, names)
		return c.JSON(http.StatusOK, map[string]any{"success": true, "id": "new1"})
	})
	e.GET("/api/recent", func(c echo.Context) error {
		f.recentCalls++
		return c.JSONBlob(http.StatusOK, []byte(`{"storageURL":"https://blob.test/imgup","ids":["new1","old2"]}`))
	})
	e.GET("/api/detail/:id", func(c echo.Context) error {
		if f.failDetail {
			return c.String(http.StatusNotFound, "not found")
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"captions":[{"text":"a <b>cat</b>","confidence":0.875}],"tags":["cat"]}`))
	})
}

func newTestServer(t *testing.T, api *fakeAPI) *echo.Echo {
	t.Helper()
	return newTestServerWithRateLimit(t, api, 0)
}

func newTestServerWithRateLimit(t *testing.T, api *fakeAPI, uploadRateLimit float64) *echo.Echo {
	t.Helper()
	backend := echo.New()
	api.register(backend)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	config := &core.ServiceConfig{
		Port:        core.DefaultPort,
		APIEndpoint: srv.URL + "/api",
		StorageURL:  "https://blob.test/imgup",

		UploadRateLimit: uploadRateLimit,
	}
	coreService, err := core.NewCoreService(config)
	require.NoError(t, err)

	e := echo.New()
	NewFrontendService(config, coreService).SetRoutes(e)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/htmx/upload", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(headerCurrentURL, "https://imgup.test/")
	return req
}

func TestIndexPage(t *testing.T) {
	e := newTestServer(t, &fakeAPI{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="recent-image"`)
	assert.Contains(t, body, `hx-get="/htmx/recent"`)
	assert.Contains(t, body, "Loading...")
	assert.Contains(t, body, `id="upload-file"`)
}

func TestImageDetailPage(t *testing.T) {
	e := newTestServer(t, &fakeAPI{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/i/abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hx-get="/htmx/detail/abc123"`)
	assert.Contains(t, body, `src="https://blob.test/imgup/abc123"`)
}

func TestHtmxRecent(t *testing.T) {
	api := &fakeAPI{}
	e := newTestServer(t, api)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/htmx/recent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get(headerReswap))
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="recent-image" hx-swap-oob="innerHTML">`)
	assert.Contains(t, body, `<a href="/i/new1"><img width="100%" src="https://blob.test/imgup/new1"/></a>`)
	assert.NotContains(t, body, "Loading...")
	assert.Less(t, strings.Index(body, "new1"), strings.Index(body, "old2"))
	assert.Equal(t, 1, api.recentCalls)
}

func TestHtmxDetail_EscapesServerText(t *testing.T) {
	e := newTestServer(t, &fakeAPI{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/htmx/detail/abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="image-info"`)
	assert.Contains(t, body, "a &lt;b&gt;cat&lt;/b&gt; – 88%")
	assert.NotContains(t, body, "<b>cat</b>")
}

func TestHtmxDetail_FailureLeavesInfoUntouched(t *testing.T) {
	e := newTestServer(t, &fakeAPI{failDetail: true})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/htmx/detail/abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, `id="image-info"`)
	assert.Contains(t, body, `<div id="modal" hx-swap-oob="innerHTML">`)
	assert.Contains(t, body, "Error")
}

func TestHtmxUpload_ShowsLinkAndRefreshesOnce(t *testing.T) {
	api := &fakeAPI{}
	e := newTestServer(t, api)

	rec := serve(e, uploadRequest(t, map[string]string{"cat.png": "cat-bytes"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, [][]string{{"cat.png"}}, api.uploads)
	assert.Contains(t, body, `value="https://imgup.test/i/new1"`)
	assert.Contains(t, body, `id="upload-file"`)
	assert.Contains(t, body, `<div id="recent-image" hx-swap-oob="innerHTML">`)
	assert.Equal(t, 1, api.recentCalls)
}

func TestHtmxUpload_FailureDoesNotRefresh(t *testing.T) {
	api := &fakeAPI{failUpload: true}
	e := newTestServer(t, api)

	rec := serve(e, uploadRequest(t, map[string]string{"cat.png": "cat-bytes"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="modal" hx-swap-oob="innerHTML">`)
	assert.NotContains(t, body, `id="recent-image"`)
	assert.NotContains(t, body, `id="upload-file"`)
	assert.Zero(t, api.recentCalls)
}

func TestHtmxUpload_ZeroFilesStillCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	e := newTestServer(t, api)

	rec := serve(e, uploadRequest(t, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, api.uploads, 1)
	assert.Empty(t, api.uploads[0])
}

func TestCurrentPageURL_FallsBackToHost(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/htmx/recent", nil)
	req.Host = "imgup.test:8080"
	ctx := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "http://imgup.test:8080/", currentPageURL(ctx))

	req.Header.Set("Referer", "https://imgup.test/")
	assert.Equal(t, "https://imgup.test/", currentPageURL(ctx))

	req.Header.Set(headerCurrentURL, "https://imgup.test/gallery/")
	assert.Equal(t, "https://imgup.test/gallery/", currentPageURL(ctx))
}

func TestIconPNG(t *testing.T) {
	e := newTestServer(t, &fakeAPI{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/icon.png?size=48", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimePNG, rec.Header().Get(echo.HeaderContentType))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestIconSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", defaultIconSize},
		{"abc", defaultIconSize},
		{"1", minIconSize},
		{"64", 64},
		{"4096", maxIconSize},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, iconSize(tt.raw))
		})
	}
}

func TestHtmxUpload_RateLimit(t *testing.T) {
	tests := []struct {
		name            string
		uploadRateLimit float64
		wantUploads     int
		wantLimited     bool
	}{
		{name: "disabled", uploadRateLimit: 0, wantUploads: 3},
		{name: "one per client", uploadRateLimit: 0.001, wantUploads: 1, wantLimited: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			e := newTestServerWithRateLimit(t, api, tt.uploadRateLimit)

			var bodies []string
			for i := 0; i < 3; i++ {
				rec := serve(e, uploadRequest(t, map[string]string{"cat.png": "cat-bytes"}))
				require.Equal(t, http.StatusOK, rec.Code, "upload %d", i)
				assert.Equal(t, "none", rec.Header().Get(headerReswap), "upload %d", i)
				bodies = append(bodies, rec.Body.String())
			}

			assert.Len(t, api.uploads, tt.wantUploads)
			assert.Contains(t, bodies[0], `value="https://imgup.test/i/new1"`)
			for _, body := range bodies[1:] {
				if tt.wantLimited {
					assert.Contains(t, body, `<div id="modal" hx-swap-oob="innerHTML">`)
					assert.Contains(t, body, ErrUploadRateLimited.Error())
					assert.NotContains(t, body, `id="recent-image"`)
				} else {
					assert.Contains(t, body, `value="https://imgup.test/i/new1"`)
				}
			}
		})
	}
}
