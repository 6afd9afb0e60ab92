package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/jo-hoe/imgup/internal/ui"
	"github.com/jo-hoe/imgup/internal/view"
	"github.com/labstack/echo/v4"
)

const (
	headerCurrentURL = "HX-Current-URL"
	headerReswap     = "HX-Reswap"

	// maxUploadMemory is the part of a multipart upload kept in memory, the rest spills to disk.
	maxUploadMemory = 32 << 20
)

// newPage creates the page one htmx request renders into.
func (service *FrontendService) newPage(ctx echo.Context, files []apiclient.File) *ui.Recorder {
	return ui.NewRecorder(currentPageURL(ctx), files)
}

// currentPageURL is the URL of the page the request was made from.
func currentPageURL(ctx echo.Context) string {
	req := ctx.Request()
	if u := req.Header.Get(headerCurrentURL); u != "" {
		return u
	}
	if u := req.Referer(); u != "" {
		return u
	}
	return fmt.Sprintf("%s://%s/", ctx.Scheme(), req.Host)
}

// selectedFiles returns the files of the upload form. Empty file inputs are
// skipped so an empty selection yields no files. The returned func closes
// every opened file and is never nil.
func selectedFiles(ctx echo.Context) ([]apiclient.File, func(), error) {
	var opened []interface{ Close() error }
	closeAll := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				slog.Error("selectedFiles: failed to close uploaded file", "error", err)
			}
		}
	}

	if err := ctx.Request().ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, closeAll, nil
		}
		return nil, closeAll, fmt.Errorf("failed to parse upload form: %w", err)
	}

	form := ctx.Request().MultipartForm
	var files []apiclient.File
	for _, fh := range form.File[apiclient.FileField] {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		opened = append(opened, src)

		contentType := fh.Header.Get(echo.HeaderContentType)
		if contentType == echo.MIMEOctetStream {
			// let the client sniff the real type
			contentType = ""
		}
		files = append(files, apiclient.File{
			Name:        fh.Filename,
			ContentType: contentType,
			Content:     src,
		})
	}
	return files, closeAll, nil
}

// writeSwaps answers an htmx request with one out-of-band swap per touched
// target. The main swap is disabled so targets not mentioned stay as they are.
func (service *FrontendService) writeSwaps(ctx echo.Context, page *ui.Recorder) error {
	var b strings.Builder
	for _, m := range page.Final() {
		if err := view.Render(&b, swapNode(m)); err != nil {
			slog.Error("writeSwaps: failed to render fragment",
				"status", http.StatusInternalServerError, "target", m.Target, "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to render page fragment")
		}
	}

	ctx.Response().Header().Set(headerReswap, "none")
	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, b.String())
}

func swapNode(m ui.Mutation) view.Node {
	switch m.Kind {
	case ui.MutationModal:
		return view.El("div", view.A("id", ui.TargetModal, "hx-swap-oob", "innerHTML"), view.Modal(m.Title, m.Nodes))
	case ui.MutationClearFileInput:
		input := fileInput()
		input.Attrs = append(input.Attrs, view.Attr{Key: "hx-swap-oob", Val: "true"})
		return input
	default:
		return view.El("div", view.A("id", m.Target, "hx-swap-oob", "innerHTML"), m.Nodes...)
	}
}

// fileInput is the empty file picker of the upload form.
func fileInput() view.Node {
	return view.El("input", view.A(
		"id", ui.TargetFileInput,
		"type", "file",
		"name", apiclient.FileField,
		"accept", "image/*",
		"multiple", "",
	))
}
