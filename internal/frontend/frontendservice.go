package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/jo-hoe/imgup/internal/common"
	"github.com/jo-hoe/imgup/internal/core"
	"github.com/jo-hoe/imgup/internal/ui"
	"github.com/jo-hoe/imgup/internal/view"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	MainPageName   = "index.html"
	DetailPageName = "imagedetail.html"
	mimePNG        = "image/png"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = newTemplate()
	if e.Validator == nil {
		e.Validator = &common.GenericEchoValidator{}
	}

	e.GET("/", service.indexHandler)
	e.GET("/"+MainPageName, service.indexHandler)
	e.GET("/"+view.DetailPathSegment+":id", service.imageDetailHandler)

	e.PUT("/htmx/upload", service.htmxUploadHandler, service.uploadLimiter()...)
	e.GET("/htmx/recent", service.htmxRecentHandler)
	e.GET("/htmx/detail/:id", service.htmxDetailHandler)

	// Favicon routes
	e.GET("/icon.svg", service.iconHandler)
	e.GET("/icon.png", service.iconPNGHandler)

	// Probe route, excluded from request logging
	e.GET("/probe", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "OK")
	})
}

// ErrUploadRateLimited is shown to clients uploading faster than uploadRateLimit allows.
var ErrUploadRateLimited = errors.New("too many uploads, please wait a moment and try again")

func (service *FrontendService) uploadLimiter() []echo.MiddlewareFunc {
	if service.config.UploadRateLimit <= 0 {
		return nil
	}
	store := middleware.NewRateLimiterMemoryStore(rate.Limit(service.config.UploadRateLimit))
	return []echo.MiddlewareFunc{middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			slog.Error("uploadLimiter: failed to identify client", "error", err)
			return service.uploadAlert(ctx, err)
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			slog.Warn("uploadLimiter: upload rate limited", "status", http.StatusTooManyRequests, "client", identifier)
			return service.uploadAlert(ctx, ErrUploadRateLimited)
		},
	})}
}

// uploadAlert answers an upload that never reached the API with an error modal.
func (service *FrontendService) uploadAlert(ctx echo.Context, err error) error {
	page := service.newPage(ctx, nil)
	page.ModalAlert(ui.TitleError, view.ErrorBody(err))
	return service.writeSwaps(ctx, page)
}

type pageData struct {
	Title      string
	ImageID    string
	ImageURL   string
	DetailPath string
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, pageData{Title: "imgup"})
}

type imageParams struct {
	ID string `param:"id" validate:"required"`
}

func (service *FrontendService) bindImageID(ctx echo.Context) (string, error) {
	var params imageParams
	if err := ctx.Bind(&params); err != nil {
		return "", err
	}
	if err := ctx.Validate(&params); err != nil {
		return "", err
	}
	return params.ID, nil
}

func (service *FrontendService) imageDetailHandler(ctx echo.Context) error {
	id, err := service.bindImageID(ctx)
	if err != nil {
		slog.Warn("imageDetailHandler: invalid image id", "status", http.StatusBadRequest, "error", err)
		return err
	}

	data := pageData{
		Title:      "imgup – " + id,
		ImageID:    id,
		DetailPath: "/htmx/detail/" + url.PathEscape(id),
	}
	if service.config.StorageURL != "" {
		data.ImageURL = fmt.Sprintf("%s/%s", service.config.StorageURL, id)
	}
	return ctx.Render(http.StatusOK, DetailPageName, data)
}

func (service *FrontendService) htmxUploadHandler(ctx echo.Context) error {
	files, closeFiles, err := selectedFiles(ctx)
	defer closeFiles()
	if err != nil {
		slog.Error("htmxUploadHandler: failed to read selected files",
			"status", http.StatusBadRequest, "error", err)
		return service.uploadAlert(ctx, err)
	}

	page := service.newPage(ctx, files)
	if err := service.coreService.UI(page).Uploader.Upload(ctx.Request().Context()); err != nil {
		slog.Error("htmxUploadHandler: upload failed", "error", err, "files", len(files))
	}
	return service.writeSwaps(ctx, page)
}

func (service *FrontendService) htmxRecentHandler(ctx echo.Context) error {
	page := service.newPage(ctx, nil)
	if err := service.coreService.UI(page).Recent.Load(ctx.Request().Context()); err != nil {
		slog.Error("htmxRecentHandler: failed to load recent images", "error", err)
	}
	return service.writeSwaps(ctx, page)
}

func (service *FrontendService) htmxDetailHandler(ctx echo.Context) error {
	id, err := service.bindImageID(ctx)
	if err != nil {
		slog.Warn("htmxDetailHandler: invalid image id", "status", http.StatusBadRequest, "error", err)
		return err
	}

	page := service.newPage(ctx, nil)
	if err := service.coreService.UI(page).Detail.Load(ctx.Request().Context(), id); err != nil {
		upstreamStatus := 0
		var failure *apiclient.RequestFailure
		if errors.As(err, &failure) {
			upstreamStatus = failure.StatusCode
		}
		slog.Error("htmxDetailHandler: failed to load image detail",
			"image_id", id, "error", err, "upstream_status", upstreamStatus)
	}
	return service.writeSwaps(ctx, page)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
