package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/jo-hoe/imgup/internal/common"
)

const (
	// FileField is the multipart field name every uploaded file is sent under.
	FileField = "file"

	uploadPath = "/upload"
	recentPath = "/recent"
	detailPath = "/detail/{id}"
)

// Client talks to the image API. It is safe for concurrent use.
type Client struct {
	endpoint string
	client   *resty.Client
}

// NewClient creates a client for the API rooted at endpoint, e.g. "https://img.example/api".
func NewClient(endpoint string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse api endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api endpoint %q must be an absolute url", endpoint)
	}

	return &Client{
		endpoint: u.String(),
		client:   resty.New().SetBaseURL(u.String()).SetLogger(slogLogger{}),
	}, nil
}

func (c *Client) SetDebug(debug bool) {
	c.client.SetDebug(debug)
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload sends all files in one multipart PUT request. An empty slice still
// issues the request; the server decides whether that is an error.
func (c *Client) Upload(ctx context.Context, files []File) (*UploadResult, error) {
	fields := make([]*resty.MultipartField, 0, len(files))
	for _, f := range files {
		contentType, content := f.ContentType, f.Content
		if contentType == "" {
			detected, recycled, err := DetectContentType(content)
			if err != nil {
				return nil, &RequestFailure{Method: http.MethodPut, Path: uploadPath, Err: fmt.Errorf("detect content type of %s: %w", f.Name, err)}
			}
			contentType, content = detected, recycled
		}
		fields = append(fields, &resty.MultipartField{
			Param:       FileField,
			FileName:    f.Name,
			ContentType: contentType,
			Reader:      content,
		})
	}

	req := c.client.R().SetContext(ctx).SetMultipartFields(fields...)

	var result UploadResult
	if err := c.execute(req, http.MethodPut, uploadPath, uploadPath, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Recent(ctx context.Context) (*RecentList, error) {
	req := c.client.R().SetContext(ctx).SetHeader("Accept", "application/json")

	var result RecentList
	if err := c.execute(req, http.MethodGet, recentPath, recentPath, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Detail(ctx context.Context, id string) (*ImageDetail, error) {
	req := c.client.R().SetContext(ctx).SetHeader("Accept", "application/json").
		SetPathParam("id", id)

	var result ImageDetail
	if err := c.execute(req, http.MethodGet, detailPath, "/detail/"+id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// execute runs req and decodes the body into result. Every failure is
// reported as a *RequestFailure carrying displayPath.
func (c *Client) execute(req *resty.Request, method, path, displayPath string, result any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return &RequestFailure{Method: method, Path: displayPath, Err: err}
	}

	if !resp.IsSuccess() {
		return &RequestFailure{
			Method:     method,
			Path:       displayPath,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status()),
		}
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return &RequestFailure{Method: method, Path: displayPath, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if err := common.ValidateStruct(result); err != nil {
		return &RequestFailure{Method: method, Path: displayPath, StatusCode: resp.StatusCode(), Err: fmt.Errorf("invalid response: %w", err)}
	}
	return nil
}

// slogLogger routes resty's internal messages to slog.
type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...interface{}) {
	slog.Error("apiclient: " + fmt.Sprintf(format, v...))
}

func (slogLogger) Warnf(format string, v ...interface{}) {
	slog.Warn("apiclient: " + fmt.Sprintf(format, v...))
}

func (slogLogger) Debugf(format string, v ...interface{}) {
	slog.Debug("apiclient: " + fmt.Sprintf(format, v...))
}
