// Package ui holds the three page behaviors of the image client: uploading,
// loading the recent list and loading image details. Each behavior issues a
// single API request and renders the outcome into a Page.
package ui

import (
	"context"

	"github.com/jo-hoe/imgup/internal/apiclient"
)

// ImageAPI is the remote image service. *apiclient.Client implements it.
type ImageAPI interface {
	Upload(ctx context.Context, files []apiclient.File) (*apiclient.UploadResult, error)
	Recent(ctx context.Context) (*apiclient.RecentList, error)
	Detail(ctx context.Context, id string) (*apiclient.ImageDetail, error)
}

// Env is what every behavior needs: the API to call and the page to render into.
type Env struct {
	API  ImageAPI
	Page Page
}

// UI bundles the behaviors for one page.
type UI struct {
	Uploader *Uploader
	Recent   *RecentLoader
	Detail   *DetailLoader
}

func New(env Env) *UI {
	recent := NewRecentLoader(env)
	return &UI{
		Uploader: NewUploader(env, recent),
		Recent:   recent,
		Detail:   NewDetailLoader(env),
	}
}
