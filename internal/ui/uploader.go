package ui

import (
	"context"

	"github.com/jo-hoe/imgup/internal/view"
)

// Refresher reloads a part of the page.
type Refresher interface {
	Load(ctx context.Context) error
}

type Uploader struct {
	env    Env
	recent Refresher
}

func NewUploader(env Env, recent Refresher) *Uploader {
	return &Uploader{env: env, recent: recent}
}

// Upload sends the selected files. On success it shows the shareable link,
// clears the file picker and refreshes the recent list once. A failed upload
// only shows an alert.
func (u *Uploader) Upload(ctx context.Context) error {
	result, err := u.env.API.Upload(ctx, u.env.Page.SelectedFiles())
	if err != nil {
		u.env.Page.ModalAlert(TitleError, view.ErrorBody(err))
		return err
	}

	u.env.Page.ModalAlert(TitleSuccess, view.UploadSuccess(view.ShareURL(u.env.Page.Location(), result.ID)))
	u.env.Page.ClearFileInput()

	// a failed refresh reports itself on the page
	_ = u.recent.Load(ctx)
	return nil
}
