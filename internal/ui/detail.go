package ui

import (
	"context"

	"github.com/jo-hoe/imgup/internal/view"
)

type DetailLoader struct {
	env Env
}

func NewDetailLoader(env Env) *DetailLoader {
	return &DetailLoader{env: env}
}

// Load renders captions and tags of image id. On failure only an alert is
// shown and the info container keeps its previous content.
func (l *DetailLoader) Load(ctx context.Context, id string) error {
	detail, err := l.env.API.Detail(ctx, id)
	if err != nil {
		l.env.Page.ModalAlert(TitleError, view.ErrorBody(err))
		return err
	}

	l.env.Page.Replace(TargetInfo, view.DetailInfo(detail))
	return nil
}
