package ui

import (
	"context"

	"github.com/jo-hoe/imgup/internal/view"
)

type RecentLoader struct {
	env Env
}

func NewRecentLoader(env Env) *RecentLoader {
	return &RecentLoader{env: env}
}

// Load shows the loading placeholder, fetches the recent ids and renders the
// grid. On failure both an alert and an inline message are shown.
func (l *RecentLoader) Load(ctx context.Context) error {
	l.env.Page.Replace(TargetRecent, view.Loading())

	list, err := l.env.API.Recent(ctx)
	if err != nil {
		l.env.Page.ModalAlert(TitleError, view.ErrorBody(err))
		l.env.Page.Replace(TargetRecent, view.RecentError(err))
		return err
	}

	l.env.Page.Replace(TargetRecent, view.RecentGrid(list))
	return nil
}
