package core

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/jo-hoe/imgup/internal/ui"
)

// CoreService owns the API client shared by every page invocation.
type CoreService struct {
	config    *ServiceConfig
	apiClient *apiclient.Client
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	apiClient, err := apiclient.NewClient(config.APIEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}
	apiClient.SetDebug(config.Debug)
	slog.Info("api client initialized", "endpoint", apiClient.Endpoint())

	return &CoreService{
		config:    config,
		apiClient: apiClient,
	}, nil
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

func (service *CoreService) API() ui.ImageAPI {
	return service.apiClient
}

// UI returns the behaviors bound to page.
func (service *CoreService) UI(page ui.Page) *ui.UI {
	return ui.New(ui.Env{API: service.apiClient, Page: page})
}
