package remote

import (
	"fmt"
	"os"

	"github.com/Jelly-Pudding/ereddicator/internal/config"
	"github.com/Jelly-Pudding/ereddicator/internal/domain"
	"github.com/Jelly-Pudding/ereddicator/internal/ingest"
)

// NewClients selects the item source and mutator for the configured mode.
// Credentials come from the environment (see .env): REDDIT_CLIENT_ID,
// REDDIT_CLIENT_SECRET, REDDIT_USERNAME, REDDIT_PASSWORD, REDDIT_USER_AGENT.
func NewClients(cfg *config.Config) (domain.ItemSource, domain.Mutator, error) {
	switch cfg.SourceMode {
	case "api":
		api, err := newAPIFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return api, api, nil
	case "export":
		// Candidates come from the GDPR export archive; mutations still
		// need the live API.
		api, err := newAPIFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return ingest.NewArchive(cfg.ExportDir), api, nil
	case "mock":
		mock := NewMockClient()
		for _, cat := range domain.Categories {
			mock.Seed(cat, 10)
		}
		return mock, mock, nil
	default:
		return nil, nil, fmt.Errorf("unknown source_mode: %s (use 'api', 'export', or 'mock')", cfg.SourceMode)
	}
}

func newAPIFromEnv() (*APIClient, error) {
	userAgent := os.Getenv("REDDIT_USER_AGENT")
	if userAgent == "" {
		return nil, fmt.Errorf("REDDIT_USER_AGENT is required")
	}
	return NewAPIClient(
		os.Getenv("REDDIT_CLIENT_ID"),
		os.Getenv("REDDIT_CLIENT_SECRET"),
		os.Getenv("REDDIT_USERNAME"),
		os.Getenv("REDDIT_PASSWORD"),
		userAgent,
	)
}
