package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quizhub-backend/models"
)

// QuestionClient talks to the question service's public API. The submit
// service uses it to source the category snapshot without reaching into the
// question service's database path.
type QuestionClient struct {
	baseURL string
	http    *http.Client
}

func NewQuestionClient(baseURL string) *QuestionClient {
	return &QuestionClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Categories fetches the full category list.
func (c *QuestionClient) Categories(ctx context.Context) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("build categories request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch categories from %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch categories from %s: status %d", c.baseURL, resp.StatusCode)
	}

	categories := []models.Category{}
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, fmt.Errorf("decode categories response: %w", err)
	}
	return categories, nil
}
