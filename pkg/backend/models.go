package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// tagsResponse is the Ollama /api/tags payload.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models returns the model names the backend advertises.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Upstream+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("creating tags request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindBadStatus, Status: resp.StatusCode}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &Error{Kind: KindMalformed, Err: err}
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// CheckModel warns if the configured model is not advertised by the backend.
// Availability is advisory only: Ollama pulls missing models on first use,
// and an unreachable backend at startup is not fatal.
func (c *Client) CheckModel(ctx context.Context) {
	names, err := c.Models(ctx)
	if err != nil {
		c.logger.Warn("could not list backend models",
			zap.String("upstream", c.config.Upstream),
			zap.Error(err),
		)
		return
	}

	for _, name := range names {
		// Ollama advertises "model:tag"; a bare configured name matches
		// any tag of that model, but never a longer model name that
		// happens to contain it.
		if name == c.config.Model || strings.HasPrefix(name, c.config.Model+":") {
			return
		}
	}

	c.logger.Warn("configured model not advertised by backend, it may be pulled on first request",
		zap.String("model", c.config.Model),
		zap.Strings("available", names),
	)
}
