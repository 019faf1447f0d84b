package fdc

import (
	"context"
	"net/url"
	"strings"

	"macromanager/internal/domain"
)

type searchResponse struct {
	Foods *[]searchFood `json:"foods"`
}

type searchFood struct {
	Description *string `json:"description"`
	FDCID       *int64  `json:"fdcId"`
}

// SearchFood queries the search endpoint restricted to the configured data type.
// A successful search without matches returns an empty, non-nil slice.
func (c *Client) SearchFood(ctx context.Context, apiKey, name string) ([]domain.FoodCandidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidArgument("name", "must not be empty")
	}

	query := url.Values{}
	query.Set("query", name)
	query.Set("dataType", c.dataType)

	resp, err := c.get(ctx, "/foods/search", query, apiKey)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := resp.decode(&payload); err != nil {
		return nil, err
	}
	if payload.Foods == nil {
		return nil, resp.malformed("search response has no foods field")
	}

	candidates := make([]domain.FoodCandidate, 0, len(*payload.Foods))
	for i, food := range *payload.Foods {
		if food.Description == nil || food.FDCID == nil {
			return nil, resp.malformed("search match %d lacks description or fdcId", i)
		}
		candidates = append(candidates, domain.FoodCandidate{
			DisplayName: *food.Description,
			FDCID:       *food.FDCID,
		})
	}

	if len(candidates) == 0 {
		c.logger.Info("no results found", "query", name)
	}
	return candidates, nil
}
