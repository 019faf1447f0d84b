package fdc

import (
	"context"
	"net/url"
	"strconv"

	"macromanager/internal/domain"
)

type foodDetail struct {
	FDCID         *int64          `json:"fdcId"`
	FoodNutrients *[]foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	Nutrient *nutrientInfo `json:"nutrient"`
	Amount   *float64      `json:"amount"`
}

type nutrientInfo struct {
	Name     *string `json:"name"`
	UnitName *string `json:"unitName"`
}

// FetchPanels retrieves every panel in a single request and returns them in the
// order of ids. The upstream array is matched by fdcId, not by position.
// Repeated ids share one upstream lookup.
func (c *Client) FetchPanels(ctx context.Context, apiKey string, ids []int64) ([][]domain.NutrientEntry, error) {
	if len(ids) == 0 {
		return nil, domain.InvalidArgument("ids", "must not be empty")
	}

	query := url.Values{}
	requested := make(map[int64]bool, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, domain.InvalidArgument("ids", "position %d: fdcId must be positive, got %d", i, id)
		}
		if requested[id] {
			continue
		}
		requested[id] = true
		query.Add("fdcIds", strconv.FormatInt(id, 10))
	}

	resp, err := c.get(ctx, "/foods", query, apiKey)
	if err != nil {
		return nil, err
	}

	var details []foodDetail
	if err := resp.decode(&details); err != nil {
		return nil, err
	}

	byID := make(map[int64][]domain.NutrientEntry, len(details))
	for i, detail := range details {
		if detail.FDCID == nil {
			return nil, resp.malformed("food %d has no fdcId", i)
		}
		if !requested[*detail.FDCID] {
			c.logger.Debug("ignoring unrequested food", "fdc_id", *detail.FDCID)
			continue
		}
		panel, err := toPanel(resp, *detail.FDCID, detail.FoodNutrients)
		if err != nil {
			return nil, err
		}
		byID[*detail.FDCID] = panel
	}

	panels := make([][]domain.NutrientEntry, len(ids))
	for i, id := range ids {
		panel, ok := byID[id]
		if !ok {
			return nil, resp.malformed("no food returned for fdcId %d", id)
		}
		panels[i] = panel
	}
	return panels, nil
}

func toPanel(resp response, id int64, rows *[]foodNutrient) ([]domain.NutrientEntry, error) {
	if rows == nil {
		return nil, resp.malformed("food %d has no foodNutrients field", id)
	}

	panel := make([]domain.NutrientEntry, 0, len(*rows))
	for i, row := range *rows {
		if row.Nutrient == nil || row.Nutrient.Name == nil || row.Nutrient.UnitName == nil {
			return nil, resp.malformed("food %d nutrient %d lacks name or unitName", id, i)
		}
		if row.Amount == nil {
			return nil, resp.malformed("food %d nutrient %q lacks amount", id, *row.Nutrient.Name)
		}
		panel = append(panel, domain.NutrientEntry{
			Name:   *row.Nutrient.Name,
			Amount: *row.Amount,
			Unit:   *row.Nutrient.UnitName,
		})
	}
	return panel, nil
}
