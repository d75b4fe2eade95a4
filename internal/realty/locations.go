// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realty

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/resource"
)

// LocationService reads the public location lookups used by cascading
// selects (country, then department).
type LocationService struct {
	client *apiclient.Client
}

// NewLocationService creates a [LocationService].
func NewLocationService(client *apiclient.Client) *LocationService {
	return &LocationService{client: client}
}

// Countries lists every country.
func (service *LocationService) Countries(ctx context.Context) ([]Country, error) {
	countries := []Country{}
	if err := service.fetch(ctx, constants.APILocationCountries, nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Departments lists the departments of a country. An empty countryID lists all.
func (service *LocationService) Departments(ctx context.Context, countryID string) ([]Department, error) {
	query := url.Values{}
	if countryID != "" {
		query.Set("countryId", countryID)
	}

	departments := []Department{}
	if err := service.fetch(ctx, constants.APILocationDepartments, query, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (service *LocationService) fetch(ctx context.Context, path string, query url.Values, out any) error {
	var raw json.RawMessage
	err := service.client.Get(ctx, path, query, &raw)
	if err == nil {
		err = resource.DecodeInto(raw, out)
	}
	if err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "backend_operation_failed",
			slog.String("resource", apiclient.ResourceLabel(path)),
			slog.String("operation", "list"),
			slog.Int("status", apiclient.StatusOf(err)),
			slog.String("error", err.Error()),
		)
	}
	return err
}
