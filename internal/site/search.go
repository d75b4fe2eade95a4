// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
	"github.com/taibuivan/realty/pkg/convert"
	"github.com/taibuivan/realty/pkg/pagination"
	"github.com/taibuivan/realty/pkg/slice"
	"github.com/taibuivan/realty/pkg/slug"
)

// Filters are the search criteria, as submitted.
type Filters struct {
	Text      string
	Operation string
	TypeID    int
	CountryID int

	DepartmentID int
	CityID       int

	// Min and Max are kept as typed so the form shows them back unchanged.
	Min string
	Max string
}

var operations = []string{string(realty.OperationSale), string(realty.OperationRent)}

// ParseFilters reads the search query. Unknown operations and malformed
// ids are ignored.
func ParseFilters(query url.Values) Filters {
	filters := Filters{
		Text:         strings.TrimSpace(query.Get("q")),
		TypeID:       convert.ToInt(query.Get("type")),
		CountryID:    convert.ToInt(query.Get("country")),
		DepartmentID: convert.ToInt(query.Get("department")),
		CityID:       convert.ToInt(query.Get("city")),
		Min:          priceParam(query.Get("min")),
		Max:          priceParam(query.Get("max")),
	}

	operation := strings.ToLower(strings.TrimSpace(query.Get("operation")))
	for _, known := range operations {
		if operation == known {
			filters.Operation = known
		}
	}
	return filters
}

// priceParam keeps only non-negative numbers.
func priceParam(raw string) string {
	raw = strings.TrimSpace(raw)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return ""
	}
	return raw
}

// Match reports whether property satisfies every filter set.
func (filters Filters) Match(property realty.Property) bool {
	if filters.Operation != "" && string(property.Operation) != filters.Operation {
		return false
	}
	if filters.TypeID != 0 && property.PropertyTypeID() != filters.TypeID {
		return false
	}
	if filters.CountryID != 0 && property.CountryID() != filters.CountryID {
		return false
	}
	if filters.DepartmentID != 0 && property.DepartmentID() != filters.DepartmentID {
		return false
	}
	if filters.CityID != 0 && property.CityID() != filters.CityID {
		return false
	}
	if filters.Min != "" && property.Price < convert.ToFloat64(filters.Min) {
		return false
	}
	if filters.Max != "" && property.Price > convert.ToFloat64(filters.Max) {
		return false
	}
	if filters.Text != "" {
		haystack := strings.Join([]string{property.Title, property.Description, property.Address, property.Location()}, " ")
		if !slug.Contains(haystack, filters.Text) {
			return false
		}
	}
	return true
}

type searchView struct {
	Filters     Filters
	Operations  []string
	Types       []realty.PropertyType
	Countries   []realty.Country
	Departments []realty.Department
	Cities      []realty.City
	Results     []realty.Property
	Meta        pagination.Meta
	Query       url.Values
}

/*
GET /search.

Description: Filters the listings and pages the results. The property
list and the filter lookups are fetched concurrently; departments are
narrowed to the chosen country and cities to the chosen department.

Request:
  - q: string (accent and case insensitive)
  - operation: string (venta, arriendo)
  - type, country, department, city: int
  - min, max: number (price bounds)
  - page: int

Response:
  - 200: search page
  - 5xx: search page with an error banner when the listings fail to load
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	query := request.URL.Query()
	filters := ParseFilters(query)

	data := searchView{Filters: filters, Operations: operations, Query: query}

	var (
		properties []realty.Property
		group      errgroup.Group
	)
	group.Go(func() error {
		var err error
		properties, err = handler.catalog.Properties.List(ctx)
		return err
	})
	group.Go(func() error {
		data.Types = lookup(ctx, "types", handler.catalog.Types.List)
		return nil
	})
	group.Go(func() error {
		data.Countries = lookup(ctx, "countries", handler.catalog.Locations.Countries)
		return nil
	})
	if filters.CountryID != 0 {
		group.Go(func() error {
			data.Departments = lookup(ctx, "departments", func(ctx context.Context) ([]realty.Department, error) {
				return handler.catalog.Locations.Departments(ctx, strconv.Itoa(filters.CountryID))
			})
			return nil
		})
	}
	if filters.DepartmentID != 0 {
		group.Go(func() error {
			data.Cities = lookup(ctx, "cities", func(ctx context.Context) ([]realty.City, error) {
				return handler.catalog.Cities.ListWhere(ctx, url.Values{"departmentId": {strconv.Itoa(filters.DepartmentID)}})
			})
			return nil
		})
	}

	page := view.Page{Title: "Buscar"}

	if err := group.Wait(); err != nil {
		appErr := resolve(request, err)
		data.Results = []realty.Property{}
		data.Meta = pagination.NewMeta(pagination.DefaultPage, pagination.DefaultLimit, 0)
		page.Error = appErr
		page.Data = data
		handler.renderer.Render(writer, request, appErr.HTTPStatus, view.PageSearch, page)
		return
	}

	matched := slice.Filter(properties, filters.Match)
	data.Results, data.Meta = pagination.Slice(matched, pagination.FromRequest(request))
	page.Data = data
	handler.renderer.Render(writer, request, http.StatusOK, view.PageSearch, page)
}

// lookup loads a filter list; a failure is logged and yields no options.
func lookup[T any](ctx context.Context, name string, list func(context.Context) ([]T, error)) []T {
	items, err := list(ctx)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "search_lookup_failed",
			slog.String("lookup", name),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return items
}
