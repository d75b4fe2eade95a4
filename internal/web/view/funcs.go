// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"errors"
	"html/template"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/pkg/slug"
)

// printer formats prices and areas with Spanish digit grouping (1.250.000).
var printer = message.NewPrinter(language.Spanish)

var funcs = template.FuncMap{
	"money":       Money,
	"decimal":     Decimal,
	"propertyURL": PropertyURL,
	"slug":        slug.From,
	"add":         func(a, b int) int { return a + b },
	"sub":         func(a, b int) int { return a - b },
	"itoa":        strconv.Itoa,
	"contains":    func(list []string, value string) bool { return slices.Contains(list, value) },
	"query":       withQuery,
	"dict":        dict,
}

// Money formats a price without decimals: "$ 1.250.000".
func Money(value float64) string {
	return printer.Sprintf("$ %v", number.Decimal(value, number.MaxFractionDigits(0)))
}

// Decimal formats a measure with at most two decimals.
func Decimal(value float64) string {
	return printer.Sprint(number.Decimal(value, number.MaxFractionDigits(2)))
}

// PropertyURL is the public detail path of a property: the id followed by a
// slug of its title ("/properties/12-casa-en-laureles").
func PropertyURL(property realty.Property) string {
	target := "/properties/" + strconv.Itoa(property.ID)
	if title := slug.From(property.Title); title != "" {
		target += "-" + title
	}
	return target
}

// withQuery returns base with key set to value in values.
func withQuery(base string, values url.Values, key string, value int) string {
	next := url.Values{}
	for name, list := range values {
		next[name] = slices.Clone(list)
	}
	next.Set(key, strconv.Itoa(value))
	return base + "?" + next.Encode()
}

// dict builds a map from alternating keys and values for sub-templates.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("view: dict needs key/value pairs")
	}
	result := make(map[string]any, len(pairs)/2)
	for index := 0; index < len(pairs); index += 2 {
		key, ok := pairs[index].(string)
		if !ok {
			return nil, errors.New("view: dict keys must be strings")
		}
		result[key] = pairs[index+1]
	}
	return result, nil
}
