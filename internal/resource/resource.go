// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource provides the generic CRUD service shared by every backend
collection (cities, owners, properties, ...).

A [Service] is a pass-through to the API client rooted at one base path. It
does not translate or retry errors: failures are logged with the resource
name and returned to the caller unchanged.
*/
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
)

// Service performs list/get/create/update/delete on one backend collection.
type Service[T any] struct {
	client   *apiclient.Client
	basePath string
	name     string
}

// New creates a [Service] for the collection at basePath (e.g. "/api/cities").
func New[T any](client *apiclient.Client, basePath string) *Service[T] {
	return &Service[T]{
		client:   client,
		basePath: basePath,
		name:     apiclient.ResourceLabel(basePath),
	}
}

// Name is the resource label used in logs.
func (service *Service[T]) Name() string { return service.name }

// BasePath is the collection path on the backend.
func (service *Service[T]) BasePath() string { return service.basePath }

// ItemPath is the path of one element of the collection.
func (service *Service[T]) ItemPath(id string) string {
	return service.basePath + "/" + url.PathEscape(id)
}

// # Reads

// List returns every element of the collection.
func (service *Service[T]) List(ctx context.Context) ([]T, error) {
	return service.ListWhere(ctx, nil)
}

// ListWhere returns the elements matching the backend query parameters.
func (service *Service[T]) ListWhere(ctx context.Context, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, service.basePath, query, &raw); err != nil {
		service.logFailure(ctx, "list", "", err)
		return nil, err
	}

	items := []T{}
	if err := DecodeInto(raw, &items); err != nil {
		service.logFailure(ctx, "list", "", err)
		return nil, err
	}
	return items, nil
}

// Get returns one element by id.
func (service *Service[T]) Get(ctx context.Context, id string) (*T, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, service.ItemPath(id), nil, &raw); err != nil {
		service.logFailure(ctx, "get", id, err)
		return nil, err
	}

	item := new(T)
	if err := DecodeInto(raw, item); err != nil {
		service.logFailure(ctx, "get", id, err)
		return nil, err
	}
	return item, nil
}

// # Writes

// Create posts payload to the collection and returns the stored element.
func (service *Service[T]) Create(ctx context.Context, payload any) (*T, error) {
	var raw json.RawMessage
	if err := service.client.Post(ctx, service.basePath, payload, &raw); err != nil {
		service.logFailure(ctx, "create", "", err)
		return nil, err
	}
	return service.decodeOptional(ctx, "create", "", raw)
}

// Update replaces the element with payload and returns the stored element.
func (service *Service[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	var raw json.RawMessage
	if err := service.client.Put(ctx, service.ItemPath(id), payload, &raw); err != nil {
		service.logFailure(ctx, "update", id, err)
		return nil, err
	}
	return service.decodeOptional(ctx, "update", id, raw)
}

// Delete removes the element.
func (service *Service[T]) Delete(ctx context.Context, id string) error {
	if err := service.client.Delete(ctx, service.ItemPath(id)); err != nil {
		service.logFailure(ctx, "delete", id, err)
		return err
	}
	return nil
}

// decodeOptional tolerates write endpoints that answer with an empty body.
func (service *Service[T]) decodeOptional(ctx context.Context, operation, id string, raw json.RawMessage) (*T, error) {
	item := new(T)
	if len(bytes.TrimSpace(raw)) == 0 {
		return item, nil
	}
	if err := DecodeInto(raw, item); err != nil {
		service.logFailure(ctx, operation, id, err)
		return nil, err
	}
	return item, nil
}

func (service *Service[T]) logFailure(ctx context.Context, operation, id string, err error) {
	ctxutil.GetLogger(ctx).ErrorContext(ctx, "backend_operation_failed",
		slog.String("resource", service.name),
		slog.String("operation", operation),
		slog.String("id", id),
		slog.Int("status", apiclient.StatusOf(err)),
		slog.String("error", err.Error()),
	)
}

// # Envelopes

// DecodeInto decodes a backend payload into target. Payloads wrapped in a
// {"data": ...} envelope are unwrapped first.
func DecodeInto(raw json.RawMessage, target any) error {
	payload := Unwrap(raw)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("resource: failed to decode payload: %w", err)
	}
	return nil
}

// envelopeKeys are the members allowed beside "data" in a response envelope.
var envelopeKeys = map[string]bool{
	"data":       true,
	"message":    true,
	"status":     true,
	"success":    true,
	"meta":       true,
	"links":      true,
	"pagination": true,
}

// Unwrap returns the "data" member of an enveloped payload, or raw itself.
// An object is an envelope only when every other member is metadata, so a
// record that happens to have a "data" field is returned whole.
func Unwrap(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return trimmed
	}
	data, found := members["data"]
	if !found || len(data) == 0 {
		return trimmed
	}
	for key := range members {
		if !envelopeKeys[key] {
			return trimmed
		}
	}
	return data
}
