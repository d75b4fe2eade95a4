// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realty

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/resource"
)

// imageField is the multipart field the backend reads images from.
const imageField = "images"

// PropertyService adds image handling to the generic property CRUD.
type PropertyService struct {
	*resource.Service[Property]
	client *apiclient.Client
}

// NewPropertyService creates a [PropertyService].
func NewPropertyService(client *apiclient.Client) *PropertyService {
	return &PropertyService{
		Service: resource.New[Property](client, constants.APIProperties),
		client:  client,
	}
}

// UploadImages attaches files to the property. When cover is true the
// first file becomes the cover image.
func (service *PropertyService) UploadImages(ctx context.Context, id string, files []apiclient.File, cover bool) ([]Image, error) {
	for index := range files {
		files[index].Field = imageField
	}

	var raw json.RawMessage
	fields := map[string]string{"isCover": strconv.FormatBool(cover)}
	if err := service.client.Upload(ctx, service.ItemPath(id)+"/images", files, fields, &raw); err != nil {
		service.logImageFailure(ctx, "upload", id, err)
		return nil, err
	}

	images := []Image{}
	if err := resource.DecodeInto(raw, &images); err != nil {
		// Some deployments answer with the updated property instead of the list.
		var property Property
		if resource.DecodeInto(raw, &property) != nil {
			service.logImageFailure(ctx, "upload", id, err)
			return nil, err
		}
		return property.Images, nil
	}
	return images, nil
}

// Images returns the image metadata of a property.
func (service *PropertyService) Images(ctx context.Context, id string) ([]Image, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, service.ItemPath(id)+"/images/meta", nil, &raw); err != nil {
		service.logImageFailure(ctx, "meta", id, err)
		return nil, err
	}

	images := []Image{}
	if err := resource.DecodeInto(raw, &images); err != nil {
		service.logImageFailure(ctx, "meta", id, err)
		return nil, err
	}
	return images, nil
}

func (service *PropertyService) logImageFailure(ctx context.Context, operation, id string, err error) {
	ctxutil.GetLogger(ctx).ErrorContext(ctx, "backend_operation_failed",
		slog.String("resource", "properties.images"),
		slog.String("operation", operation),
		slog.String("id", id),
		slog.Int("status", apiclient.StatusOf(err)),
		slog.String("error", err.Error()),
	)
}
