// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/realty/internal/access"
	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/apperr"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/platform/respond"
	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/web/view"
	"github.com/taibuivan/realty/pkg/convert"
)

// imagesField is the multipart field carrying the files.
const imagesField = "images"

type imagesView struct {
	Property  realty.Property
	Images    []realty.Image
	CanUpload bool
	Action    string
}

// propertyImageRoutes adds the gallery under /admin/properties.
func (handler *Handler) propertyImageRoutes(router chi.Router) {
	router.Get("/{id}/images", handler.propertyImages)
	router.Post("/{id}/images", handler.uploadImages)
}

/*
GET /admin/properties/{id}/images.

Description: Shows the gallery of a property. The property and its image
metadata are fetched concurrently; when the metadata call fails the
images embedded in the property are used instead.
*/
func (handler *Handler) propertyImages(writer http.ResponseWriter, request *http.Request) {
	handler.renderImages(writer, request, http.StatusOK, nil)
}

/*
POST /admin/properties/{id}/images.

Description: Uploads one or more images as multipart/form-data.

Request:
  - images: file[] (image/* only)
  - cover: bool (mark the first file as cover)

Response:
  - 303: back to the gallery with a confirmation
  - 422: no files or a file that is not an image
*/
func (handler *Handler) uploadImages(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	id := requestutil.ID(request, "id")

	if err := requestutil.ParseForm(request); err != nil {
		handler.renderImages(writer, request, http.StatusBadRequest, apperr.As(err))
		return
	}

	var headers []*multipart.FileHeader
	if request.MultipartForm != nil {
		headers = request.MultipartForm.File[imagesField]
	}

	validator := &validate.Validator{}
	validator.Custom(imagesField, len(headers) == 0, "Selecciona al menos una imagen")
	for _, header := range headers {
		contentType := header.Header.Get("Content-Type")
		validator.Custom(imagesField, !strings.HasPrefix(contentType, "image/"), header.Filename+" no es una imagen")
	}
	if validator.HasErrors() {
		appErr := apperr.ValidationError(validator.Fields()[imagesField])
		handler.renderImages(writer, request, http.StatusUnprocessableEntity, appErr)
		return
	}

	files := make([]apiclient.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			handler.renderImages(writer, request, http.StatusBadRequest, apperr.ValidationError("No se pudo leer "+header.Filename))
			return
		}
		defer file.Close()
		files = append(files, apiclient.File{Field: imagesField, Filename: header.Filename, Content: file})
	}

	cover := convert.ToBool(request.PostFormValue("cover"))
	if _, err := handler.catalog.Properties.UploadImages(ctx, id, files, cover); err != nil {
		if handler.pages.expired(writer, request, err) {
			return
		}
		appErr := resolve(request, err)
		handler.renderImages(writer, request, appErr.HTTPStatus, appErr)
		return
	}

	respond.Redirect(writer, request, withFlash(galleryPath(id), flashUploaded))
}

func (handler *Handler) renderImages(writer http.ResponseWriter, request *http.Request, status int, appErr *apperr.AppError) {
	ctx := request.Context()
	id := requestutil.ID(request, "id")
	page := handler.pages.page(request, "Imágenes", "/admin/properties")

	var (
		property *realty.Property
		images   []realty.Image
		imageErr error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		property, err = handler.catalog.Properties.Get(groupCtx, id)
		return err
	})
	group.Go(func() error {
		images, imageErr = handler.catalog.Properties.Images(groupCtx, id)
		return nil
	})
	if err := group.Wait(); err != nil {
		handler.pages.fail(writer, request, page, err)
		return
	}

	if imageErr != nil {
		images = property.Images
	}

	page.Title = "Imágenes · " + property.Title
	page.Flash = flash(request)
	page.Error = appErr
	page.Data = imagesView{
		Property:  *property,
		Images:    images,
		CanUpload: page.Session.HasPermission(access.ModuleProperty, ActionUpdate),
		Action:    galleryPath(id),
	}
	handler.pages.render(writer, request, status, view.PageImages, page)
}

func galleryPath(id string) string {
	return "/admin/properties/" + id + "/images"
}
