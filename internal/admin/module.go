// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/realty/internal/platform/apperr"
	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/platform/respond"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/internal/web/view"
	"github.com/taibuivan/realty/pkg/pagination"
	"github.com/taibuivan/realty/pkg/slice"
	"github.com/taibuivan/realty/pkg/slug"
)

// Privilege actions checked before showing an action button.
const (
	ActionCreate = "CREATE"
	ActionRead   = "READ"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// # View Models

type resourceHeader struct {
	Title    string
	Singular string
	Path     string
}

type capabilities struct {
	Create bool
	Update bool
	Delete bool
}

type listRow struct {
	ID    string
	Cells []string
}

type listView struct {
	Resource resourceHeader
	Columns  []string
	Rows     []listRow
	Text     string
	Query    url.Values
	Meta     pagination.Meta
	Can      capabilities
	RowLinks []RowLink
}

type fieldView struct {
	Name     string
	Label    string
	Kind     Kind
	Value    string
	Values   []string
	Options  []Option
	Error    string
	Required bool
	Help     string
}

type formView struct {
	Resource resourceHeader
	Action   string
	Editing  bool
	ID       string
	Fields   []fieldView
}

type deleteView struct {
	Resource resourceHeader
	ID       string
	Label    string
}

// # Module

// Module serves list, create, edit and delete pages for one [Resource].
type Module[T any] struct {
	resource Resource[T]
	pages    *pages
}

func newModule[T any](res Resource[T], shell *pages) *Module[T] {
	return &Module[T]{resource: res, pages: shell}
}

func (module *Module[T]) header() resourceHeader {
	return resourceHeader{Title: module.resource.Title, Singular: module.resource.Singular, Path: module.resource.Path}
}

func (module *Module[T]) moduleName() string { return module.resource.ModuleName }

func (module *Module[T]) count(ctx context.Context) (int, error) {
	items, err := module.resource.Store.List(ctx)
	return len(items), err
}

// routes returns the section router, relative to the section path.
func (module *Module[T]) routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", module.list)
	router.Get("/new", module.newForm)
	router.Post("/", module.create)
	router.Get("/{id}/edit", module.editForm)
	router.Post("/{id}", module.update)
	router.Get("/{id}/delete", module.confirmDelete)
	router.Post("/{id}/delete", module.delete)

	if module.resource.Extend != nil {
		module.resource.Extend(router)
	}
	return router
}

// can reports which actions the session may see buttons for.
func (module *Module[T]) can(snapshot session.Snapshot) capabilities {
	name := module.resource.ModuleName
	return capabilities{
		Create: snapshot.HasPermission(name, ActionCreate),
		Update: snapshot.HasPermission(name, ActionUpdate),
		Delete: snapshot.HasPermission(name, ActionDelete),
	}
}

// # List

/*
GET {path}/.

Description: Lists the records of the resource, filtered by free text
and cut into pages in memory.

Request:
  - q: string (matches any column, accent and case insensitive)
  - page, limit: int

Response:
  - 200: list page
  - 4xx/5xx: list page with the backend error and a retry link
*/
func (module *Module[T]) list(writer http.ResponseWriter, request *http.Request) {
	res := module.resource

	query := request.URL.Query()
	query.Del("ok")
	text := strings.TrimSpace(query.Get("q"))

	page := module.pages.page(request, res.Title, res.Path)
	page.Flash = flash(request)

	data := listView{
		Resource: module.header(),
		Columns:  slice.Map(res.Columns, func(column Column[T]) string { return column.Label }),
		Text:     text,
		Query:    query,
		Can:      module.can(page.Session),
		RowLinks: res.RowLinks,
	}

	items, err := res.Store.List(request.Context())
	if err != nil {
		if module.pages.expired(writer, request, err) {
			return
		}
		appErr := resolve(request, err)
		data.Rows = []listRow{}
		data.Meta = pagination.NewMeta(pagination.DefaultPage, pagination.DefaultLimit, 0)
		page.Error = appErr
		page.Data = data
		module.pages.render(writer, request, appErr.HTTPStatus, view.PageList, page)
		return
	}

	rows := make([]listRow, 0, len(items))
	for _, item := range items {
		cells := slice.Map(res.Columns, func(column Column[T]) string { return column.Value(item) })
		if text != "" && !slug.Contains(strings.Join(cells, " "), text) {
			continue
		}
		rows = append(rows, listRow{ID: res.ID(item), Cells: cells})
	}

	data.Rows, data.Meta = pagination.Slice(rows, pagination.FromRequest(request))
	page.Data = data
	module.pages.render(writer, request, http.StatusOK, view.PageList, page)
}

// # Create

/*
GET {path}/new.

Description: Renders an empty form with the select options loaded.
*/
func (module *Module[T]) newForm(writer http.ResponseWriter, request *http.Request) {
	module.renderForm(writer, request, http.StatusOK, formState{values: url.Values{}})
}

/*
POST {path}/.

Description: Validates the form and creates the record. A failed
validation never reaches the backend.

Response:
  - 303: back to the list with a confirmation
  - 422: the form with field errors
  - 4xx/5xx: the form with the backend error, values preserved
*/
func (module *Module[T]) create(writer http.ResponseWriter, request *http.Request) {
	res := module.resource

	values, ok := module.submitted(writer, request, formState{})
	if !ok {
		return
	}

	if _, err := res.Store.Create(request.Context(), buildPayload(res.Fields, values)); err != nil {
		module.rejected(writer, request, formState{values: values}, err)
		return
	}

	respond.Redirect(writer, request, withFlash(res.Path, flashCreated))
}

// # Update

/*
GET {path}/{id}/edit.

Description: Loads the record and renders it in the form.

Response:
  - 200: form
  - 404: error page when the record does not exist
*/
func (module *Module[T]) editForm(writer http.ResponseWriter, request *http.Request) {
	res := module.resource
	id := requestutil.ID(request, "id")

	record, err := res.Store.Get(request.Context(), id)
	if err != nil {
		module.pages.fail(writer, request, module.pages.page(request, res.Title, res.Path), err)
		return
	}

	module.renderForm(writer, request, http.StatusOK, formState{
		editing: true,
		id:      id,
		values:  recordValues(res.Fields, *record),
	})
}

/*
POST {path}/{id}.

Description: Validates the form and updates the record.
*/
func (module *Module[T]) update(writer http.ResponseWriter, request *http.Request) {
	res := module.resource
	state := formState{editing: true, id: requestutil.ID(request, "id")}

	values, ok := module.submitted(writer, request, state)
	if !ok {
		return
	}
	state.values = values

	if _, err := res.Store.Update(request.Context(), state.id, buildPayload(res.Fields, values)); err != nil {
		module.rejected(writer, request, state, err)
		return
	}

	respond.Redirect(writer, request, withFlash(res.Path, flashUpdated))
}

// # Delete

/*
GET {path}/{id}/delete.

Description: Asks for confirmation before deleting the record.
*/
func (module *Module[T]) confirmDelete(writer http.ResponseWriter, request *http.Request) {
	res := module.resource
	id := requestutil.ID(request, "id")
	page := module.pages.page(request, "Eliminar "+res.Singular, res.Path)

	record, err := res.Store.Get(request.Context(), id)
	if err != nil {
		module.pages.fail(writer, request, page, err)
		return
	}

	page.Data = deleteView{Resource: module.header(), ID: id, Label: res.Label(*record)}
	module.pages.render(writer, request, http.StatusOK, view.PageDelete, page)
}

/*
POST {path}/{id}/delete.

Description: Deletes the record.

Response:
  - 303: back to the list with a confirmation
  - 4xx/5xx: the confirmation page with the backend error
*/
func (module *Module[T]) delete(writer http.ResponseWriter, request *http.Request) {
	res := module.resource
	id := requestutil.ID(request, "id")

	err := res.Store.Delete(request.Context(), id)
	if err == nil {
		respond.Redirect(writer, request, withFlash(res.Path, flashDeleted))
		return
	}
	if module.pages.expired(writer, request, err) {
		return
	}

	appErr := resolve(request, err)
	page := module.pages.page(request, "Eliminar "+res.Singular, res.Path)
	page.Error = appErr
	page.Data = deleteView{Resource: module.header(), ID: id, Label: res.Singular + " #" + id}
	module.pages.render(writer, request, appErr.HTTPStatus, view.PageDelete, page)
}

// # Form Rendering

type formState struct {
	editing     bool
	id          string
	values      url.Values
	fieldErrors map[string]string
	err         *apperr.AppError
}

func (state formState) action(path string) string {
	if state.editing {
		return path + "/" + state.id
	}
	return path
}

// submitted parses and validates the posted form. On failure it renders
// the form and reports false.
func (module *Module[T]) submitted(writer http.ResponseWriter, request *http.Request, state formState) (url.Values, bool) {
	res := module.resource

	if err := requestutil.ParseForm(request); err != nil {
		state.values = url.Values{}
		state.err = apperr.As(err)
		module.renderForm(writer, request, http.StatusBadRequest, state)
		return nil, false
	}

	state.values = request.PostForm
	validator := validateForm(res.Fields, state.values, state.editing, res.Check)
	if validator.HasErrors() {
		state.fieldErrors = validator.Fields()
		state.err = apperr.As(validator.Err())
		module.renderForm(writer, request, http.StatusUnprocessableEntity, state)
		return nil, false
	}
	return state.values, true
}

// rejected re-renders the form after the backend refused the submission.
func (module *Module[T]) rejected(writer http.ResponseWriter, request *http.Request, state formState, err error) {
	if module.pages.expired(writer, request, err) {
		return
	}
	state.err = resolve(request, err)
	module.renderForm(writer, request, state.err.HTTPStatus, state)
}

func (module *Module[T]) renderForm(writer http.ResponseWriter, request *http.Request, status int, state formState) {
	res := module.resource

	title := "Nuevo " + res.Singular
	if state.editing {
		title = "Editar " + res.Singular
	}
	page := module.pages.page(request, title, res.Path)

	options, err := loadOptions(request.Context(), res.Fields)
	if err != nil && state.err == nil {
		state.err = resolve(request, err)
		status = state.err.HTTPStatus
	}

	fields := make([]fieldView, 0, len(res.Fields))
	for _, field := range res.Fields {
		fields = append(fields, fieldView{
			Name:     field.Name,
			Label:    field.Label,
			Kind:     field.Kind,
			Value:    state.values.Get(field.Name),
			Values:   state.values[field.Name],
			Options:  options[field.Name],
			Error:    state.fieldErrors[field.Name],
			Required: field.Required || (field.RequiredOnCreate && !state.editing),
			Help:     field.Help,
		})
	}

	page.Error = state.err
	page.FieldErrors = state.fieldErrors
	page.Data = formView{
		Resource: module.header(),
		Action:   state.action(res.Path),
		Editing:  state.editing,
		ID:       state.id,
		Fields:   fields,
	}
	module.pages.render(writer, request, status, view.PageForm, page)
}

// loadOptions fetches every select source concurrently. The first failure
// cancels the rest.
func loadOptions(ctx context.Context, fields []Field) (map[string][]Option, error) {
	group, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	options := make(map[string][]Option)

	for _, field := range fields {
		if field.Options == nil {
			continue
		}
		group.Go(func() error {
			loaded, err := field.Options(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			options[field.Name] = loaded
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return options, err
	}
	return options, nil
}
