// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/internal/web/view"
)

type place struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Rooms   int      `json:"rooms,omitempty"`
	Active  bool     `json:"active"`
	Zone    *zone    `json:"zone,omitempty"`
	Tags    []zone   `json:"tags,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}

type zone struct {
	ID int `json:"id"`
}

var placeFields = []Field{
	{Name: "name", Label: "Nombre", Kind: KindText, Required: true, MaxLen: 10},
	{Name: "rooms", Label: "Cuartos", Kind: KindNumber, Integer: true},
	{Name: "price", Label: "Precio", Kind: KindNumber},
	{Name: "active", Label: "Activo", Kind: KindCheckbox},
	{Name: "zoneId", Label: "Zona", Kind: KindSelect, Required: true, Options: StaticOptions("1"), Source: "zone.id"},
	{Name: "tagIds", Label: "Etiquetas", Kind: KindMultiSelect, Options: StaticOptions("1"), Source: "tags.id"},
	{Name: "contact", Label: "Correo", Kind: KindEmail},
	{Name: "secret", Label: "Clave", Kind: KindPassword, RequiredOnCreate: true},
}

// # Form Rules

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		editing bool
		want    map[string]string
	}{
		{
			name:   "valid",
			values: url.Values{"name": {"Casa"}, "zoneId": {"2"}, "rooms": {"3"}, "secret": {"x"}},
			want:   map[string]string{},
		},
		{
			name:   "missing required",
			values: url.Values{},
			want: map[string]string{
				"name":   "Este campo es obligatorio",
				"zoneId": "Este campo es obligatorio",
				"secret": "Este campo es obligatorio",
			},
		},
		{
			name:    "password optional on edit",
			values:  url.Values{"name": {"Casa"}, "zoneId": {"2"}},
			editing: true,
			want:    map[string]string{},
		},
		{
			name:    "malformed values",
			values:  url.Values{"name": {"Casa grande y bonita"}, "zoneId": {"x"}, "rooms": {"2.5"}, "price": {"-1"}, "contact": {"nope"}},
			editing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validateForm(placeFields, tt.values, tt.editing, nil).Fields()
			if tt.want != nil {
				assert.Equal(t, tt.want, fields)
				return
			}
			assert.Contains(t, fields, "name")
			assert.Contains(t, fields, "zoneId")
			assert.Contains(t, fields, "rooms")
			assert.Contains(t, fields, "price")
			assert.Contains(t, fields, "contact")
		})
	}
}

func TestValidateForm_RunsCheck(t *testing.T) {
	check := func(validator *validate.Validator, values url.Values, editing bool) {
		validator.Custom("name", values.Get("name") == "Casa" && !editing, "Nombre reservado")
	}

	fields := validateForm(placeFields[:1], url.Values{"name": {"Casa"}}, false, check).Fields()
	assert.Equal(t, "Nombre reservado", fields["name"])
}

func TestValidateForm_MultiSelectRequired(t *testing.T) {
	fields := []Field{{Name: "tagIds", Kind: KindMultiSelect, Required: true}}
	assert.Equal(t, "Selecciona al menos una opción", validateForm(fields, url.Values{}, false, nil).Fields()["tagIds"])
}

// # Payload

func TestBuildPayload(t *testing.T) {
	payload := buildPayload(placeFields, url.Values{
		"name":   {" Casa "},
		"rooms":  {"3"},
		"price":  {"99.5"},
		"zoneId": {"4"},
		"tagIds": {"1", "x", "2"},
		"secret": {""},
	})

	assert.Equal(t, map[string]any{
		"name":    "Casa",
		"rooms":   3,
		"price":   99.5,
		"active":  false,
		"zoneId":  4,
		"tagIds":  []int{1, 2},
		"contact": "",
	}, payload)
}

func TestBuildPayload_StaticSelectStaysString(t *testing.T) {
	fields := []Field{{Name: "action", Kind: KindSelect, Options: StaticOptions("CREATE")}}
	assert.Equal(t, map[string]any{"action": "CREATE"}, buildPayload(fields, url.Values{"action": {"CREATE"}}))
}

func TestRecordValues(t *testing.T) {
	values := recordValues(placeFields, place{
		ID:     1,
		Name:   "Casa",
		Rooms:  2,
		Active: true,
		Zone:   &zone{ID: 9},
		Tags:   []zone{{ID: 1}, {ID: 3}},
	})

	assert.Equal(t, "Casa", values.Get("name"))
	assert.Equal(t, "2", values.Get("rooms"))
	assert.Equal(t, "true", values.Get("active"))
	assert.Equal(t, "9", values.Get("zoneId"))
	assert.Equal(t, []string{"1", "3"}, values["tagIds"])
	assert.Empty(t, values.Get("price"))
	assert.NotContains(t, values, "secret")
}

func TestLookup(t *testing.T) {
	document := map[string]any{
		"owner": map[string]any{"id": 4.0},
		"tags":  []any{map[string]any{"id": 1.0}, map[string]any{"name": "x"}},
	}

	assert.Equal(t, 4.0, lookup(document, "owner.id"))
	assert.Equal(t, []any{1.0}, lookup(document, "tags.id"))
	assert.Nil(t, lookup(document, "missing.id"))
}

func TestOptionsOf(t *testing.T) {
	source := OptionsOf(func(context.Context) ([]zone, error) {
		return []zone{{ID: 1}, {ID: 2}}, nil
	}, func(z zone) Option { return Option{Value: itoa(z.ID), Label: "Zona " + itoa(z.ID)} })

	options, err := source(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Option{{"1", "Zona 1"}, {"2", "Zona 2"}}, options)
}

// # Module With A Mocked Store

type mockStore struct {
	mock.Mock
}

func (store *mockStore) List(ctx context.Context) ([]place, error) {
	args := store.Called(ctx)
	items, _ := args.Get(0).([]place)
	return items, args.Error(1)
}

func (store *mockStore) Get(ctx context.Context, id string) (*place, error) {
	args := store.Called(ctx, id)
	item, _ := args.Get(0).(*place)
	return item, args.Error(1)
}

func (store *mockStore) Create(ctx context.Context, payload any) (*place, error) {
	args := store.Called(ctx, payload)
	item, _ := args.Get(0).(*place)
	return item, args.Error(1)
}

func (store *mockStore) Update(ctx context.Context, id string, payload any) (*place, error) {
	args := store.Called(ctx, id, payload)
	item, _ := args.Get(0).(*place)
	return item, args.Error(1)
}

func (store *mockStore) Delete(ctx context.Context, id string) error {
	return store.Called(ctx, id).Error(0)
}

func newPlaceModule(t *testing.T, store *mockStore) http.Handler {
	t.Helper()

	renderer, err := view.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	module := newModule(Resource[place]{
		Path:       "/admin/places",
		Title:      "Lugares",
		Singular:   "lugar",
		ModuleName: "place",
		Store:      store,
		Columns: []Column[place]{
			{"Nombre", func(p place) string { return p.Name }},
		},
		Fields: placeFields[:1],
		ID:     func(p place) string { return itoa(p.ID) },
		Label:  func(p place) string { return p.Name },
	}, &pages{renderer: renderer})

	router := chi.NewRouter()
	router.Mount("/admin/places", module.routes())
	return router
}

func TestModule_CreateInvalidNeverCallsStore(t *testing.T) {
	store := &mockStore{}
	handler := newPlaceModule(t, store)

	request := httptest.NewRequest(http.MethodPost, "/admin/places", strings.NewReader("name="))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestModule_CreatePostsPayload(t *testing.T) {
	store := &mockStore{}
	store.On("Create", mock.Anything, map[string]any{"name": "Finca"}).Return(&place{ID: 3, Name: "Finca"}, nil).Once()
	handler := newPlaceModule(t, store)

	request := httptest.NewRequest(http.MethodPost, "/admin/places", strings.NewReader("name=Finca"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/admin/places?ok=created", recorder.Header().Get("Location"))
	store.AssertExpectations(t)
}

func TestModule_ListRendersRows(t *testing.T) {
	store := &mockStore{}
	store.On("List", mock.Anything).Return([]place{{ID: 1, Name: "Finca"}, {ID: 2, Name: "Chalet"}}, nil)
	handler := newPlaceModule(t, store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/places?q=chal", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Chalet")
	assert.NotContains(t, recorder.Body.String(), "Finca")
}

func TestModule_EditMissingRecord(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "9").Return(nil, &apiclient.Error{Method: http.MethodGet, Path: "/api/places/9", Status: http.StatusNotFound, Message: "missing"})
	handler := newPlaceModule(t, store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/places/9/edit", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestModule_DeleteRedirects(t *testing.T) {
	store := &mockStore{}
	store.On("Delete", mock.Anything, "4").Return(nil).Once()
	handler := newPlaceModule(t, store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/admin/places/4/delete", nil))

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/admin/places?ok=deleted", recorder.Header().Get("Location"))
	store.AssertExpectations(t)
}

func TestDescribeDevice(t *testing.T) {
	chrome := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	assert.True(t, strings.HasPrefix(describeDevice(chrome), "Chrome on Linux"), describeDevice(chrome))
	assert.Equal(t, "unknown", describeDevice(""))
}
