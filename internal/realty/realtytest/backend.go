// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package realtytest provides an in-memory stand-in for the backend REST API.
package realtytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/realty"
)

// Failure is a canned error answer.
type Failure struct {
	Status  int
	Message string
}

// Upload is one file received by the image endpoint.
type Upload struct {
	PropertyID  string
	Filename    string
	ContentType string
	Cover       bool
}

// Backend serves collections of JSON records under /api/{resource}.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	nextID   int
	records  map[string][]map[string]any
	images   map[string][]map[string]any
	calls    map[string]int
	bodies   map[string]map[string]any
	headers  map[string]http.Header
	failures map[string]Failure
	uploads  []Upload

	email    string
	password string
	token    string
}

// NewBackend starts a backend closed with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	backend := &Backend{
		nextID:   1000,
		records:  make(map[string][]map[string]any),
		images:   make(map[string][]map[string]any),
		calls:    make(map[string]int),
		bodies:   make(map[string]map[string]any),
		headers:  make(map[string]http.Header),
		failures: make(map[string]Failure),
	}
	backend.Server = httptest.NewServer(backend.routes())
	t.Cleanup(backend.Server.Close)
	return backend
}

// Client returns an API client pointed at the backend.
func (backend *Backend) Client() *apiclient.Client {
	return apiclient.New(backend.Server.URL, 2*time.Second)
}

// Catalog returns the domain services wired to the backend.
func (backend *Backend) Catalog() *realty.Catalog {
	return realty.NewCatalog(backend.Client(), constants.APIDepartaments)
}

// # Fixtures

// Seed appends records to resource, assigning ids when missing.
func (backend *Backend) Seed(resource string, records ...map[string]any) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	for _, record := range records {
		if _, found := record["id"]; !found {
			backend.nextID++
			record["id"] = backend.nextID
		}
		backend.records[resource] = append(backend.records[resource], record)
	}
}

// SeedImages sets the image metadata of a property.
func (backend *Backend) SeedImages(propertyID string, images ...map[string]any) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.images[propertyID] = images
}

// AcceptLogin makes /api/auth/login answer token for the credentials.
func (backend *Backend) AcceptLogin(email, password, token string) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.email, backend.password, backend.token = email, password, token
}

// Fail makes method path answer with failure until cleared with status 0.
func (backend *Backend) Fail(method, path string, status int, message string) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	key := method + " " + path
	if status == 0 {
		delete(backend.failures, key)
		return
	}
	backend.failures[key] = Failure{Status: status, Message: message}
}

// # Inspection

// Records returns a copy of the records of resource.
func (backend *Backend) Records(resource string) []map[string]any {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]map[string]any(nil), backend.records[resource]...)
}

// Calls counts requests to method path.
func (backend *Backend) Calls(method, path string) int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.calls[method+" "+path]
}

// LastBody returns the last JSON body sent to method path.
func (backend *Backend) LastBody(method, path string) map[string]any {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.bodies[method+" "+path]
}

// LastHeader returns the headers of the last request to method path.
func (backend *Backend) LastHeader(method, path string) http.Header {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.headers[method+" "+path]
}

// Uploads returns the files received so far.
func (backend *Backend) Uploads() []Upload {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]Upload(nil), backend.uploads...)
}

// # Routes

func (backend *Backend) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(backend.track)

	router.Post(constants.APIAuthLogin, backend.login)
	router.Get("/api/locations/{resource}", backend.locations)
	router.Get("/api/properties/{id}/images/meta", backend.imageMeta)
	router.Post("/api/properties/{id}/images", backend.upload)

	router.Get("/api/{resource}", backend.list)
	router.Post("/api/{resource}", backend.create)
	router.Get("/api/{resource}/{id}", backend.get)
	router.Put("/api/{resource}/{id}", backend.update)
	router.Delete("/api/{resource}/{id}", backend.remove)
	return router
}

// track counts calls, keeps bodies and serves canned failures.
func (backend *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := request.Method + " " + request.URL.Path

		var body map[string]any
		if strings.HasPrefix(request.Header.Get("Content-Type"), "application/json") {
			_ = json.NewDecoder(request.Body).Decode(&body)
		}

		backend.mu.Lock()
		backend.calls[key]++
		backend.headers[key] = request.Header.Clone()
		if body != nil {
			backend.bodies[key] = body
		}
		failure, failing := backend.failures[key]
		backend.mu.Unlock()

		if failing {
			writeJSON(writer, failure.Status, map[string]any{"message": failure.Message})
			return
		}

		if body != nil {
			request = request.WithContext(withBody(request.Context(), body))
		}
		next.ServeHTTP(writer, request)
	})
}

func (backend *Backend) login(writer http.ResponseWriter, request *http.Request) {
	body := bodyOf(request.Context())

	backend.mu.Lock()
	accepted := backend.token != "" && body["email"] == backend.email && body["password"] == backend.password
	token := backend.token
	backend.mu.Unlock()

	if !accepted {
		writeJSON(writer, http.StatusUnauthorized, map[string]any{"message": "Credenciales inválidas"})
		return
	}
	writeJSON(writer, http.StatusOK, map[string]any{"data": map[string]any{"token": token}})
}

func (backend *Backend) list(writer http.ResponseWriter, request *http.Request) {
	resource := chi.URLParam(request, "resource")
	filters := request.URL.Query()

	backend.mu.Lock()
	matched := make([]map[string]any, 0, len(backend.records[resource]))
	for _, record := range backend.records[resource] {
		if matches(record, filters) {
			matched = append(matched, record)
		}
	}
	backend.mu.Unlock()

	writeJSON(writer, http.StatusOK, matched)
}

// locations serves the public lookups from the same collections; the
// departments lookup reads the misspelled admin collection.
func (backend *Backend) locations(writer http.ResponseWriter, request *http.Request) {
	resource := chi.URLParam(request, "resource")
	if resource == "departments" {
		resource = "departaments"
	}

	backend.mu.Lock()
	matched := make([]map[string]any, 0)
	for _, record := range backend.records[resource] {
		if matches(record, request.URL.Query()) {
			matched = append(matched, record)
		}
	}
	backend.mu.Unlock()

	writeJSON(writer, http.StatusOK, matched)
}

func (backend *Backend) get(writer http.ResponseWriter, request *http.Request) {
	record, found := backend.find(chi.URLParam(request, "resource"), chi.URLParam(request, "id"))
	if !found {
		writeJSON(writer, http.StatusNotFound, map[string]any{"message": "No existe"})
		return
	}
	writeJSON(writer, http.StatusOK, map[string]any{"data": record})
}

func (backend *Backend) create(writer http.ResponseWriter, request *http.Request) {
	record := bodyOf(request.Context())
	if record == nil {
		record = map[string]any{}
	}
	backend.Seed(chi.URLParam(request, "resource"), record)
	writeJSON(writer, http.StatusCreated, record)
}

func (backend *Backend) update(writer http.ResponseWriter, request *http.Request) {
	resource, id := chi.URLParam(request, "resource"), chi.URLParam(request, "id")

	backend.mu.Lock()
	defer backend.mu.Unlock()

	for _, record := range backend.records[resource] {
		if fmt.Sprint(record["id"]) == id {
			for key, value := range bodyOf(request.Context()) {
				record[key] = value
			}
			writeJSON(writer, http.StatusOK, record)
			return
		}
	}
	writeJSON(writer, http.StatusNotFound, map[string]any{"message": "No existe"})
}

func (backend *Backend) remove(writer http.ResponseWriter, request *http.Request) {
	resource, id := chi.URLParam(request, "resource"), chi.URLParam(request, "id")

	backend.mu.Lock()
	defer backend.mu.Unlock()

	records := backend.records[resource]
	for index, record := range records {
		if fmt.Sprint(record["id"]) == id {
			backend.records[resource] = append(records[:index:index], records[index+1:]...)
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(writer, http.StatusNotFound, map[string]any{"message": "No existe"})
}

func (backend *Backend) imageMeta(writer http.ResponseWriter, request *http.Request) {
	backend.mu.Lock()
	images := append([]map[string]any{}, backend.images[chi.URLParam(request, "id")]...)
	backend.mu.Unlock()

	writeJSON(writer, http.StatusOK, images)
}

func (backend *Backend) upload(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if err := request.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	cover := request.FormValue("isCover") == "true"

	backend.mu.Lock()
	defer backend.mu.Unlock()

	var stored []map[string]any
	for index, header := range request.MultipartForm.File["images"] {
		backend.uploads = append(backend.uploads, Upload{
			PropertyID:  id,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Cover:       cover && index == 0,
		})
		backend.nextID++
		stored = append(stored, map[string]any{
			"id":      backend.nextID,
			"url":     "/uploads/" + header.Filename,
			"isCover": cover && index == 0,
		})
	}
	backend.images[id] = append(backend.images[id], stored...)
	writeJSON(writer, http.StatusCreated, stored)
}

// # Helpers

func (backend *Backend) find(resource, id string) (map[string]any, bool) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	for _, record := range backend.records[resource] {
		if fmt.Sprint(record["id"]) == id {
			return record, true
		}
	}
	return nil, false
}

// matches applies equality filters such as ?countryId=1.
func matches(record map[string]any, filters map[string][]string) bool {
	for key, values := range filters {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		if fmt.Sprint(record[key]) != values[0] {
			return false
		}
	}
	return true
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
