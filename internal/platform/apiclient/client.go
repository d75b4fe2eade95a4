// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apiclient is the single configured HTTP client used to reach the
backend REST API.

Every domain service goes through [Client]. It owns the base URL, JSON
encoding, the bearer token (taken from the request context), per-call
timeouts, metrics and tracing. It never retries.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
)

const tracerName = "github.com/taibuivan/realty/internal/platform/apiclient"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Recorder receives one observation per outbound call.
type Recorder interface {
	ObserveBackendCall(method, resource string, status int, durationSeconds float64)
}

type noopRecorder struct{}

func (noopRecorder) ObserveBackendCall(string, string, int, float64) {}

// Client calls the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	recorder   Recorder
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// WithLogger sets the logger used for transport diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		recorder:   noopRecorder{},
		tracer:     otel.Tracer(tracerName),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// # Verbs

// Get decodes the JSON response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	payload, err := encode(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, payload, "application/json", out)
}

// Put sends body as JSON and decodes the response into out (may be nil).
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	payload, err := encode(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, payload, "application/json", out)
}

// Delete issues DELETE path and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// Ping reports whether the backend answers GET path. Client errors count as
// reachable; server and transport failures do not.
func (c *Client) Ping(ctx context.Context, path string) error {
	err := c.do(ctx, http.MethodGet, path, nil, nil, "", nil)
	if status := StatusOf(err); status > 0 && status < http.StatusInternalServerError {
		return nil
	}
	return err
}

// File is one part of a multipart upload.
type File struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Upload posts files and fields as multipart/form-data.
func (c *Client) Upload(ctx context.Context, path string, files []File, fields map[string]string, out any) error {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("apiclient: failed to write field %s: %w", name, err)
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("apiclient: failed to create part %s: %w", file.Filename, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("apiclient: failed to copy %s: %w", file.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("apiclient: failed to close multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buffer, writer.FormDataContentType(), out)
}

// # Transport

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	resource := ResourceLabel(path)

	ctx, span := c.tracer.Start(ctx, "backend "+method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return fmt.Errorf("apiclient: failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token := ctxutil.GetToken(ctx); token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	startTime := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.recorder.ObserveBackendCall(method, resource, 0, time.Since(startTime).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return &Error{Method: method, Path: path, Message: "backend unreachable", Cause: err}
	}
	defer response.Body.Close()

	c.recorder.ObserveBackendCall(method, resource, response.StatusCode, time.Since(startTime).Seconds())
	span.SetAttributes(attribute.Int("http.response.status_code", response.StatusCode))

	if response.StatusCode >= 400 {
		apiErr := newStatusError(method, path, response)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.DebugContext(ctx, "backend_call_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", response.StatusCode),
		)
		return apiErr
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil && err != io.EOF {
		span.SetStatus(codes.Error, "decode")
		return fmt.Errorf("apiclient: failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func encode(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: failed to marshal request: %w", err)
	}
	return bytes.NewReader(payload), nil
}

// ResourceLabel reduces a path to its resource name for metrics and spans:
// "/api/properties/12/images" becomes "properties".
func ResourceLabel(path string) string {
	trimmed := strings.TrimPrefix(strings.Trim(path, "/"), "api/")
	if head, _, found := strings.Cut(trimmed, "/"); found {
		if head == "auth" || head == "locations" {
			second, _, _ := strings.Cut(strings.TrimPrefix(trimmed, head+"/"), "/")
			return head + "." + second
		}
		return head
	}
	return trimmed
}
