// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/taibuivan/realty/internal/platform/request"
	"github.com/taibuivan/realty/internal/session"
)

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/admin/cities", requestutil.LocalPath("/admin/cities", "/admin"))
	assert.Equal(t, "/admin", requestutil.LocalPath("https://evil.example", "/admin"))
	assert.Equal(t, "/admin", requestutil.LocalPath("//evil.example", "/admin"))
	assert.Equal(t, "/admin", requestutil.LocalPath("", "/admin"))
}

func TestParseForm(t *testing.T) {
	body := url.Values{"name": {"Cali"}}.Encode()
	request := httptest.NewRequest(http.MethodPost, "/admin/cities", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.NoError(t, requestutil.ParseForm(request))
	assert.Equal(t, "Cali", request.PostForm.Get("name"))
}

func TestSnapshot_WithoutSessionIsAnonymous(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	snapshot := requestutil.Snapshot(request)
	assert.Equal(t, session.StateAnonymous, snapshot.State)
	assert.False(t, snapshot.Authenticated())
}
