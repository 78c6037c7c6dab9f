package spec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600))
	return path
}

func requireSpecError(t *testing.T, err error) *SpecError {
	t.Helper()
	require.Error(t, err)
	var se *SpecError
	require.True(t, errors.As(err, &se), "expected SpecError, got %T", err)
	return se
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "   ")
	assert.Equal(t, InputError, requireSpecError(t, err).Code)
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "ftp://example.com/spec.yaml")
	assert.Equal(t, InputError, requireSpecError(t, err).Code)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	se := requireSpecError(t, err)
	assert.Equal(t, InputError, se.Code)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/spec.yaml",
		WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
	assert.Equal(t, NetworkError, requireSpecError(t, err).Code)
}

func TestLoad_RetriesTransientHTTP(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleSpec))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/openapi.yaml", WithBackoffBase(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "Sample API", doc.Info.Title)
	assert.EqualValues(t, 2, calls.Load())
}

func TestLoad_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, WithBackoffBase(time.Millisecond))
	assert.Equal(t, NetworkError, requireSpecError(t, err).Code)
	assert.EqualValues(t, 1, calls.Load())
}

func TestLoad_UnknownVersion(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "odd.yaml", "title: not a spec")
	_, err := Load(context.Background(), path)
	se := requireSpecError(t, err)
	assert.Equal(t, ParseError, se.Code)
	assert.NotEmpty(t, se.Location)
}

func TestLoad_V3_InvalidSpec(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "bad.yaml", `openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths:
  "/pet":
    get:
      responses: {}
`)
	_, err := Load(context.Background(), path)
	se := requireSpecError(t, err)
	assert.Contains(t, []ErrorCode{ValidationError, ParseError}, se.Code)

	_, err = Load(context.Background(), path, WithSkipValidation(true))
	assert.NoError(t, err)
}

func TestLoad_V3_File(t *testing.T) {
	t.Parallel()
	doc, err := Load(context.Background(), writeSpec(t, "openapi.yaml", sampleSpec))
	require.NoError(t, err)
	assert.Contains(t, doc.Paths, "/pets/{petId}")
}

func TestLoad_V2_Conversion(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger.yaml", `swagger: "2.0"
info:
  title: Sample
  version: "1.0.0"
paths:
  "/hello/{name}":
    get:
      parameters:
        - in: path
          name: name
          required: true
          type: string
        - in: query
          name: loud
          type: boolean
      responses:
        "200":
          description: ok
`)
	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.OpenAPI, "3."), "got %q", doc.OpenAPI)

	sm, err := BuildServiceModel(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sm.Operations, 1)
	params := sm.Operations[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, InPath, params[0].In)
	assert.Equal(t, "string", params[0].Schema.Type)
	assert.Equal(t, "boolean", params[1].Schema.Type)
}

func TestLoad_V2_ConversionFailure(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger-bad.yaml", `swagger: "2.0"
paths: {}
`)
	_, err := Load(context.Background(), path)
	se := requireSpecError(t, err)
	assert.Contains(t, []ErrorCode{ConversionError, ValidationError}, se.Code)
}
