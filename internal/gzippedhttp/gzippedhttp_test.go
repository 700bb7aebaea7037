package gzippedhttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipString(t *testing.T, input string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	_, err := gzipWriter.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

func echoHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}

func TestUngzipRequest(t *testing.T) {
	handler := UngzipRequest(echoHandler(http.StatusOK))

	t.Run("gzip body is decoded", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(gzipString(t, `{"title":"Deck"}`)))
		request.Header.Set("Content-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, `{"title":"Deck"}`, recorder.Body.String())
	})

	t.Run("plain body is untouched", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, `{}`, recorder.Body.String())
	})

	t.Run("broken gzip", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`not gzip`))
		request.Header.Set("Content-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGzipResponse(t *testing.T) {
	payload := strings.Repeat(`{"slides":[]}`, 100)

	t.Run("compressed when accepted", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		request.Header.Set("Accept-Encoding", "gzip, deflate")
		recorder := httptest.NewRecorder()

		GzipResponse(echoHandler(http.StatusOK)).ServeHTTP(recorder, request)

		require.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(recorder.Body)
		require.NoError(t, err)
		decoded, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, payload, string(decoded))
	})

	t.Run("implicit status is compressed too", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pong"))
		})
		GzipResponse(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
	})

	t.Run("errors stay plain", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("Project not found"))
		request.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		GzipResponse(echoHandler(http.StatusNotFound)).ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, "Project not found", recorder.Body.String())
	})

	t.Run("not accepted", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		recorder := httptest.NewRecorder()

		GzipResponse(echoHandler(http.StatusOK)).ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, recorder.Body.String())
	})
}
