package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

func writeImage(t *testing.T, name string, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
	return p
}

func TestImgur_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID abc", r.Header.Get("Authorization"))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Len(t, data, 10)
		assert.Equal(t, "shot.png", hdr.Filename)
		_, _ = w.Write([]byte(`{"success":true,"status":200,"data":{"link":"https://i.imgur.com/x.png"}}`))
	}))
	defer srv.Close()

	u := NewImgur(ImgurConfig{ClientID: "abc", Endpoint: srv.URL}, nil)
	url, err := u.Upload(context.Background(), writeImage(t, "shot.png", 10))
	require.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/x.png", url)
}

func TestImgBB_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k&1", r.URL.Query().Get("key"))
		_, _, err := r.FormFile("image")
		require.NoError(t, err)
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x.png"}}`))
	}))
	defer srv.Close()

	u := NewImgBB(ImgBBConfig{APIKey: "k&1", Endpoint: srv.URL}, nil)
	url, err := u.Upload(context.Background(), writeImage(t, "shot.jpg", 10))
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x.png", url)
}

func TestTelegraph_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "shot.gif", hdr.Filename)
		_, _ = w.Write([]byte(`[{"src":"/file/6a5b15e7eb4d7329ca7af.gif"}]`))
	}))
	defer srv.Close()

	u := NewTelegraph(TelegraphConfig{BaseURL: srv.URL + "/"}, nil)
	url, err := u.Upload(context.Background(), writeImage(t, "shot.gif", 10))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/file/6a5b15e7eb4d7329ca7af.gif", url)
}

func TestTelegraph_Failures(t *testing.T) {
	for name, reply := range map[string]string{
		"error object": `{"error":"File type invalid"}`,
		"empty list":   `[]`,
		"no src":       `[{}]`,
		"not json":     `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(reply))
			}))
			defer srv.Close()

			_, err := NewTelegraph(TelegraphConfig{BaseURL: srv.URL}, nil).Upload(context.Background(), writeImage(t, "a.png", 10))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrUpload)
		})
	}
}

func TestManager_FallsBackToTelegraph(t *testing.T) {
	imgur := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer imgur.Close()
	telegraph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"src":"/file/x.png"}]`))
	}))
	defer telegraph.Close()

	m := NewManager(nil,
		NewImgur(ImgurConfig{ClientID: "abc", Endpoint: imgur.URL}, nil),
		NewTelegraph(TelegraphConfig{BaseURL: telegraph.URL}, nil),
	)
	url, err := m.Upload(context.Background(), writeImage(t, "shot.png", 10))
	require.NoError(t, err)
	assert.Equal(t, telegraph.URL+"/file/x.png", url)
	assert.Equal(t, ProviderStats{Failed: 1}, m.Stats()["imgur"])
	assert.Equal(t, ProviderStats{Succeeded: 1}, m.Stats()["telegraph"])
}

func TestUpload_Failures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/denied":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"success":false}`))
		default:
			_, _ = w.Write([]byte(`{"success":false,"data":{}}`))
		}
	}))
	defer srv.Close()

	tests := []struct {
		name      string
		endpoint  string
		file      func(t *testing.T) string
		wantInput bool
	}{
		{"empty file", srv.URL, func(t *testing.T) string { return writeImage(t, "a.png", 0) }, true},
		{"too large", srv.URL, func(t *testing.T) string { return writeImage(t, "a.png", constants.MaxUploadBytes+1) }, true},
		{"wrong type", srv.URL, func(t *testing.T) string { return writeImage(t, "a.pdf", 10) }, true},
		{"non-2xx", srv.URL + "/denied", func(t *testing.T) string { return writeImage(t, "a.png", 10) }, false},
		{"success false", srv.URL, func(t *testing.T) string { return writeImage(t, "a.png", 10) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := hits.Load()
			u := NewImgur(ImgurConfig{ClientID: "abc", Endpoint: tt.endpoint}, nil)
			_, err := u.Upload(context.Background(), tt.file(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrUpload)
			if tt.wantInput {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				assert.Equal(t, before, hits.Load(), "no network call expected")
			}
		})
	}
}

type stubUploader struct {
	name string
	url  string
	err  error
}

func (s stubUploader) Name() string { return s.name }

func (s stubUploader) Upload(context.Context, string) (string, error) { return s.url, s.err }

func TestManager_Fallback(t *testing.T) {
	m := NewManager(nil,
		stubUploader{name: "imgur", err: errors.New("imgur down")},
		stubUploader{name: "imgbb", url: "https://i.ibb.co/x.png"},
	)
	url, err := m.Upload(context.Background(), "shot.png")
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x.png", url)
	assert.Equal(t, map[string]ProviderStats{
		"imgur": {Failed: 1},
		"imgbb": {Succeeded: 1},
	}, m.Stats())
}

func TestManager_AllFail(t *testing.T) {
	m := NewManager(nil,
		stubUploader{name: "imgur", err: errors.New("imgur down")},
		stubUploader{name: "imgbb", err: errors.New("imgbb down")},
	)
	_, err := m.Upload(context.Background(), "shot.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpload)
	assert.Contains(t, err.Error(), "imgur down")
	assert.Contains(t, err.Error(), "imgbb down")

	_, err = NewManager(nil).Upload(context.Background(), "shot.png")
	assert.ErrorIs(t, err, common.ErrUpload)
}
