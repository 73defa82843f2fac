package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>deck</html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "content"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "content", "a.md"), []byte("```\n&lt;a&gt;\n```"), 0644))
	return root
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(Config{Port: 3000, Root: "/nonexistent/dist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run build first")
}

func TestNew_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := New(Config{Root: file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(Config{Port: 70000, Root: t.TempDir()})
	assert.Error(t, err)
}

func TestHandler_ServesIndex(t *testing.T) {
	s, err := New(Config{Root: buildRoot(t)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deck")
}

func TestHandler_ServesContentAsset(t *testing.T) {
	s, err := New(Config{Root: buildRoot(t), Verbose: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/content/a.md", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "```\n&lt;a&gt;\n```", w.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	s, err := New(Config{Root: buildRoot(t), Verbose: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/missing.js", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_NoTraversal(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "dist")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0644))

	s, err := New(Config{Root: root})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/../secret.txt", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.NotContains(t, w.Body.String(), "secret")
}

func TestServe_ListensAndShutsDown(t *testing.T) {
	s, err := New(Config{Port: 0, Root: buildRoot(t)})
	require.NoError(t, err)
	require.NoError(t, s.Listen())
	assert.True(t, strings.HasPrefix(s.URL(), "http://localhost:"))
	assert.NotEqual(t, "http://localhost:0", s.URL())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	resp, err := http.Get(s.URL() + "/index.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "<html>deck</html>", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// socket released
	_, err = http.Get(s.URL() + "/index.html")
	assert.Error(t, err)
}

func TestListen_PortInUse(t *testing.T) {
	first, err := New(Config{Port: 0, Root: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, first.Listen())
	defer first.listener.Close()

	port := first.listener.Addr().(*net.TCPAddr).Port
	second, err := New(Config{Port: port, Root: t.TempDir()})
	require.NoError(t, err)

	err = second.Listen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
