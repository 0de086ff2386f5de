package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Mode: 0o755,
		Size: int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestAssetFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		name, binary string
	}{
		{"darwin", "amd64", "studiz_Darwin_all.tar.gz", "studiz"},
		{"darwin", "arm64", "studiz_Darwin_all.tar.gz", "studiz"},
		{"linux", "amd64", "studiz_Linux_x86_64.tar.gz", "studiz"},
		{"linux", "arm64", "studiz_Linux_arm64.tar.gz", "studiz"},
		{"linux", "386", "studiz_Linux_i386.tar.gz", "studiz"},
		{"windows", "amd64", "studiz_Windows_x86_64.zip", "studiz.exe"},
		{"windows", "arm64", "studiz_Windows_arm64.zip", "studiz.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			a, err := assetFor(tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.name, a.Name)
			assert.Equal(t, tt.binary, a.Binary)
		})
	}

	_, err := assetFor("plan9", "amd64")
	assert.Error(t, err)
	_, err = assetFor("linux", "riscv64")
	assert.Error(t, err)
}

func TestChecksumIndex(t *testing.T) {
	body := []byte(
		"abc123  studiz_Linux_x86_64.tar.gz\n" +
			"def456  studiz_Darwin_all.tar.gz\n" +
			"not a checksum line with extra fields\n" +
			"loneword\n" +
			"\n")
	index := checksumIndex(body)
	assert.Equal(t, map[string]string{
		"studiz_Linux_x86_64.tar.gz": "abc123",
		"studiz_Darwin_all.tar.gz":   "def456",
	}, index)
}

func TestNewerThan(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"v2.0.0", "v1.0.0", true},
		{"v1.0.0", "v1.0.0", false},
		{"v1.0.0", "v2.0.0", false},
		{"v1.0.1", "v1.0.0", true},
		{"v2.0.0", "(devel)", true},
		{"not-a-version", "v1.0.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newerThan(tt.latest, tt.current),
			"newerThan(%q, %q)", tt.latest, tt.current)
	}
}

func TestAssetUnpack(t *testing.T) {
	content := []byte("#!/bin/sh\necho studiz\n")

	t.Run("tar.gz", func(t *testing.T) {
		a := asset{Name: "studiz_Linux_x86_64.tar.gz", Binary: "studiz"}
		got, err := a.unpack(buildTarGz(t, "studiz", content))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("nested path", func(t *testing.T) {
		a := asset{Name: "studiz_Linux_x86_64.tar.gz", Binary: "studiz"}
		got, err := a.unpack(buildTarGz(t, "dist/studiz", content))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		a := asset{Name: "studiz_Windows_x86_64.zip", Binary: "studiz.exe"}
		got, err := a.unpack(buildZip(t, "studiz.exe", content))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("binary missing", func(t *testing.T) {
		a := asset{Name: "studiz_Linux_x86_64.tar.gz", Binary: "studiz"}
		_, err := a.unpack(buildTarGz(t, "README.md", []byte("docs")))
		assert.ErrorContains(t, err, "not found")
	})
}

func TestSwapBinary(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "studiz")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	want := []byte("new binary bytes")
	require.NoError(t, swapBinary(want, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging file should be gone")
}

// updateFixture serves a fake release with a valid archive and checksums
// and returns a Checker wired to it plus the path of the fake binary.
func updateFixture(t *testing.T, tamper func(archive []byte) []byte) (*Checker, string) {
	t.Helper()

	a, err := assetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	content := []byte("updated binary content")
	var archive []byte
	if filepath.Ext(a.Name) == ".zip" {
		archive = buildZip(t, a.Binary, content)
	} else {
		archive = buildTarGz(t, a.Binary, content)
	}
	served := archive
	if tamper != nil {
		served = tamper(archive)
	}
	sums := fmt.Sprintf("%s  %s\n", sha256Hex(archive), a.Name)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/abhisek/studiz/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v2.0.0", "html_url": "https://github.com/abhisek/studiz/releases/tag/v2.0.0"}`)
	})
	mux.HandleFunc("/abhisek/studiz/releases/download/v2.0.0/"+a.Name, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(served)
	})
	mux.HandleFunc("/abhisek/studiz/releases/download/v2.0.0/checksums.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sums)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	binPath := filepath.Join(t.TempDir(), a.Binary)
	require.NoError(t, os.WriteFile(binPath, []byte("old binary"), 0o755))

	c := NewChecker(
		WithBaseURL(srv.URL),
		WithDownloadBaseURL(srv.URL),
		withExecPath(func() (string, error) { return binPath, nil }),
	)

	return c, binPath
}

func TestUpdate(t *testing.T) {
	c, binPath := updateFixture(t, nil)

	var stages []string
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"},
		func(p UpdateProgress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	got, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated binary content"), got)
	assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
}

func TestUpdate_DevBuild(t *testing.T) {
	c := NewChecker()
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestUpdate_AlreadyLatest(t *testing.T) {
	c, _ := updateFixture(t, nil)
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0"}, nil)
	assert.ErrorIs(t, err, ErrAlreadyLatest)
}

func TestUpdate_ChecksumMismatch(t *testing.T) {
	c, binPath := updateFixture(t, func(archive []byte) []byte {
		return append([]byte("corrupt"), archive...)
	})

	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
	assert.ErrorIs(t, err, ErrChecksum)

	got, readErr := os.ReadFile(binPath)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old binary"), got, "binary must be untouched on failure")
}

func TestUpdate_DownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/studiz/releases/latest" {
			fmt.Fprint(w, `{"tag_name": "v2.0.0", "html_url": ""}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
	assert.ErrorContains(t, err, "download archive")
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/abhisek/studiz/releases/latest", r.URL.Path)
		fmt.Fprint(w, `{"tag_name": "v1.5.0", "html_url": "https://github.com/abhisek/studiz/releases/tag/v1.5.0"}`)
	}))
	defer srv.Close()

	c := NewChecker(WithBaseURL(srv.URL))

	result, err := c.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.NoError(t, err)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "v1.5.0", result.LatestVersion)
	assert.Equal(t, "v1.0.0", result.CurrentVersion)

	result, err = c.Check(context.Background(), &CheckInput{Version: "v1.5.0"})
	require.NoError(t, err)
	assert.False(t, result.UpdateAvailable)
}

func TestCheck_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewChecker(WithBaseURL(srv.URL))
	_, err := c.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	assert.ErrorContains(t, err, "HTTP 500")
}
