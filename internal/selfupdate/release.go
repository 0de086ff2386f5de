package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// asset identifies the release file for one platform and the
// executable packed inside it.
type asset struct {
	Name   string // file name under the release tag
	Binary string // executable name inside the archive
}

var releaseArchs = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// assetFor maps a GOOS/GOARCH pair onto the published release layout.
// Darwin ships a single universal archive.
func assetFor(goos, goarch string) (asset, error) {
	arch, ok := releaseArchs[goarch]
	if !ok {
		return asset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}

	switch goos {
	case "darwin":
		return asset{Name: "studiz_Darwin_all.tar.gz", Binary: "studiz"}, nil
	case "linux":
		return asset{Name: "studiz_Linux_" + arch + ".tar.gz", Binary: "studiz"}, nil
	case "windows":
		return asset{Name: "studiz_Windows_" + arch + ".zip", Binary: "studiz.exe"}, nil
	default:
		return asset{}, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// unpack pulls the platform executable out of the asset's archive.
func (a asset) unpack(data []byte) ([]byte, error) {
	if strings.HasSuffix(a.Name, ".zip") {
		return a.unpackZip(data)
	}
	return a.unpackTarGz(data)
}

func (a asset) unpackTarGz(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("binary %q not found in %s", a.Binary, a.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == a.Binary {
			return io.ReadAll(tr)
		}
	}
}

func (a asset) unpackZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) != a.Binary {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in %s", a.Binary, a.Name)
}

// release addresses the downloadable files of one tagged release.
type release struct {
	base  string
	owner string
	repo  string
	tag   string
}

func (r release) fileURL(name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(r.base, "/"), r.owner, r.repo, r.tag, name)
}

// checksumIndex parses a checksums.txt body ("<hex>  <file>" per line)
// into a file → hex map. Lines that don't fit the shape are ignored.
func checksumIndex(data []byte) map[string]string {
	index := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		index[fields[1]] = fields[0]
	}
	return index
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
