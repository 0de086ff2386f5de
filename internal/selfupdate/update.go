package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

var (
	// ErrDevBuild means the running binary was not built from a release.
	ErrDevBuild = errors.New("cannot update a development build")
	// ErrAlreadyLatest means no newer release exists.
	ErrAlreadyLatest = errors.New("already running the latest version")
	// ErrChecksum means the downloaded archive failed verification.
	ErrChecksum = errors.New("checksum verification failed")
)

// UpdateInput carries the version of the running binary and, optionally,
// a specific release tag to install instead of the latest.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress reports one stage of the update as it starts.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads the release archive for this platform, verifies it
// against the published checksums and swaps the running binary for the
// new one. The progress callback, if non-nil, fires once per stage.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	report := func(stage, message string) {
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: message})
		}
	}

	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	target := input.TargetVersion
	if target == "" {
		report("check", "Checking for the latest release")
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return err
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		target = result.LatestVersion
	}

	a, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	rel := release{base: c.downloadBaseURL, owner: c.owner, repo: c.repo, tag: target}

	report("download", fmt.Sprintf("Downloading %s", a.Name))
	archive, err := c.fetch(ctx, rel.fileURL(a.Name))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	sums, err := c.fetch(ctx, rel.fileURL("checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}

	report("verify", "Verifying checksum")
	want, ok := checksumIndex(sums)[a.Name]
	if !ok {
		return fmt.Errorf("%w: no entry for %s", ErrChecksum, a.Name)
	}
	if got := sha256Hex(archive); got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, want)
	}

	report("extract", "Extracting binary")
	binary, err := a.unpack(archive)
	if err != nil {
		return err
	}

	report("apply", "Installing new binary")
	execPath, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := swapBinary(binary, execPath); err != nil {
		return err
	}

	report("done", fmt.Sprintf("Updated to %s", target))
	return nil
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// swapBinary writes data to a staging file next to target, confirms the
// write round-trips intact and renames it over target, keeping target's
// permission bits. Staging in the same directory keeps the rename atomic.
func swapBinary(data []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat current binary: %w", err)
	}

	staged, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".new-*")
	if err != nil {
		return fmt.Errorf("stage new binary: %w", err)
	}
	stagedPath := staged.Name()
	defer func() { _ = os.Remove(stagedPath) }()

	if _, err := staged.Write(data); err != nil {
		_ = staged.Close()
		return fmt.Errorf("write new binary: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("write new binary: %w", err)
	}

	written, err := os.ReadFile(stagedPath)
	if err != nil {
		return fmt.Errorf("read back staged binary: %w", err)
	}
	if sha256Hex(written) != sha256Hex(data) {
		return fmt.Errorf("%w: staged binary does not match download", ErrChecksum)
	}

	if err := os.Chmod(stagedPath, info.Mode()); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(stagedPath, target); err != nil {
		return fmt.Errorf("replace binary: %w", err)
	}
	return nil
}
