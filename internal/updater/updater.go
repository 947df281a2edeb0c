// Package updater downloads and installs a newer tracktoast binary once
// the version check has found one.
package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/tracktoast/tracktoast/internal/httputil"
	"github.com/tracktoast/tracktoast/internal/logging"
)

var log = logging.L("updater")

// Config holds updater configuration.
type Config struct {
	// ReleaseURL is the base URL binaries are published under.
	ReleaseURL string
	// BinaryPath is the installed binary to replace. Empty means the
	// running executable.
	BinaryPath string
	// BackupPath is where the previous binary is kept for Rollback.
	// Defaults to BinaryPath + ".backup".
	BackupPath string
}

// Updater replaces the installed binary with a published release.
type Updater struct {
	config *Config
	client *http.Client
}

// New creates an Updater. BinaryPath defaults to the running executable.
func New(cfg *Config) (*Updater, error) {
	if cfg.BinaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable path: %w", err)
		}
		cfg.BinaryPath = exe
	}
	if cfg.BackupPath == "" {
		cfg.BackupPath = cfg.BinaryPath + ".backup"
	}
	return &Updater{
		config: cfg,
		client: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

// UpdateTo downloads version, verifies its checksum, swaps the installed
// binary, and restarts. On any failure after the swap begins, the previous
// binary is rolled back. Callers may attach an operation-scoped logger via
// logging.NewContext; otherwise the default logger is used.
func (u *Updater) UpdateTo(ctx context.Context, version string) error {
	log := logging.FromContext(ctx)
	log.Info("starting update", "targetVersion", version)

	tempPath, err := u.downloadBinary(ctx, version)
	if err != nil {
		return fmt.Errorf("download binary: %w", err)
	}
	defer os.Remove(tempPath)

	checksum, err := u.fetchChecksum(ctx, version)
	if err != nil {
		return fmt.Errorf("fetch checksum: %w", err)
	}

	if err := verifyChecksum(tempPath, checksum); err != nil {
		return fmt.Errorf("checksum verification: %w", err)
	}

	if err := u.backupCurrentBinary(); err != nil {
		return fmt.Errorf("backup current binary: %w", err)
	}

	if err := u.replaceBinary(tempPath); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			log.Error("rollback failed after replace error", "replaceError", err, "rollbackError", rbErr)
			return fmt.Errorf("replace binary: %w (rollback also failed: %v)", err, rbErr)
		}
		return fmt.Errorf("replace binary (rolled back): %w", err)
	}

	if err := Restart(); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			log.Error("rollback failed after restart error", "restartError", err, "rollbackError", rbErr)
			return fmt.Errorf("restart: %w (rollback also failed: %v)", err, rbErr)
		}
		return fmt.Errorf("restart (rolled back): %w", err)
	}

	return nil
}

// binaryURL builds the per-platform artifact URL for a version.
func (u *Updater) binaryURL(version string) string {
	name := fmt.Sprintf("tracktoast-%s-%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.config.ReleaseURL, "/"), version, name)
}

// downloadBinary fetches the release artifact to a temp file.
func (u *Updater) downloadBinary(ctx context.Context, version string) (string, error) {
	url := u.binaryURL(version)

	resp, err := httputil.Do(ctx, u.client, http.MethodGet, url, nil, nil, httputil.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("binary download failed with status %d", resp.StatusCode)
	}

	tempFile, err := os.CreateTemp("", "tracktoast-update-*")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}

	return tempFile.Name(), nil
}

// fetchChecksum reads the SHA-256 sidecar published next to the artifact.
// The sidecar holds the hex digest, optionally followed by a filename.
func (u *Updater) fetchChecksum(ctx context.Context, version string) (string, error) {
	url := u.binaryURL(version) + ".sha256"

	resp, err := httputil.Do(ctx, u.client, http.MethodGet, url, nil, nil, httputil.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checksum download failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}

	checksum := strings.Fields(strings.TrimSpace(string(body)))
	if len(checksum) == 0 || len(checksum[0]) != sha256.Size*2 {
		return "", fmt.Errorf("malformed checksum file at %s", url)
	}
	return strings.ToLower(checksum[0]), nil
}

// verifyChecksum verifies the SHA-256 digest of a file.
func verifyChecksum(path, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return err
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

// backupCurrentBinary copies the installed binary to BackupPath.
func (u *Updater) backupCurrentBinary() error {
	os.Remove(u.config.BackupPath)

	src, err := os.Open(u.config.BinaryPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(u.config.BackupPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	info, err := os.Stat(u.config.BinaryPath)
	if err != nil {
		return err
	}
	return os.Chmod(u.config.BackupPath, info.Mode())
}

// replaceBinary swaps the installed binary for the downloaded one. Windows
// cannot overwrite a running executable, so the old file is renamed aside
// first; the stale ".old" file is cleared on the next update.
func (u *Updater) replaceBinary(newPath string) error {
	if runtime.GOOS == "windows" {
		oldPath := u.config.BinaryPath + ".old"
		os.Remove(oldPath)
		if err := os.Rename(u.config.BinaryPath, oldPath); err != nil {
			return err
		}
	}

	src, err := os.Open(newPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(u.config.BinaryPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(u.config.BinaryPath, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Rollback restores the backup binary.
func (u *Updater) Rollback() error {
	log.Info("rolling back to previous version")

	if _, err := os.Stat(u.config.BackupPath); os.IsNotExist(err) {
		return fmt.Errorf("no backup found at %s", u.config.BackupPath)
	}

	src, err := os.Open(u.config.BackupPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(u.config.BinaryPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(u.config.BinaryPath, 0755); err != nil {
			return err
		}
	}
	return nil
}
