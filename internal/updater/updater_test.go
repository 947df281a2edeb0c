package updater

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tracktoast/tracktoast/internal/logging"
)

func TestUpdateToLogsThroughContextLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("command", "check-update")
	ctx := logging.NewContext(context.Background(), logger)

	u, err := New(&Config{ReleaseURL: srv.URL, BinaryPath: filepath.Join(t.TempDir(), "tt")})
	if err != nil {
		t.Fatal(err)
	}
	if err := u.UpdateTo(ctx, "9.9.9"); err == nil {
		t.Fatal("download of a missing release must fail")
	}

	out := buf.String()
	if !strings.Contains(out, "starting update") {
		t.Fatalf("context logger saw no update log: %s", out)
	}
	if !strings.Contains(out, "command=check-update") {
		t.Fatalf("caller attrs missing from update log: %s", out)
	}
}

func TestNewDefaultsToRunningExecutable(t *testing.T) {
	u, err := New(&Config{ReleaseURL: "http://localhost:9"})
	if err != nil {
		t.Fatal(err)
	}
	if u.config.BinaryPath == "" {
		t.Fatal("BinaryPath not defaulted")
	}
	if u.config.BackupPath != u.config.BinaryPath+".backup" {
		t.Fatalf("BackupPath = %q", u.config.BackupPath)
	}
}

func TestBinaryURLLayout(t *testing.T) {
	u, err := New(&Config{ReleaseURL: "https://example.com/releases/", BinaryPath: "/tmp/tt"})
	if err != nil {
		t.Fatal(err)
	}
	url := u.binaryURL("1.8.0")
	if !strings.HasPrefix(url, "https://example.com/releases/1.8.0/tracktoast-") {
		t.Fatalf("unexpected artifact URL: %s", url)
	}
	if !strings.Contains(url, runtime.GOOS) || !strings.Contains(url, runtime.GOARCH) {
		t.Fatalf("artifact URL missing platform: %s", url)
	}
}

func TestVerifyChecksumValid(t *testing.T) {
	content := []byte("tracktoast binary payload")

	path := filepath.Join(t.TempDir(), "artifact")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(content)
	if err := verifyChecksum(path, hex.EncodeToString(sum[:])); err != nil {
		t.Fatalf("valid checksum should pass: %v", err)
	}
}

func TestVerifyChecksumInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact")
	if err := os.WriteFile(path, []byte("actual content"), 0644); err != nil {
		t.Fatal(err)
	}

	err := verifyChecksum(path, strings.Repeat("0", 64))
	if err == nil {
		t.Fatal("invalid checksum should fail")
	}
}

func TestVerifyChecksumFileNotFound(t *testing.T) {
	if err := verifyChecksum("/nonexistent/file", "abc"); err == nil {
		t.Fatal("nonexistent file should return error")
	}
}

func TestFetchChecksumParsesSidecar(t *testing.T) {
	digest := strings.Repeat("ab", 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".sha256") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(digest + "  tracktoast-linux-amd64\n"))
	}))
	defer srv.Close()

	u, err := New(&Config{ReleaseURL: srv.URL, BinaryPath: "/tmp/tt"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := u.fetchChecksum(context.Background(), "1.8.0")
	if err != nil {
		t.Fatal(err)
	}
	if got != digest {
		t.Fatalf("checksum = %q, want %q", got, digest)
	}
}

func TestFetchChecksumRejectsMalformedSidecar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-a-digest"))
	}))
	defer srv.Close()

	u, err := New(&Config{ReleaseURL: srv.URL, BinaryPath: "/tmp/tt"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.fetchChecksum(context.Background(), "1.8.0"); err == nil {
		t.Fatal("malformed sidecar should fail")
	}
}

func TestBackupCurrentBinary(t *testing.T) {
	tmpDir := t.TempDir()
	binaryPath := filepath.Join(tmpDir, "tracktoast")
	backupPath := filepath.Join(tmpDir, "tracktoast.backup")

	if err := os.WriteFile(binaryPath, []byte("v1.7.2 binary"), 0755); err != nil {
		t.Fatal(err)
	}

	u, err := New(&Config{BinaryPath: binaryPath, BackupPath: backupPath})
	if err != nil {
		t.Fatal(err)
	}

	if err := u.backupCurrentBinary(); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	backup, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != "v1.7.2 binary" {
		t.Fatalf("backup content mismatch: %s", backup)
	}

	origInfo, _ := os.Stat(binaryPath)
	backupInfo, _ := os.Stat(backupPath)
	if origInfo.Mode() != backupInfo.Mode() {
		t.Fatalf("permissions mismatch: orig=%v backup=%v", origInfo.Mode(), backupInfo.Mode())
	}
}

func TestReplaceBinary(t *testing.T) {
	tmpDir := t.TempDir()
	binaryPath := filepath.Join(tmpDir, "tracktoast")
	newPath := filepath.Join(tmpDir, "downloaded")

	if err := os.WriteFile(binaryPath, []byte("old"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	u, err := New(&Config{BinaryPath: binaryPath})
	if err != nil {
		t.Fatal(err)
	}

	if err := u.replaceBinary(newPath); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	got, err := os.ReadFile(binaryPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("binary content = %q, want new", got)
	}
}

func TestRollbackRestoresBackup(t *testing.T) {
	tmpDir := t.TempDir()
	binaryPath := filepath.Join(tmpDir, "tracktoast")
	backupPath := filepath.Join(tmpDir, "tracktoast.backup")

	if err := os.WriteFile(binaryPath, []byte("broken"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(backupPath, []byte("good"), 0755); err != nil {
		t.Fatal(err)
	}

	u, err := New(&Config{BinaryPath: binaryPath, BackupPath: backupPath})
	if err != nil {
		t.Fatal(err)
	}

	if err := u.Rollback(); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	got, _ := os.ReadFile(binaryPath)
	if string(got) != "good" {
		t.Fatalf("binary content = %q, want restored backup", got)
	}
}

func TestRollbackWithoutBackupFails(t *testing.T) {
	tmpDir := t.TempDir()
	u, err := New(&Config{
		BinaryPath: filepath.Join(tmpDir, "tracktoast"),
		BackupPath: filepath.Join(tmpDir, "missing.backup"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Rollback(); err == nil {
		t.Fatal("rollback without backup should fail")
	}
}
