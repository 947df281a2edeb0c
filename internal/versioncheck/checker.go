// Package versioncheck polls the release page for the latest published
// version and reports whether it is newer than the running build.
package versioncheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tracktoast/tracktoast/internal/httputil"
	"github.com/tracktoast/tracktoast/internal/logging"
)

var log = logging.L("versioncheck")

// versionPattern matches the "Version: 1.2.3" token on the release page.
// Case-insensitive; the first match wins.
var versionPattern = regexp.MustCompile(`(?i)version:\s*([0-9.]+)`)

// maxBodyBytes caps how much of the release page is read.
const maxBodyBytes = 1 << 20

// ErrCheckInProgress is returned when a check is started while a previous
// one has not completed. Fetches are never run concurrently.
var ErrCheckInProgress = errors.New("version check already in progress")

// Result is the outcome of a successful fetch. A fetched page without a
// version token yields a zero Result and no error; transport failures are
// reported as errors instead of being folded into "no update".
type Result struct {
	Version string
	IsNewer bool
}

// Outcome pairs a Result with the fetch error for channel delivery.
type Outcome struct {
	Result Result
	Err    error
}

// Checker fetches the release page and compares the published version
// against the running one. A single Checker serializes its fetches.
type Checker struct {
	client   *http.Client
	url      string
	current  string
	fetching atomic.Bool
}

// New creates a Checker polling the given URL against currentVersion.
func New(url, currentVersion string) *Checker {
	return &Checker{
		client:  &http.Client{Timeout: 30 * time.Second},
		url:     url,
		current: currentVersion,
	}
}

// Check fetches the release page once and parses the published version.
// A page without a version token is not an error: it yields a zero Result.
// Concurrent calls are rejected with ErrCheckInProgress.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	if !c.fetching.CompareAndSwap(false, true) {
		return Result{}, ErrCheckInProgress
	}
	defer c.fetching.Store(false)

	resp, err := httputil.Do(ctx, c.client, http.MethodGet, c.url, nil, nil, httputil.NoRetryConfig())
	if err != nil {
		return Result{}, fmt.Errorf("fetch release page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("release page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read release page: %w", err)
	}

	version := ParseVersion(body)
	if version == "" {
		log.Debug("release page contains no version token", "url", c.url)
		return Result{}, nil
	}

	newer := CompareVersions(version, c.current) > 0
	log.Info("version check complete",
		"published", version,
		"current", c.current,
		"isNewer", newer,
	)
	return Result{Version: version, IsNewer: newer}, nil
}

// Start runs Check on a background goroutine and delivers the outcome on
// the returned channel. The channel is buffered so the caller may drop it
// without leaking the goroutine.
func (c *Checker) Start(ctx context.Context) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		result, err := c.Check(ctx)
		out <- Outcome{Result: result, Err: err}
		close(out)
	}()
	return out
}

// ParseVersion extracts the first version token from the page body,
// trimmed of surrounding whitespace. Empty string when no token matches.
func ParseVersion(body []byte) string {
	m := versionPattern.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// CompareVersions orders two dotted numeric versions: negative when a is
// older than b, zero when equal, positive when newer. Missing segments
// count as zero, so "1.7" equals "1.7.0". Non-numeric segments compare as
// zero rather than failing; the regex only admits digits and dots.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av := segment(as, i)
		bv := segment(bs, i)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return v
}
