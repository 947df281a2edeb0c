package config

import (
	"fmt"
	"log/slog"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config for invalid values and returns all errors
// found. Zero or negative sizes that would break toast placement are
// clamped to the defaults; other findings are logged as warnings but do
// not prevent startup.
func (c *Config) Validate() []error {
	var errs []error

	for name, raw := range map[string]string{
		"update_url":  c.UpdateURL,
		"release_url": c.ReleaseURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q is not a valid URL: %w", name, raw, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("%s scheme must be http or https, got %q", name, u.Scheme))
		}
	}

	defaults := Default()
	if c.ToastWidth <= 0 {
		errs = append(errs, fmt.Errorf("toast_width %v is not positive, clamping to %v", c.ToastWidth, defaults.ToastWidth))
		c.ToastWidth = defaults.ToastWidth
	}
	if c.ToastHeight <= 0 {
		errs = append(errs, fmt.Errorf("toast_height %v is not positive, clamping to %v", c.ToastHeight, defaults.ToastHeight))
		c.ToastHeight = defaults.ToastHeight
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	if c.LogMaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("log_max_size_mb %d is negative, clamping to %d", c.LogMaxSizeMB, defaults.LogMaxSizeMB))
		c.LogMaxSizeMB = defaults.LogMaxSizeMB
	}
	if c.LogMaxBackups < 0 {
		errs = append(errs, fmt.Errorf("log_max_backups %d is negative, clamping to %d", c.LogMaxBackups, defaults.LogMaxBackups))
		c.LogMaxBackups = defaults.LogMaxBackups
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
