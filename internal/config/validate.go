package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Assets.validate(); err != nil {
		return fmt.Errorf("assets: %w", err)
	}

	if err := c.Sidecar.validate(); err != nil {
		return fmt.Errorf("sidecar: %w", err)
	}

	if c.RateLimit.ViewportPerMinute < 0 {
		return fmt.Errorf("rate_limit.viewport_per_minute must be >= 0 (got %d)", c.RateLimit.ViewportPerMinute)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "json", "text", "pretty":
		return nil
	}
	return fmt.Errorf("format must be one of json, text, pretty (got %q)", l.Format)
}

func (a *AssetsConfig) validate() error {
	switch strings.ToLower(a.Backend) {
	case "fs":
		if strings.TrimSpace(a.Root) == "" {
			return fmt.Errorf("root is required for the fs backend")
		}
	case "s3":
		if a.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("backend must be fs or s3 (got %q)", a.Backend)
	}
	return nil
}

func (s *SidecarConfig) validate() error {
	if s.MaxNarrativeBytes <= 0 {
		return fmt.Errorf("max_narrative_bytes must be > 0 (got %d)", s.MaxNarrativeBytes)
	}
	if strings.HasPrefix(s.BundleDir, "/") || strings.Contains(s.BundleDir, "..") {
		return fmt.Errorf("bundle_dir must be relative to the asset root (got %q)", s.BundleDir)
	}
	return nil
}
