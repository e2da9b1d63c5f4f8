package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string `json:"version"` // Config version for future compatibility
	Boosts  Boosts `json:"boosts"`  // Boost configuration
}

// LoadCalibration loads boost values from a JSON calibration file.
// If the file doesn't exist or can't be parsed, returns default boosts
// with an error so startup can log and continue. Zero-valued fields in
// the file fall back to their defaults, and the ordering invariant is
// re-validated after merging.
func LoadCalibration(filePath string) (*Boosts, error) {
	if filePath == "" {
		return DefaultBoosts(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultBoosts(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultBoosts(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	boosts := mergeWithDefaults(config.Boosts)

	if err := boosts.Validate(); err != nil {
		slog.Warn("calibration file violates boost ordering, using defaults",
			"path", filePath,
			"error", err)
		return DefaultBoosts(), fmt.Errorf("invalid calibration: %w", err)
	}

	slog.Info("loaded ranking calibration",
		"path", filePath,
		"version", config.Version,
		"followed", boosts.Followed,
		"interest", boosts.Interest,
		"trending", boosts.Trending)

	return boosts, nil
}

// mergeWithDefaults fills zero-valued boosts from the defaults so a
// partial calibration file degrades gracefully. Trending legitimately
// defaults to zero, so it is taken from the file as-is.
func mergeWithDefaults(b Boosts) *Boosts {
	merged := DefaultBoosts()
	if b.Followed != 0 {
		merged.Followed = b.Followed
	}
	if b.Interest != 0 {
		merged.Interest = b.Interest
	}
	merged.Trending = b.Trending
	return merged
}
