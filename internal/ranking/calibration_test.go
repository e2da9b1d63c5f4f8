package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCalibrationFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}
	return path
}

func TestLoadCalibration_EmptyPathUsesDefaults(t *testing.T) {
	boosts, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if *boosts != *DefaultBoosts() {
		t.Errorf("expected defaults, got %+v", boosts)
	}
}

func TestLoadCalibration_ValidFile(t *testing.T) {
	path := writeCalibrationFile(t, `{
		"version": "1",
		"boosts": {"followed": 30, "interest": 15, "trending": 2}
	}`)

	boosts, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration failed: %v", err)
	}
	if boosts.Followed != 30 || boosts.Interest != 15 || boosts.Trending != 2 {
		t.Errorf("unexpected boosts: %+v", boosts)
	}
}

func TestLoadCalibration_PartialFileMergesDefaults(t *testing.T) {
	path := writeCalibrationFile(t, `{"version": "1", "boosts": {"followed": 40}}`)

	boosts, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration failed: %v", err)
	}
	if boosts.Followed != 40 {
		t.Errorf("expected followed=40, got %v", boosts.Followed)
	}
	if boosts.Interest != DefaultBoosts().Interest {
		t.Errorf("expected default interest, got %v", boosts.Interest)
	}
}

func TestLoadCalibration_MissingFileFallsBack(t *testing.T) {
	boosts, err := LoadCalibration(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if *boosts != *DefaultBoosts() {
		t.Errorf("expected default boosts on error, got %+v", boosts)
	}
}

func TestLoadCalibration_MalformedJSONFallsBack(t *testing.T) {
	path := writeCalibrationFile(t, `{not json`)

	boosts, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected error for malformed JSON")
	}
	if *boosts != *DefaultBoosts() {
		t.Errorf("expected default boosts on error, got %+v", boosts)
	}
}

func TestLoadCalibration_InvalidOrderingFallsBack(t *testing.T) {
	// Interest above followed breaks the intent ordering.
	path := writeCalibrationFile(t, `{"boosts": {"followed": 5, "interest": 50, "trending": 0}}`)

	boosts, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected error for invalid ordering")
	}
	if *boosts != *DefaultBoosts() {
		t.Errorf("expected default boosts on error, got %+v", boosts)
	}
}
