// Package ranking provides the centralized score calculations for feed
// ranking, with calibration support for deploy-time tuning.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	boosts, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		log.Warn("using default boosts", "error", err)
//	}
//
//	// Score a candidate
//	score := boosts.FinalScore(candidate.BaseScore, candidate.Provenance)
//
//	// Pick the explanation provenance
//	reason := ranking.Primary(candidate.Provenance)
//
// Boost Semantics:
//
// A candidate surfaced by multiple sources carries every provenance it
// was retrieved under, but only the single highest boost applies. This
// keeps scores bounded: an item that is both trending and from a
// followed author scores base + followed boost, not base + both.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of boost values via
// JSON configuration files loaded at startup. This enables A/B testing
// and optimization without code changes (but requires a redeploy or
// restart to pick up new configuration). See
// configs/ranking.calibration.json for the default configuration.
package ranking
