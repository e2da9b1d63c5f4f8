package feed

// personalize applies the per-user exclusions to the raw fetch results:
// blocked authors, mature content (when the filter is on), and recently
// seen items on the recommendations path. It runs once,
// before scoring, so an excluded row never receives a boost and never
// occupies a slot in diversity accounting.
//
// Anonymous requests carry empty sets and an enabled mature filter, so
// the same pass degrades to "mature filter only" without special cases.
func personalize(rows []sourcedRow, rc RankingContext) []sourcedRow {
	out := rows[:0]
	for _, sr := range rows {
		if _, blocked := rc.BlockedAuthorIDs[sr.row.AuthorID]; blocked && sr.row.AuthorID != "" {
			continue
		}
		if rc.MatureFilterEnabled && sr.row.IsMature {
			continue
		}
		if len(rc.ExcludeSeen) > 0 {
			if _, seen := rc.ExcludeSeen[ContentKey{Kind: sr.row.Kind, ID: sr.row.ID}]; seen {
				continue
			}
		}
		out = append(out, sr)
	}
	return out
}
