package ads

import "strconv"

// ProductIDs extracts product ids from tracking links in text, unique, in first-seen order.
// Ids are not checked against the catalog here; unknown ids fall out at increment time.
func (t *Tracker) ProductIDs(text string) []int64 {
	matches := t.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(matches))
	out := make([]int64, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
