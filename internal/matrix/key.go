package matrix

import "encoding/json"

// CanonicalKey returns a stable string for the appearance of v. Cells that
// look identical share a key.
func CanonicalKey(v any) string {
	return ToVisualFeatures(v).Key()
}

// Key renders the features as JSON with every object's keys sorted.
func (f VisualFeatures) Key() string {
	raw, err := json.Marshal(featuresJSON(f))
	if err != nil {
		return ""
	}
	// encoding/json writes map keys in sorted order, so a round trip
	// through a generic tree sorts every level.
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ""
	}
	sorted, err := json.Marshal(tree)
	if err != nil {
		return ""
	}
	return string(sorted)
}
