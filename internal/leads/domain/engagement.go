package domain

import (
	"encoding/json"
	"math"
	"sort"
)

// ContentEngagement holds the counters recorded for a single piece of content.
type ContentEngagement struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Saves    int `json:"saves"`
}

// EngagementCounters maps a content id to its counters.
type EngagementCounters map[string]ContentEngagement

// ParseEngagement decodes the stored engagement blob. Counters that are missing,
// negative, fractional or not numbers read as zero. A blob that is not a JSON
// object yields an empty map.
func ParseEngagement(raw []byte) EngagementCounters {
	counters := EngagementCounters{}
	if len(raw) == 0 {
		return counters
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blob); err != nil {
		return counters
	}

	for contentID, entry := range blob {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			counters[contentID] = ContentEngagement{}
			continue
		}
		counters[contentID] = ContentEngagement{
			Views:    sanitizeCounter(fields["views"]),
			Likes:    sanitizeCounter(fields["likes"]),
			Comments: sanitizeCounter(fields["comments"]),
			Saves:    sanitizeCounter(fields["saves"]),
		}
	}

	return counters
}

func sanitizeCounter(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0
	}
	if value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0
	}
	return int(value)
}

// Totals sums the counters across all content.
func (e EngagementCounters) Totals() ContentEngagement {
	var total ContentEngagement
	for _, item := range e {
		total.Views += item.Views
		total.Likes += item.Likes
		total.Comments += item.Comments
		total.Saves += item.Saves
	}
	return total
}

// ContentIDs returns the content ids in a stable order.
func (e EngagementCounters) ContentIDs() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
