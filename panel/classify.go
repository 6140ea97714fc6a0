package panel

import (
	"time"

	"github.com/kastheco/tabtray/config/tabstore"
	"github.com/kastheco/tabtray/tabs"
)

// lastUsed is the reference time for inactivity. Tabs never visited fall
// back to their creation time.
func lastUsed(e tabstore.TabEntry) time.Time {
	if !e.LastAccessed.IsZero() {
		return e.LastAccessed
	}
	return e.CreatedAt
}

// isInactive decides whether a tab belongs in the inactive section. Private
// tabs and the selected tab are always active.
func isInactive(e tabstore.TabEntry, selectedID string, now time.Time, after time.Duration) bool {
	if e.Private || e.ID == selectedID || after <= 0 {
		return false
	}
	used := lastUsed(e)
	if used.IsZero() {
		return false
	}
	return now.Sub(used) >= after
}

// partition splits entries, already in storage order, into active and
// inactive records. Positions are indices within each list.
func partition(entries []tabstore.TabEntry, selectedID string, now time.Time, after time.Duration) (active, inactive []tabs.TabRecord) {
	active = []tabs.TabRecord{}
	inactive = []tabs.TabRecord{}
	for _, e := range entries {
		rec := tabs.TabRecord{
			ID:           e.ID,
			Title:        e.Title,
			URL:          e.URL,
			LastAccessed: lastUsed(e),
			Selected:     e.ID == selectedID,
		}
		if isInactive(e, selectedID, now, after) {
			rec.State = tabs.TabInactive
			rec.Position = len(inactive)
			inactive = append(inactive, rec)
			continue
		}
		rec.State = tabs.TabActive
		rec.Position = len(active)
		active = append(active, rec)
	}
	return active, inactive
}

// moveWithin returns the storage order after moving id to index to of the
// active list. Inactive tabs keep their storage slots and the active tabs
// refill the remaining slots in their new order. to is clamped.
func moveWithin(entries []tabstore.TabEntry, activeIDs []string, id string, to int) ([]string, int, bool) {
	from := indexOf(activeIDs, id)
	if from < 0 {
		return nil, -1, false
	}

	reordered := make([]string, 0, len(activeIDs))
	reordered = append(reordered, activeIDs[:from]...)
	reordered = append(reordered, activeIDs[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(reordered) {
		to = len(reordered)
	}
	reordered = append(reordered[:to], append([]string{id}, reordered[to:]...)...)

	isActive := make(map[string]bool, len(activeIDs))
	for _, a := range activeIDs {
		isActive[a] = true
	}

	order := make([]string, len(entries))
	next := 0
	for i, e := range entries {
		if isActive[e.ID] {
			order[i] = reordered[next]
			next++
			continue
		}
		order[i] = e.ID
	}
	return order, to, true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func recordIDs(records []tabs.TabRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
