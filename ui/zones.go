package ui

import "fmt"

// Zone ID constants for bubblezone hit detection.
// These are used both in render paths (zone.Mark) and input paths (zone.Get().InBounds).
const (
	ZoneTray           = "zone-tray"
	ZoneTraySearch     = "zone-tray-search"
	ZoneInactiveHeader = "zone-inactive-header"
	ZoneCloseInactive  = "zone-close-inactive"
	ZoneDetailPane     = "zone-detail-pane"
)

// TrayRowZoneID returns the zone ID for a tray row by its rows-slice index.
func TrayRowZoneID(idx int) string {
	return fmt.Sprintf("zone-tray-row-%d", idx)
}
