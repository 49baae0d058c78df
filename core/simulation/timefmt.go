package simulation

import (
	"fmt"
	"math"
)

// FormatTime renders an elapsed simulation time in hours as "Day N, HH:MM",
// days counted from 1.
func FormatTime(hours float64) string {
	totalMin := int(math.Round(hours * 60))
	day := totalMin/(24*60) + 1
	minOfDay := totalMin % (24 * 60)
	return fmt.Sprintf("Day %d, %02d:%02d", day, minOfDay/60, minOfDay%60)
}
