package metrics

import (
	"fmt"
	"math"
	"strings"
)

// modulePrefix is stripped from transaction paths before display.
const modulePrefix = "/bahrain/bh-module"

// FormatMB renders an audit volume in megabytes with two decimals,
// matching the platform's own display.
func FormatMB(bytes float64) string {
	if bytes == 0 {
		return "0 MB"
	}
	return fmt.Sprintf("%.2f MB", bytes/1_000_000)
}

// FormatXP renders an XP amount, abbreviating thousands ("1.2k XP").
func FormatXP(amount float64) string {
	abs := math.Abs(amount)
	if abs >= 1000 {
		return fmt.Sprintf("%.1fk XP", abs/1000)
	}
	return fmt.Sprintf("%.0f XP", abs)
}

// PathTitle turns a transaction path into a display title: the module
// prefix is dropped and each segment capitalized and joined.
func PathTitle(path string) string {
	path = strings.TrimPrefix(path, modulePrefix)

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(parts, " - ")
}

// PathGroup is the breadcrumb shown under list rows: every segment of
// the trimmed path except the last.
func PathGroup(path string) string {
	path = strings.TrimPrefix(path, modulePrefix)

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) <= 1 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], "/")
}
