package metrics

import (
	"math"
	"sort"
	"strings"
)

// AuditFilter selects a partition of the audit list.
type AuditFilter string

const (
	AuditsPassed AuditFilter = "passed"
	AuditsFailed AuditFilter = "failed"
	AuditsAll    AuditFilter = "all"
)

// TotalXP sums every XP transaction amount, negatives included.
func TotalXP(transactions []Transaction) float64 {
	var sum float64
	for _, t := range transactions {
		sum += t.Amount
	}
	return sum
}

// AuditPartition returns the audits matching the filter. A grade of 1
// or more is a pass, anything below 1 (zero included) a fail. Records
// without a grade are excluded from both partitions.
func AuditPartition(audits []Audit, filter AuditFilter) []Audit {
	if filter == AuditsAll {
		out := make([]Audit, len(audits))
		copy(out, audits)
		return out
	}

	out := make([]Audit, 0, len(audits))
	for _, a := range audits {
		if a.Grade == nil {
			continue
		}
		switch filter {
		case AuditsPassed:
			if *a.Grade >= 1 {
				out = append(out, a)
			}
		case AuditsFailed:
			if *a.Grade < 1 {
				out = append(out, a)
			}
		}
	}
	return out
}

// ProjectsCompleted counts the XP transactions attached to objects of
// type "project" (case-insensitive) and sums their XP.
func ProjectsCompleted(transactions []Transaction) (count int, xp float64) {
	for _, t := range transactions {
		if strings.EqualFold(t.ObjectType, "project") {
			count++
			xp += t.Amount
		}
	}
	return count, xp
}

// LevelFraction is the progress within the current level, in [0, 1).
func LevelFraction(level float64) float64 {
	return math.Mod(level, 1)
}

// RingSegments returns how many of the progress ring's segments are lit
// for the given level. The dashboard renders a 40-segment ring.
func RingSegments(level float64, segments int) int {
	return int(LevelFraction(level) * float64(segments))
}

// SkillSlice is one entry of a chart-ready skill series.
type SkillSlice struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
}

var skillNames = map[string]string{
	"skill_js":        "JavaScript",
	"skill_go":        "Go",
	"skill_html":      "HTML",
	"skill_prog":      "Programming",
	"skill_front-end": "Front-End",
	"skill_back-end":  "Back-End",
}

var skillColors = map[string]string{
	"skill_js":        "#F7DF1E",
	"skill_go":        "#00ADD8",
	"skill_html":      "#E34F26",
	"skill_prog":      "#4B0082",
	"skill_front-end": "#61DAFB",
	"skill_back-end":  "#3C873A",
}

// radarOrder is the fixed category order for radar presentation. Pie
// and radar orderings are independent derivations of the same input.
var radarOrder = []string{
	"skill_prog",
	"skill_go",
	"skill_js",
	"skill_html",
	"skill_front-end",
	"skill_back-end",
}

const defaultSkillColor = "#CBD5E0"

func toSlice(s SkillPoint) SkillSlice {
	name, ok := skillNames[s.Type]
	if !ok {
		name = strings.ToUpper(strings.ReplaceAll(strings.TrimPrefix(s.Type, "skill_"), "-", " "))
	}
	color, ok := skillColors[s.Type]
	if !ok {
		color = defaultSkillColor
	}
	return SkillSlice{Type: s.Type, Name: name, Amount: s.Amount, Color: color}
}

// PieSeries orders skills by descending amount for pie presentation.
func PieSeries(skills []SkillPoint) []SkillSlice {
	out := make([]SkillSlice, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSlice(s))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// RadarSeries orders skills by the fixed category order; categories
// outside the known order keep their input order at the end.
func RadarSeries(skills []SkillPoint) []SkillSlice {
	rank := make(map[string]int, len(radarOrder))
	for i, t := range radarOrder {
		rank[t] = i
	}

	out := make([]SkillSlice, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSlice(s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i].Type]
		rj, jKnown := rank[out[j].Type]
		if iKnown && jKnown {
			return ri < rj
		}
		return iKnown && !jKnown
	})
	return out
}

// TopN returns a copy of the first n items; n <= 0 means everything.
// Slicing is presentation policy and never mutates the snapshot.
func TopN[T any](items []T, n int) []T {
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
