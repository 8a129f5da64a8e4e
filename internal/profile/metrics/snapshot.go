// Package metrics holds the dashboard's read-model and the pure
// derivations computed from it. Everything here is side-effect free and
// safe to recompute on every request.
package metrics

import "time"

// Snapshot is one complete result of a profile fetch. It is always
// replaced wholesale, never mutated in place.
type Snapshot struct {
	User         User         `json:"user"`
	Transactions []Transaction `json:"transactions"`
	Audits       []Audit       `json:"audits"`
	AuditCount   int           `json:"audit_count"`
	AuditAverage float64       `json:"audit_average"`
	Projects     []Project     `json:"projects"`
	Skills       []SkillPoint  `json:"skills"`
	Level        float64       `json:"level"`
	FetchedAt    time.Time     `json:"fetched_at"`
}

// User carries the identity fields plus the server-computed audit
// ratio. The ratio is authoritative as delivered; recomputing it from
// the fetched window would drift from the platform's own figure.
type User struct {
	ID         int     `json:"id"`
	Login      string  `json:"login"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Campus     string  `json:"campus"`
	AuditRatio float64 `json:"audit_ratio"`
	TotalUp    float64 `json:"total_up"`
	TotalDown  float64 `json:"total_down"`
}

// Transaction is one XP grant, newest first in Snapshot.Transactions.
type Transaction struct {
	ID         int       `json:"id"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
	Path       string    `json:"path"`
	ObjectType string    `json:"object_type"`
	ObjectName string    `json:"object_name"`
}

// Audit is one peer review performed by the user. Grade is nil when the
// review was never concluded; such records belong to neither the passed
// nor the failed partition.
type Audit struct {
	ID           int       `json:"id"`
	Grade        *float64  `json:"grade"`
	CreatedAt    time.Time `json:"created_at"`
	CaptainLogin string    `json:"captain_login"`
	ObjectName   string    `json:"object_name"`
}

// Project is one project-type progress record.
type Project struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Grade     *float64  `json:"grade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SkillPoint is the aggregated XP total for one skill category.
type SkillPoint struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}
