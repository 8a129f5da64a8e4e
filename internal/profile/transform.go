package profile

import (
	"sort"
	"time"

	"github.com/RebootDash/RD-Backend/internal/profile/intra"
	"github.com/RebootDash/RD-Backend/internal/profile/metrics"
)

// BuildSnapshot converts one GraphQL payload into the dashboard
// read-model. The caller guarantees data holds at least one user row.
func BuildSnapshot(data *intra.ResponseData, fetchedAt time.Time) metrics.Snapshot {
	user := data.User[0]

	snap := metrics.Snapshot{
		User: metrics.User{
			ID:         user.ID,
			Login:      user.Login,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			Campus:     user.Campus,
			AuditRatio: user.AuditRatio,
			TotalUp:    user.TotalUp,
			TotalDown:  user.TotalDown,
		},
		AuditCount: user.Audits.Aggregate.Count,
		FetchedAt:  fetchedAt,
	}
	if avg := user.Audits.Aggregate.Avg.Grade; avg != nil {
		snap.AuditAverage = *avg
	}
	if len(data.EventUser) > 0 {
		snap.Level = data.EventUser[0].Level
	}

	snap.Transactions = make([]metrics.Transaction, 0, len(user.XPTransactions))
	for _, row := range user.XPTransactions {
		t := metrics.Transaction{
			ID:        row.ID,
			Amount:    row.Amount,
			CreatedAt: row.CreatedAt,
			Path:      row.Path,
		}
		if row.Object != nil {
			t.ObjectType = row.Object.Type
			t.ObjectName = row.Object.Name
		}
		snap.Transactions = append(snap.Transactions, t)
	}

	snap.Audits = make([]metrics.Audit, 0, len(user.Audits.Nodes))
	for _, row := range user.Audits.Nodes {
		a := metrics.Audit{
			ID:        row.ID,
			Grade:     row.Grade,
			CreatedAt: row.CreatedAt,
		}
		if row.Group != nil {
			a.CaptainLogin = row.Group.CaptainLogin
			if row.Group.Object != nil {
				a.ObjectName = row.Group.Object.Name
			}
		}
		snap.Audits = append(snap.Audits, a)
	}

	snap.Projects = make([]metrics.Project, 0, len(user.Progresses))
	for _, row := range user.Progresses {
		p := metrics.Project{
			ID:        row.ID,
			Grade:     row.Grade,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if row.Object != nil {
			p.Name = row.Object.Name
		}
		snap.Projects = append(snap.Projects, p)
	}

	snap.Skills = dedupeSkills(user.Skills)

	return snap
}

// dedupeSkills keeps one row per skill type. The server already narrows
// with distinct_on, but the winner there depends on incidental query
// order; here the rule is explicit: highest amount wins, most recent
// wins a tie. Output is sorted by type; presentation orderings are
// derived later.
func dedupeSkills(rows []intra.SkillRow) []metrics.SkillPoint {
	best := make(map[string]intra.SkillRow, len(rows))
	for _, row := range rows {
		cur, ok := best[row.Type]
		if !ok || row.Amount > cur.Amount ||
			(row.Amount == cur.Amount && row.CreatedAt.After(cur.CreatedAt)) {
			best[row.Type] = row
		}
	}

	out := make([]metrics.SkillPoint, 0, len(best))
	for _, row := range best {
		out = append(out, metrics.SkillPoint{Type: row.Type, Amount: row.Amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
