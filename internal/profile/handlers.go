package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/RebootDash/RD-Backend/internal/profile/intra"
	"github.com/RebootDash/RD-Backend/internal/profile/metrics"
	"github.com/RebootDash/RD-Backend/internal/utils"
)

// Default list lengths; "expand=true" lifts them.
const (
	activityLimit = 5
	projectLimit  = 4
	auditLimit    = 4
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Message string `json:"message"`
}

// ActivityItem is one feed row, pre-formatted for display.
type ActivityItem struct {
	Title         string  `json:"title"`
	Group         string  `json:"group"`
	Path          string  `json:"path"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	CreatedAt     string  `json:"created_at"`
}

// Payload bundles the snapshot with every derived figure the dashboard
// renders, so a client needs no further computation or network calls
// until the next poll tick.
type Payload struct {
	User         metrics.User   `json:"user"`
	TotalXP      float64        `json:"total_xp"`
	AuditRatio   float64        `json:"audit_ratio"`
	AuditsPassed int            `json:"audits_passed"`
	AuditsFailed int            `json:"audits_failed"`
	AuditCount   int            `json:"audit_count"`
	AuditAverage float64        `json:"audit_average"`
	TotalUpMB    string         `json:"total_up_mb"`
	TotalDownMB  string         `json:"total_down_mb"`

	ProjectsCompleted   int     `json:"projects_completed"`
	ProjectsXP          float64 `json:"projects_xp"`
	ProjectsXPDisplay   string  `json:"projects_xp_display"`

	Level         int     `json:"level"`
	LevelFraction float64 `json:"level_fraction"`
	RingSegments  int     `json:"ring_segments"`

	SkillsPie   []metrics.SkillSlice `json:"skills_pie"`
	SkillsRadar []metrics.SkillSlice `json:"skills_radar"`

	Activity []ActivityItem        `json:"activity"`
	Projects []metrics.Transaction `json:"projects"`
	Audits   []metrics.Audit       `json:"audits"`

	FetchedAt string `json:"fetched_at"`
}

// ProfileHandler serves the dashboard payload for the current session.
// Snapshots come from the cache kept warm by the poller; the first
// request after login fetches synchronously.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}
	if session.UserID == 0 {
		// Not ready; never query for user 0.
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Profile not ready"})
		return
	}

	snap, cached := cache.Get(session.UserID)
	if !cached {
		var err error
		snap, err = Refresh(r.Context(), session)
		if err != nil {
			respondFetchError(w, session, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, buildPayload(snap, auditFilter(r), r.URL.Query().Get("expand") == "true"))
}

// respondFetchError maps fetch failures onto the error contract: only
// an auth rejection costs the session; everything else keeps it.
func respondFetchError(w http.ResponseWriter, session utils.SessionData, err error) {
	switch {
	case errors.Is(err, intra.ErrAuthRejected):
		_ = auth.SessionInfo{}.DestroySession(session.SessionID)
		cache.Evict(session.UserID)
		middleware.ClearSessionCookies(w)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Session is no longer valid"})
	case errors.Is(err, intra.ErrNoSuchUser):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "No user data found"})
	case errors.Is(err, intra.ErrNetwork):
		w.Header().Set("Retry-After", "30")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Platform unreachable"})
	default:
		log.Printf("[profile] fetch for user %d: %v", session.UserID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
}

func auditFilter(r *http.Request) metrics.AuditFilter {
	switch r.URL.Query().Get("audits") {
	case "failed":
		return metrics.AuditsFailed
	case "all":
		return metrics.AuditsAll
	default:
		return metrics.AuditsPassed
	}
}

func buildPayload(snap metrics.Snapshot, filter metrics.AuditFilter, expand bool) Payload {
	passed := metrics.AuditPartition(snap.Audits, metrics.AuditsPassed)
	failed := metrics.AuditPartition(snap.Audits, metrics.AuditsFailed)
	projCount, projXP := metrics.ProjectsCompleted(snap.Transactions)

	activityN, projectN, auditN := activityLimit, projectLimit, auditLimit
	if expand {
		activityN, projectN, auditN = 0, 0, 0
	}

	projects := projectTransactions(snap.Transactions)

	activity := make([]ActivityItem, 0, activityN)
	for _, t := range metrics.TopN(snap.Transactions, activityN) {
		activity = append(activity, ActivityItem{
			Title:         metrics.PathTitle(t.Path),
			Group:         metrics.PathGroup(t.Path),
			Path:          t.Path,
			Amount:        t.Amount,
			AmountDisplay: metrics.FormatXP(t.Amount),
			CreatedAt:     t.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	return Payload{
		User:         snap.User,
		TotalXP:      metrics.TotalXP(snap.Transactions),
		AuditRatio:   snap.User.AuditRatio,
		AuditsPassed: len(passed),
		AuditsFailed: len(failed),
		AuditCount:   snap.AuditCount,
		AuditAverage: snap.AuditAverage,
		TotalUpMB:    metrics.FormatMB(snap.User.TotalUp),
		TotalDownMB:  metrics.FormatMB(snap.User.TotalDown),

		ProjectsCompleted: projCount,
		ProjectsXP:        projXP,
		ProjectsXPDisplay: metrics.FormatXP(projXP),

		Level:         int(snap.Level),
		LevelFraction: metrics.LevelFraction(snap.Level),
		RingSegments:  metrics.RingSegments(snap.Level, 40),

		SkillsPie:   metrics.PieSeries(snap.Skills),
		SkillsRadar: metrics.RadarSeries(snap.Skills),

		Activity: activity,
		Projects: metrics.TopN(projects, projectN),
		Audits:   metrics.TopN(metrics.AuditPartition(snap.Audits, filter), auditN),

		FetchedAt: snap.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// projectTransactions filters the XP feed down to project completions.
func projectTransactions(transactions []metrics.Transaction) []metrics.Transaction {
	out := make([]metrics.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if strings.EqualFold(t.ObjectType, "project") {
			out = append(out, t)
		}
	}
	return out
}
