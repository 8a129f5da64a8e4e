package intra

import "time"

// GraphQL request and response types for the platform's Hasura endpoint.

// GraphQLRequest represents a GraphQL query request.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse is the top-level GraphQL response.
type GraphQLResponse struct {
	Data   *ResponseData  `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// ResponseData contains the profile query results.
type ResponseData struct {
	User      []UserRow      `json:"user"`
	EventUser []EventUserRow `json:"event_user"`
}

// UserRow is one denormalized user record with all nested collections
// the profile query requests in a single round trip.
type UserRow struct {
	ID         int     `json:"id"`
	Login      string  `json:"login"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	AuditRatio float64 `json:"auditRatio"`
	TotalUp    float64 `json:"totalUp"`
	TotalDown  float64 `json:"totalDown"`
	Campus     string  `json:"campus"`

	XPTransactions []TransactionRow `json:"xp_transactions"`
	Audits         AuditConnection  `json:"audits"`
	Progresses     []ProgressRow    `json:"progresses"`
	Skills         []SkillRow       `json:"skills"`
}

// TransactionRow is one XP transaction.
type TransactionRow struct {
	ID        int        `json:"id"`
	Amount    float64    `json:"amount"`
	CreatedAt time.Time  `json:"createdAt"`
	Path      string     `json:"path"`
	Object    *ObjectRow `json:"object"`
}

// ObjectRow is the learning object a transaction or progress points at.
type ObjectRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// AuditConnection is the Hasura aggregate wrapper around audit nodes.
type AuditConnection struct {
	Nodes     []AuditRow     `json:"nodes"`
	Aggregate AuditAggregate `json:"aggregate"`
}

// AuditRow is one peer review by the queried user. Grade stays a
// pointer: the query filters null grades out, but the shape allows them.
type AuditRow struct {
	ID        int         `json:"id"`
	Grade     *float64    `json:"grade"`
	CreatedAt time.Time   `json:"createdAt"`
	Group     *AuditGroup `json:"group"`
}

// AuditGroup carries the audited group's captain and object.
type AuditGroup struct {
	CaptainLogin string     `json:"captainLogin"`
	Object       *ObjectRow `json:"object"`
}

// AuditAggregate is the server-side count and average grade.
type AuditAggregate struct {
	Count int `json:"count"`
	Avg   struct {
		Grade *float64 `json:"grade"`
	} `json:"avg"`
}

// ProgressRow is one project-type progress record.
type ProgressRow struct {
	ID        int        `json:"id"`
	Grade     *float64   `json:"grade"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Object    *ObjectRow `json:"object"`
}

// SkillRow is one skill transaction; the query already narrows to one
// row per type, the transform applies the explicit tie-break anyway.
type SkillRow struct {
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventUserRow carries the user's level within the active event.
type EventUserRow struct {
	Level float64 `json:"level"`
}
