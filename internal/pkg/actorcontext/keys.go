package actorcontext

// Shared Locals keys used across handlers and middlewares
const (
	ContextKey   = "ACTOR_CONTEXT"
	KeyActorID   = "actor_id"
	KeyActorName = "actor_name"
	KeyCompanyID = "company_id"
	KeyIsAdmin   = "isAdmin"
)
