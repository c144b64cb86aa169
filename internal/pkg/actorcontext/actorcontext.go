package actorcontext

import "github.com/gofiber/fiber/v2"

// ActorContext identifies the authenticated staff user behind a request.
// Audit log rows are stamped from it.
type ActorContext struct {
	ActorID    uint   `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	CompanyID  uint   `json:"company_id"`
	Role       string `json:"role"`
	IPAddress  string `json:"ip_address"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// Get retrieves the actor context from the fiber context.
// Returns an anonymous context if none is set.
func Get(c *fiber.Ctx) ActorContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(ActorContext)
	}
	return ActorContext{IsLoggedIn: false, IPAddress: c.IP()}
}

// Set stores the actor context on the fiber context
func Set(c *fiber.Ctx, ctx ActorContext) {
	c.Locals(ContextKey, ctx)
}

// IsAdmin checks if the current actor holds the admin role
func IsAdmin(c *fiber.Ctx) bool {
	return Get(c).Role == "admin"
}

// ActorID returns the current actor's ID, or 0 if not logged in
func ActorID(c *fiber.Ctx) uint {
	return Get(c).ActorID
}

// CompanyID returns the current actor's tenant, or 0 if not logged in
func CompanyID(c *fiber.Ctx) uint {
	return Get(c).CompanyID
}
