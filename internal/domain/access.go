package domain

// CanAccessTicket decides whether the actor may read or write the ticket's
// conversation. Staff roles always pass; a customer passes only for their own
// ticket. Pure and total: unknown roles and nil inputs are denied, never an
// error.
func CanAccessTicket(actor *User, ticket *Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	switch actor.Role {
	case RoleAdmin, RoleAgent:
		return true
	case RoleCustomer:
		return actor.ID == ticket.CustomerID
	default:
		return false
	}
}
