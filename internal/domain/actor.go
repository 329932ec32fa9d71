package domain

// Role of the authenticated caller
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleOwner || r == RoleAdmin
}

// Actor is the caller identity passed into services
type Actor struct {
	UserID int64
	Role   Role
}

// IsCustomerOf returns true if the actor made the reservation
func (a Actor) IsCustomerOf(r *Reservation) bool {
	return a.UserID == r.CustomerID
}

// IsOwnerOf returns true if the actor is an owner and owns the restaurant
func (a Actor) IsOwnerOf(r *Restaurant) bool {
	return a.Role == RoleOwner && r.IsOwnedBy(a.UserID)
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
