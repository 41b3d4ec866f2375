package domain

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSupervisor  Role = "supervisor"
	RoleSenderAgent Role = "sender_agent"
	RolePayerAgent  Role = "payer_agent"
)

type User struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string
	Role         Role
	Country      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanOverrideCountryRule reports whether the user may confirm transfers
// regardless of the opposite-country rule.
func (u User) CanOverrideCountryRule() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}

func (u User) IsAgent() bool {
	return u.Role == RoleSenderAgent || u.Role == RolePayerAgent
}

// RestrictedToBurkinaTill reports whether the user may only read and post on
// the BURKINA till (BF-country agents).
func (u User) RestrictedToBurkinaTill() bool {
	return u.IsAgent() && IsBurkinaCountry(u.Country)
}
