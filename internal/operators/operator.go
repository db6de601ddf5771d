// Package operators manages the site owner accounts allowed into the admin console.
package operators

import "time"

// Operator is an admin console account. Sub is the OIDC subject when the
// operator has signed in through an identity provider.
type Operator struct {
	ID           string    `json:"id" mapstructure:"-"`
	Sub          string    `json:"sub,omitempty" mapstructure:"sub"`
	Email        string    `json:"email" mapstructure:"email"`
	Name         string    `json:"name" mapstructure:"name"`
	PasswordHash string    `json:"-" mapstructure:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" mapstructure:"updatedAt"`
	LastLoginAt  time.Time `json:"lastLoginAt,omitempty" mapstructure:"lastLoginAt"`
}
