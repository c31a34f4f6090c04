package testmodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/entityext/registry"
)

// Player is an owning record used by the backend integration tests.
type Player struct {

	// Contact email of the player.
	// Format: email
	Email strfmt.Email `json:"Email,omitempty" dynamodbav:"Email,omitempty"`

	// Unique identifier for the player.
	// Required: true
	ID *string `json:"Id" dynamodbav:"Id"`

	// Display name of the player.
	// Required: true
	Name *string `json:"Name" dynamodbav:"Name"`
}

// OwnerID returns the player id
func (p *Player) OwnerID() string {
	if p.ID == nil {
		return ""
	}
	return *p.ID
}

// Validate checks the required fields and formats
func (p *Player) Validate(formats strfmt.Registry) error {
	if p.ID == nil || *p.ID == "" {
		return errRequired("Id")
	}
	if p.Name == nil {
		return errRequired("Name")
	}
	if p.Email != "" && !formats.Validates("email", p.Email.String()) {
		return errFormat("Email", "email")
	}
	return nil
}

// PlayerIndexMap keys players in the single table next to their extension records.
var PlayerIndexMap = map[string]string{
	"PK": "PLAYER#{Id}",
	"SK": "PLAYER#{Id}",
}

func init() {
	registry.RegisterIndexMap[Player](PlayerIndexMap)
}
