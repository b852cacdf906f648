// Package entity defines what the store needs from a stored object.
package entity

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Entity is an object with a string identifier, exposed to conditions as
// the "id" field.
type Entity interface {
	GetID() string
	SetID(id string)
}

// Base is embedded by entity structs.
//
//	type Character struct {
//	    entity.Base
//	    Name string `json:"name"`
//	}
type Base struct {
	ID string `json:"id"`
}

func (b *Base) GetID() string {
	return b.ID
}

func (b *Base) SetID(id string) {
	b.ID = id
}

// HasID reports whether e carries a non-empty identifier.
func HasID(e Entity) bool {
	return e.GetID() != ""
}

// IDGenerator produces identifiers for entities stored without one.
type IDGenerator func() string

// UUIDGenerator generates random (version 4) UUIDs.
func UUIDGenerator() string {
	return uuid.NewString()
}

// ULIDGenerator generates ULIDs, which sort by creation time.
func ULIDGenerator() string {
	return ulid.Make().String()
}
