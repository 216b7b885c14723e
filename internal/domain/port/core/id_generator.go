package core

// IDGenerator produces opaque unique identifiers for domain aggregates
type IDGenerator interface {
	NewID() string
}
