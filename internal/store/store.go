// Package store holds the persistence and search adapters behind the
// matching services: Postgres for guards, availability and bookings, Redis
// for the roster cache and geo index, Elasticsearch for the guard catalog.
package store

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("availability version conflict")
)
