// Package pg is the PostgreSQL implementation of the identity store.
//
// It provides pooled connections with retry on startup, embedded goose
// migrations (schema plus the USER/ADMIN reference roles), and a Storage
// type satisfying auth.Storage. Unique-constraint violations on login
// and email are translated into auth.ErrLoginAlreadyExists and
// auth.ErrEmailAlreadyExists, which the federation reconciler relies on
// to resolve concurrent first-login races.
package pg
