// Package apperr defines the error taxonomy shared by dueDash stores, services
// and the HTTP surface.
//
// Every error a store or service returns either is, or wraps, one of the
// sentinel kinds in kinds.go, or is an error owned by the token/auth packages.
// The HTTP layer maps kinds to status codes in one place.
package apperr
