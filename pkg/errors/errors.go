// Package errors holds errors shared across layers.
package errors

import "errors"

var (
	// ErrCollaborator wraps failures of external services (blob store, mail)
	// that must surface to the caller as 502.
	ErrCollaborator = errors.New("servicio externo no disponible")

	// ErrNoActiveCycle no school cycle is marked active.
	ErrNoActiveCycle = errors.New("no hay un ciclo escolar activo")

	// ErrMultipleActiveCycles more than one cycle is marked active.
	ErrMultipleActiveCycles = errors.New("hay más de un ciclo escolar activo")
)
