// Package delivery holds the review workflow of a delivery obligation (Entrega).
//
// The functions here are pure: they take the current state plus the facts the
// caller has already loaded and return the next state or a typed error.
// Persistence, notifications and blob storage live in the service layer.
package delivery

import (
	"errors"
	"fmt"
)

// Status is the review state of a delivery, stored verbatim in deliveries.status.
type Status string

const (
	NoEntregado        Status = "NO_ENTREGADO"
	Pendiente          Status = "PENDIENTE"
	EnRevision         Status = "EN_REVISION"
	RequiereCorreccion Status = "REQUIERE_CORRECCION"
	Aprobado           Status = "APROBADO"
	NoAprobado         Status = "NO_APROBADO"
)

// Initial is the canonical "nothing submitted" status. Generation and the
// last-file reset both use it.
const Initial = NoEntregado

// All lists every status in workflow order.
var All = []Status{NoEntregado, Pendiente, EnRevision, RequiereCorreccion, Aprobado, NoAprobado}

var labels = map[Status]string{
	NoEntregado:        "No entregado",
	Pendiente:          "Entregado",
	EnRevision:         "En revisión",
	RequiereCorreccion: "Requiere corrección",
	Aprobado:           "Aprobado",
	NoAprobado:         "No aprobado",
}

var (
	ErrUnknownStatus = errors.New("estado desconocido")
	ErrLocked        = errors.New("esta entrega ya fue aprobada")
	ErrApprovedFinal = errors.New("una entrega aprobada no admite correcciones")
	ErrNoSubmission  = errors.New("el estado requiere al menos un archivo entregado")
	ErrNotOwner      = errors.New("la entrega no pertenece a la escuela")
	ErrUnknownSlot   = errors.New("etiqueta de archivo no válida para este programa")
	ErrEmptyFeedback = errors.New("la corrección requiere texto o archivo")
)

// Parse converts a raw value into a known Status.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the workflow statuses.
func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label is the human readable name shown to directors and in exports.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// ImpliesSubmission reports whether the status only makes sense when at
// least one ENTREGA file is attached.
func (s Status) ImpliesSubmission() bool {
	return s == Pendiente || s == EnRevision || s == Aprobado
}

// Remindable reports whether reminders may be sent for a delivery in s.
func (s Status) Remindable() bool {
	return s == NoEntregado || s == RequiereCorreccion || s == NoAprobado
}

// Complete reports whether the obligation counts as fulfilled.
func (s Status) Complete() bool {
	return s == Aprobado
}
