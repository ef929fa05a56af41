// Package repository implements persistence for protocolos, their historico
// ledger and the supporting tables.  Sentinel errors defined here let the
// handler layer map failure modes onto distinct HTTP responses: duplicate
// display numbers become a 400 with a retry-with-new-number message, missing
// records become 404, everything else is a generic 500.
package repository

import (
	"errors"
	"strings"
)

// ErrNumeroExists is returned when an insert collides with the UNIQUE
// constraint on protocolos.numero.  This is the expected outcome of the
// numbering race: two clients fetched the same último número, one of them
// loses and must re-request a number.
var ErrNumeroExists = errors.New("numero already exists")

// ErrProtocoloNotFound is returned when a protocolo id does not exist.
var ErrProtocoloNotFound = errors.New("protocolo not found")

// ErrLoginExists is returned when a usuario insert collides with the UNIQUE
// constraint on usuarios.login.
var ErrLoginExists = errors.New("login already exists")

// ErrAnexoNotFound is returned when an anexo id does not exist.
var ErrAnexoNotFound = errors.New("anexo not found")

// ErrServidorNotFound is returned when no servidor carries the given
// matrícula.
var ErrServidorNotFound = errors.New("servidor not found")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062, ER_DUP_ENTRY).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
