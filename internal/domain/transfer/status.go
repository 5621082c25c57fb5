package transfer

import (
	"github.com/prodtrack/backend/internal/domain/catalog"
)

// Kind distinguishes raw-material intake from finished-product hand-off
type Kind string

const (
	KindRawMaterial     Kind = "MATERIA_PRIMA"
	KindFinishedProduct Kind = "PRODUCTO_TERMINADO"
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	return k == KindRawMaterial || k == KindFinishedProduct
}

// MaterialType returns the material type a transfer of this kind must carry
func (k Kind) MaterialType() catalog.MaterialType {
	if k == KindRawMaterial {
		return catalog.MaterialTypeRaw
	}
	return catalog.MaterialTypeFinished
}

// Status represents the stage of a transfer
type Status string

const (
	StatusPending   Status = "PENDIENTE"
	StatusReceived  Status = "RECIBIDO"
	StatusRejected  Status = "RECHAZADO"
	StatusPackaging Status = "EN_EMPAQUE"
	StatusFinalized Status = "FINALIZADO"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusRejected, StatusPackaging, StatusFinalized:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

var transitions = map[Kind]map[Status][]Status{
	KindRawMaterial: {
		StatusPending: {StatusReceived, StatusRejected},
	},
	KindFinishedProduct: {
		StatusPending:   {StatusReceived, StatusRejected},
		StatusReceived:  {StatusPackaging},
		StatusPackaging: {StatusFinalized, StatusRejected},
	},
}

// CanTransition reports whether a transfer of the given kind may move from one status to another
func CanTransition(kind Kind, from, to Status) bool {
	for _, allowed := range transitions[kind][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from the given one
func NextStatuses(kind Kind, from Status) []Status {
	next := transitions[kind][from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no transition leaves the status for the kind
func IsTerminal(kind Kind, s Status) bool {
	return len(transitions[kind][s]) == 0
}

// StatusesOf lists the statuses a transfer of the given kind can reach, in workflow order
func StatusesOf(kind Kind) []Status {
	if kind == KindRawMaterial {
		return []Status{StatusPending, StatusReceived, StatusRejected}
	}
	return []Status{StatusPending, StatusReceived, StatusPackaging, StatusFinalized, StatusRejected}
}
