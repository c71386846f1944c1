package order

import (
	"time"

	"oshxona/internal/pkg/errs"
)

// ActorKind identifies who triggered a status change.
type ActorKind string

const (
	ActorCustomer ActorKind = "customer"
	ActorStaff    ActorKind = "staff"
	ActorCourier  ActorKind = "courier"
	ActorSystem   ActorKind = "system"
)

// Actor is the party recorded against a history entry.
type Actor struct {
	Kind ActorKind
	ID   string
}

// Validate checks the actor kind is one of the known parties.
func (a Actor) Validate() error {
	switch a.Kind {
	case ActorCustomer, ActorStaff, ActorCourier, ActorSystem:
		return nil
	default:
		return errs.NewValueIsInvalidError("actor kind")
	}
}

// SystemActor is used for entries the engine records on its own behalf.
func SystemActor() Actor {
	return Actor{Kind: ActorSystem}
}

// HistoryEntry is one immutable record in an order's status history.
// Entries are appended in the exact sequence transitions are applied to the
// aggregate; they are never rewritten or removed.
type HistoryEntry struct {
	Status Status
	At     time.Time
	Note   string
	Actor  Actor
}
