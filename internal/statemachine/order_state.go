package statemachine

import (
	"fmt"

	"github.com/ichi1107/bento-order-system/internal/model"
)

// Transition defines one valid status change and who may perform it.
type Transition struct {
	From  string
	To    string
	Actor string // "store" or "customer"
}

// Actors allowed to drive transitions.
const (
	ActorStore    = "store"
	ActorCustomer = "customer"
)

// validTransitions is the authoritative lifecycle definition:
// pending -> ready -> completed, cancellation from pending only.
// completed and cancelled are terminal.
var validTransitions = []Transition{
	{From: model.StatusPending, To: model.StatusReady, Actor: ActorStore},
	{From: model.StatusPending, To: model.StatusCancelled, Actor: ActorStore},
	{From: model.StatusPending, To: model.StatusCancelled, Actor: ActorCustomer},
	{From: model.StatusReady, To: model.StatusCompleted, Actor: ActorStore},
}

type transitionKey struct {
	From  string
	To    string
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns the statuses reachable from the given status,
// regardless of actor. Empty for terminal statuses.
func ValidTransitionsFrom(status string) []string {
	var nexts []string
	seen := map[string]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status string) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks whether the actor may move an order from one status to
// another. The returned error names the attempted and the allowed transitions.
func CanTransition(from, to, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s to %s is not allowed for %s; valid transitions from %s: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status string) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	out := ""
	for i, s := range nexts {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
