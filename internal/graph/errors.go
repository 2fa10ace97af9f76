package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIntegrity matches every *IntegrityError via errors.Is.
	ErrIntegrity = errors.New("graph integrity violation")

	// ErrFrozen is returned when a frozen graph is mutated.
	ErrFrozen = errors.New("graph is frozen")
)

// IntegrityError reports an edge referencing a nonexistent node, a node id
// reused with another kind, or a required field absent from an input record.
type IntegrityError struct {
	Op       string
	Reason   string
	NodeID   string
	From     string
	To       string
	Relation Relation
	Err      error
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	b.WriteString(ErrIntegrity.Error())
	if e.Op != "" {
		fmt.Fprintf(&b, " in %s", e.Op)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.NodeID != "" {
		fmt.Fprintf(&b, " (node %q)", e.NodeID)
	}
	if e.Relation != "" {
		fmt.Fprintf(&b, " (edge %s -%s-> %s)", e.From, e.Relation, e.To)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func danglingEdge(op string, e Edge, missing string) *IntegrityError {
	return &IntegrityError{
		Op:       op,
		Reason:   "edge references a missing node",
		NodeID:   missing,
		From:     e.From,
		To:       e.To,
		Relation: e.Relation,
	}
}
