package parse

import (
	"errors"
	"fmt"
)

// UnresolvedSizeError means a gram quantity appeared next to a product mention
// but is not in the gram-to-size table. The engine refuses to guess a size.
type UnresolvedSizeError struct {
	Mention string
	Grams   int
}

func (e *UnresolvedSizeError) Error() string {
	return fmt.Sprintf("cannot resolve a size for %dg near %q", e.Grams, e.Mention)
}

// NoLineItemsFoundError means the message yielded zero resolvable line items.
type NoLineItemsFoundError struct {
	Excerpt string
}

func (e *NoLineItemsFoundError) Error() string {
	return fmt.Sprintf("no recognizable products in %q", e.Excerpt)
}

// EmptyOrderAfterModificationError means a modification sequence removed every
// line from the prior order.
type EmptyOrderAfterModificationError struct{}

func (e *EmptyOrderAfterModificationError) Error() string {
	return "modifications removed every item from the order"
}

func IsUnresolvedSize(err error) (*UnresolvedSizeError, bool) {
	var e *UnresolvedSizeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsNoLineItemsFound(err error) (*NoLineItemsFoundError, bool) {
	var e *NoLineItemsFoundError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsEmptyOrderAfterModification(err error) bool {
	var e *EmptyOrderAfterModificationError
	return errors.As(err, &e)
}
