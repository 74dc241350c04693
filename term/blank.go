package term

import "github.com/lithammer/shortuuid/v3"

// NewBlank allocates a fresh blank node scoped to the caller (store or
// query). Identifiers are generated with shortuuid rather than a raw
// counter so blank nodes minted independently by concurrent queries never
// collide, matching the store's "concurrent reads" guarantee in the
// concurrency model.
func NewBlank() Blank {
	return Blank{ID: "b" + shortuuid.New()}
}

// NewBlankNamed wraps an existing identifier, e.g. one parsed from
// `_:foo` syntax or carried over from a prior query scope.
func NewBlankNamed(id string) Blank {
	return Blank{ID: id}
}
