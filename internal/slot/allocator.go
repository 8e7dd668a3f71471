// Package slot validates the upload buckets of a document type. Most types
// hold a single implicit slot; types that require two concurrent artifacts
// (e.g. both ownership certificates) are configured externally and accept
// "D1" and "D2".
package slot

import (
	"fmt"

	"land-document-service/internal/errors"
)

// DefaultSlot is the implicit slot of single-slot document types.
const DefaultSlot = "D1"

var twoSlots = []string{"D1", "D2"}

type Allocator struct {
	allowed map[string][]string
}

// NewAllocator builds an allocator from the list of document types configured
// to carry two slots. Any type not listed gets the single implicit slot.
func NewAllocator(twoSlotTypes []string) *Allocator {
	allowed := make(map[string][]string, len(twoSlotTypes))
	for _, t := range twoSlotTypes {
		allowed[t] = twoSlots
	}
	return &Allocator{allowed: allowed}
}

// Allowed returns the slot identifiers the document type accepts.
func (a *Allocator) Allowed(documentType string) []string {
	if slots, ok := a.allowed[documentType]; ok {
		return slots
	}
	return []string{DefaultSlot}
}

// Resolve validates the requested slot, mapping the empty string to the
// implicit default.
func (a *Allocator) Resolve(documentType, requested string) (string, error) {
	if requested == "" {
		requested = DefaultSlot
	}
	for _, s := range a.Allowed(documentType) {
		if s == requested {
			return requested, nil
		}
	}
	return "", errors.InvalidSlot(
		fmt.Sprintf("Slot %q is not allowed for document type %q", requested, documentType), nil)
}
