package models

import (
	"strconv"
	"strings"
)

// Batch is a fixed class time slot.
type Batch struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Batches is the static batch catalog offered by the form.
var Batches = []Batch{
	{ID: 1, Label: "6-7AM"},
	{ID: 2, Label: "7-8AM"},
	{ID: 3, Label: "8-9AM"},
	{ID: 4, Label: "5-6PM"},
}

// LookupBatch resolves either the exact identifier ("2") or a display label ("7-8AM").
func LookupBatch(raw string) (Batch, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Batch{}, false
	}
	for _, b := range Batches {
		if raw == strconv.Itoa(b.ID) || strings.EqualFold(b.Label, raw) {
			return b, true
		}
	}
	return Batch{}, false
}

// BatchByID resolves a numeric batch identifier.
func BatchByID(id int) (Batch, bool) {
	for _, b := range Batches {
		if b.ID == id {
			return b, true
		}
	}
	return Batch{}, false
}

// String returns the display label.
func (b Batch) String() string {
	return b.Label
}
