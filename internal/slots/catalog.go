// Package slots defines the fixed grid of bookable one-hour sessions.
package slots

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Slot is a half-open interval "HH:MM-HH:MM". Midnight is written 00:00.
type Slot string

const (
	firstHour = 15
	lastHour  = 24
)

var ErrUnknownSlot = errors.New("unknown time slot")

var catalog = build()

func build() []Slot {
	out := make([]Slot, 0, lastHour-firstHour)
	for h := firstHour; h < lastHour; h++ {
		out = append(out, Slot(fmt.Sprintf("%02d:00-%02d:00", h, (h+1)%24)))
	}
	return out
}

// All returns the catalog in booking order. The caller owns the returned slice.
func All() []Slot {
	return slices.Clone(catalog)
}

// Strings returns the catalog as plain labels.
func Strings() []string {
	return ToStrings(catalog)
}

func Parse(s string) (Slot, error) {
	slot := Slot(strings.TrimSpace(s))
	if !slot.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return slot, nil
}

func ParseAll(labels []string) ([]Slot, error) {
	out := make([]Slot, 0, len(labels))
	for _, l := range labels {
		slot, err := Parse(l)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s Slot) Valid() bool {
	return slices.Contains(catalog, s)
}

// StartHour is the wall-clock hour the slot begins at.
func (s Slot) StartHour() int {
	if len(s) < 3 || s[2] != ':' {
		return -1
	}
	h, err := strconv.Atoi(string(s[:2]))
	if err != nil {
		return -1
	}
	return h
}

func (s Slot) String() string {
	return string(s)
}

// Subtract returns the slots of all that appear in none of the excluded sets,
// preserving the order of all.
func Subtract(all []Slot, excluded ...[]string) []Slot {
	drop := make(map[Slot]struct{})
	for _, set := range excluded {
		for _, s := range set {
			drop[Slot(s)] = struct{}{}
		}
	}
	out := make([]Slot, 0, len(all))
	for _, s := range all {
		if _, ok := drop[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// StartingAfter keeps the slots that begin strictly after hour.
func StartingAfter(in []Slot, hour int) []Slot {
	out := make([]Slot, 0, len(in))
	for _, s := range in {
		if s.StartHour() > hour {
			out = append(out, s)
		}
	}
	return out
}

func ToStrings(in []Slot) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// Ordered returns the catalog labels present in labels, in catalog order.
// Unknown labels are dropped.
func Ordered(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, s := range catalog {
		if slices.Contains(labels, string(s)) {
			out = append(out, string(s))
		}
	}
	return out
}
