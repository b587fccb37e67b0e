package service

import (
	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/contacts-cli/internal/config"
)

// Change records the before and after value of one top-level key. Database
// values are redacted.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff maps each changed top-level key to its change. An unchanged reload
// yields an empty Diff.
type Diff map[Key]Change

// Keys returns the changed keys in declaration order.
func (d Diff) Keys() []string {
	out := make([]string, 0, len(d))
	for _, k := range Keys {
		if _, ok := d[k]; ok {
			out = append(out, string(k))
		}
	}
	return out
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d) == 0
}

// Compare returns the keys that differ between two snapshots.
func Compare(prev, next config.Config) Diff {
	return diffConfigs(&prev, &next)
}

// diffConfigs compares snapshots key by key. A nil prev counts every key as
// changed.
func diffConfigs(prev, next *config.Config) Diff {
	diff := Diff{}
	if next == nil {
		return diff
	}

	nextFields := fields(redact(*next))
	rawNext := fields(*next)
	if prev == nil {
		for _, k := range Keys {
			diff[k] = Change{New: nextFields[k]}
		}
		return diff
	}

	prevFields := fields(redact(*prev))
	rawPrev := fields(*prev)
	for _, k := range Keys {
		if cmp.Equal(rawPrev[k], rawNext[k]) {
			continue
		}
		diff[k] = Change{Old: prevFields[k], New: nextFields[k]}
	}
	return diff
}
