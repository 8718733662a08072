// Package stamina models the host's carry-weight penalty thresholds.
package stamina

import "fmt"

// Category identifies one of the four overweight limit pairs in the host's stamina config.
type Category string

const (
	BaseOverweight      Category = "BaseOverweightLimits"
	SprintOverweight    Category = "SprintOverweightLimits"
	WalkOverweight      Category = "WalkOverweightLimits"
	WalkSpeedOverweight Category = "WalkSpeedOverweightLimits"
)

// AllCategories returns every limit category in a stable order.
func AllCategories() []Category {
	return []Category{
		BaseOverweight,
		SprintOverweight,
		WalkOverweight,
		WalkSpeedOverweight,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case BaseOverweight, SprintOverweight, WalkOverweight, WalkSpeedOverweight:
		return true
	default:
		return false
	}
}

// Limits is a (lower, upper) pair of weight thresholds.
type Limits struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

// Scale returns both bounds multiplied by m.
func (l Limits) Scale(m float64) Limits {
	return Limits{Lower: l.Lower * m, Upper: l.Upper * m}
}

// String formats the pair for log output.
func (l Limits) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", l.Lower, l.Upper)
}

// ThresholdTable holds the live limits the host reads when computing overweight penalties.
// The host owns the table; hooks receive it for the duration of a single call.
type ThresholdTable struct {
	limits map[Category]Limits
}

// NewThresholdTable creates an empty table.
func NewThresholdTable() *ThresholdTable {
	return &ThresholdTable{limits: make(map[Category]Limits, 4)}
}

// NewThresholdTableFrom creates a table populated from the given map.
func NewThresholdTableFrom(values map[Category]Limits) *ThresholdTable {
	t := NewThresholdTable()
	for c, l := range values {
		t.limits[c] = l
	}
	return t
}

// Get returns the limits for a category and whether it is present.
func (t *ThresholdTable) Get(c Category) (Limits, bool) {
	l, ok := t.limits[c]
	return l, ok
}

// Set overwrites the limits for a category.
func (t *ThresholdTable) Set(c Category, l Limits) {
	t.limits[c] = l
}

// Len returns the number of categories present.
func (t *ThresholdTable) Len() int {
	return len(t.limits)
}

// Clone returns an independent copy of the table.
func (t *ThresholdTable) Clone() *ThresholdTable {
	return NewThresholdTableFrom(t.limits)
}

// Map returns a copy of the table contents.
func (t *ThresholdTable) Map() map[Category]Limits {
	out := make(map[Category]Limits, len(t.limits))
	for c, l := range t.limits {
		out[c] = l
	}
	return out
}

// Equal reports whether both tables hold exactly the same pairs.
func (t *ThresholdTable) Equal(other *ThresholdTable) bool {
	if other == nil || len(t.limits) != len(other.limits) {
		return false
	}
	for c, l := range t.limits {
		o, ok := other.limits[c]
		if !ok || o != l {
			return false
		}
	}
	return true
}

// Snapshot captures the current contents as an immutable base for scaling.
func (t *ThresholdTable) Snapshot() Snapshot {
	return Snapshot{limits: t.Map()}
}

// Snapshot is a read-only copy of a ThresholdTable taken once at startup.
// Scaling always starts from the snapshot so repeated applications never compound.
type Snapshot struct {
	limits map[Category]Limits
}

// Get returns the captured limits for a category.
func (s Snapshot) Get(c Category) (Limits, bool) {
	l, ok := s.limits[c]
	return l, ok
}

// Scaled returns the snapshot with every category multiplied by m.
func (s Snapshot) Scaled(m float64) map[Category]Limits {
	out := make(map[Category]Limits, len(s.limits))
	for c, l := range s.limits {
		out[c] = l.Scale(m)
	}
	return out
}
