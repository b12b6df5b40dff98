package trustlevel

// Stats holds a user's current value for each requirement key.
type Stats map[Key]float64

// Overrides holds values from a fresher source. A nil value means the source
// does not report the field and must not replace the base value.
type Overrides map[Key]*float64

// Value returns a pointer to v, for building Overrides.
func Value(v float64) *float64 {
	return &v
}

// Clone returns a copy of s.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge unions base and overrides. Non-nil overrides win; everything else
// keeps the base value. Neither input is modified.
func Merge(base Stats, overrides Overrides) Stats {
	out := base.Clone()
	for k, v := range overrides {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// ReconcileLevel prefers the directory trust level when it is known.
func ReconcileLevel(summaryLevel int, directoryLevel *int) int {
	if directoryLevel != nil {
		return *directoryLevel
	}
	return summaryLevel
}
