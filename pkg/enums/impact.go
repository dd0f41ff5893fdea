package enums

// Impact grades how much a recommendation is expected to move the score.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// String implements fmt.Stringer.
func (i Impact) String() string {
	return string(i)
}

// IsValid reports whether the value is a known Impact.
func (i Impact) IsValid() bool {
	switch i {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return true
	}
	return false
}
