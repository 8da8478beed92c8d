package application

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// NormalizeLimit clamps a requested page size into [1, MaxPageLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
