package constants

import "time"

const (
	// PrimaryStoreTimeout bounds every call against the primary store. A call
	// that does not complete in time fails as storage-unavailable and routes
	// to the fallback.
	PrimaryStoreTimeout = 5 * time.Second

	ExternalAPITimeout = 30 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// DefaultYouthAgeMax and DefaultYouthExperienceMax gate sleeper-pick
	// candidates: young, low-experience players ranked in the worse half of
	// their position.
	DefaultYouthAgeMax        = 25
	DefaultYouthExperienceMax = 3

	// DefaultValueTierGap is the percentile-point spread (one tier) by which
	// a player's projected-points percentile must beat their rank percentile
	// to count as a value pick. Tuned, not derived.
	DefaultValueTierGap = 20.0
)

const (
	TrendingAddLimit = 50
)
