package extract

// Extractor defines a minimal interface for table extraction strategies.
// Implementations must be deterministic and keep no state between calls.
type Extractor interface {
	// Extract converts markup into the ordered list of non-empty tables.
	Extract(markup string) []Table
}

var _ Extractor = StreamExtractor{}
