package models

// SourceType tags where a recipe reference points to.
type SourceType string

const (
	// SourceSpoonacular references a recipe in the external catalog.
	SourceSpoonacular SourceType = "spoonacular"
	// SourceCommunity references a PersonalRecipe document.
	SourceCommunity SourceType = "community"
)

// ParseSourceType accepts only the two literal provenance tags.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(s) {
	case SourceSpoonacular, SourceCommunity:
		return SourceType(s), true
	}
	return "", false
}
