package enums

import "fmt"

// ActivityCategory classifies a schedulable trip activity.
type ActivityCategory string

const (
	ActivityCategoryFood        ActivityCategory = "food"
	ActivityCategorySightseeing ActivityCategory = "sightseeing"
	ActivityCategoryOutdoors    ActivityCategory = "outdoors"
	ActivityCategoryNightlife   ActivityCategory = "nightlife"
	ActivityCategoryShopping    ActivityCategory = "shopping"
	ActivityCategoryCulture     ActivityCategory = "culture"
	ActivityCategoryTransport   ActivityCategory = "transport"
	ActivityCategoryLodging     ActivityCategory = "lodging"
	ActivityCategoryOther       ActivityCategory = "other"
)

var validActivityCategories = []ActivityCategory{
	ActivityCategoryFood,
	ActivityCategorySightseeing,
	ActivityCategoryOutdoors,
	ActivityCategoryNightlife,
	ActivityCategoryShopping,
	ActivityCategoryCulture,
	ActivityCategoryTransport,
	ActivityCategoryLodging,
	ActivityCategoryOther,
}

// String implements fmt.Stringer.
func (a ActivityCategory) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityCategory.
func (a ActivityCategory) IsValid() bool {
	for _, candidate := range validActivityCategories {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityCategory converts raw input into an ActivityCategory.
func ParseActivityCategory(value string) (ActivityCategory, error) {
	for _, candidate := range validActivityCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity category %q", value)
}
