package enums

import "fmt"

// CategoryType scopes a category to one of the content catalogs.
type CategoryType string

const (
	CategoryTypePost  CategoryType = "post"
	CategoryTypeMovie CategoryType = "movie"
	CategoryTypeMusic CategoryType = "music"
)

var validCategoryTypes = []CategoryType{
	CategoryTypePost,
	CategoryTypeMovie,
	CategoryTypeMusic,
}

// String returns the literal string for the type.
func (c CategoryType) String() string {
	return string(c)
}

// IsValid reports whether the type is known.
func (c CategoryType) IsValid() bool {
	for _, candidate := range validCategoryTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategoryType converts raw input into a CategoryType.
func ParseCategoryType(value string) (CategoryType, error) {
	for _, candidate := range validCategoryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category type %q", value)
}
