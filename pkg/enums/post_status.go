package enums

import "fmt"

// PostStatus describes where a post sits in the editorial lifecycle.
type PostStatus string

const (
	PostStatusDraft         PostStatus = "draft"
	PostStatusPendingReview PostStatus = "pending_review"
	PostStatusApproved      PostStatus = "approved"
	PostStatusRejected      PostStatus = "rejected"
	PostStatusPublished     PostStatus = "published"
)

var validPostStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusPendingReview,
	PostStatusApproved,
	PostStatusRejected,
	PostStatusPublished,
}

// String returns the literal string for the status.
func (p PostStatus) String() string {
	return string(p)
}

// IsValid reports whether the status is known.
func (p PostStatus) IsValid() bool {
	for _, candidate := range validPostStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePostStatus converts raw input into a PostStatus.
func ParsePostStatus(value string) (PostStatus, error) {
	for _, candidate := range validPostStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post status %q", value)
}
