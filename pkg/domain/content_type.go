package domain

import dErrors "curator/pkg/domain-errors"

// ContentType names a moderatable kind of host content.
// Invariant: the value must be one of the registered content types.
//
// Usage: construct via ParseContentType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type ContentType string

const (
	ContentTypeReview  ContentType = "review"
	ContentTypeListing ContentType = "listing"
	ContentTypeTag     ContentType = "tag"
)

// validContentTypes is the single source of truth for moderatable types.
var validContentTypes = map[ContentType]bool{
	ContentTypeReview:  true,
	ContentTypeListing: true,
	ContentTypeTag:     true,
}

// ParseContentType constructs a ContentType from external input.
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseContentType(s string) (ContentType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "content type cannot be empty")
	}
	t := ContentType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid content type: "+s)
	}
	return t, nil
}

// IsValid checks if the content type is one of the supported enum values.
func (t ContentType) IsValid() bool {
	return validContentTypes[t]
}

func (t ContentType) String() string {
	return string(t)
}
