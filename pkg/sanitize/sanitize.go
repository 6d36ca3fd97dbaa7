// Package sanitize normalizes untrusted free-text and numeric input before it
// reaches business logic. All transforms here are normative: callers store the
// sanitized value, never the raw client value.
package sanitize

import (
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	apperrors "github.com/solune/storefront/pkg/errors"
)

// Comment length bounds, applied to the stripped plain text.
const (
	MinCommentLen = 10
	MaxCommentLen = 1000
)

// Rating bounds. Inputs are rounded to the nearest 0.5 inside this range.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// strict strips every tag and attribute, leaving plain text only.
var strict = bluemonday.StrictPolicy()

// PlainText strips all HTML tags and attributes from s, unescapes entities,
// and trims surrounding whitespace.
func PlainText(s string) string {
	stripped := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// Comment sanitizes a review comment: strip markup, then apply length bounds
// to the stripped text. Content that only becomes too short after stripping
// is rejected with INVALID_COMMENT_CONTENT so the caller can distinguish
// "markup-only comment" from "honestly short comment".
func Comment(raw string) (string, error) {
	plain := PlainText(raw)

	// Length bounds count characters, not bytes, so multi-byte text is
	// measured the way clients see it.
	if utf8.RuneCountInString(plain) < MinCommentLen {
		if utf8.RuneCountInString(strings.TrimSpace(raw)) >= MinCommentLen {
			return "", apperrors.Validation(apperrors.CodeInvalidCommentContent,
				"comment contains no usable text after removing markup")
		}
		return "", apperrors.Validation(apperrors.CodeCommentTooShort,
			"comment must contain at least 10 characters")
	}

	if utf8.RuneCountInString(plain) > MaxCommentLen {
		return "", apperrors.Validation(apperrors.CodeCommentTooLong,
			"comment must not exceed 1000 characters")
	}

	return plain, nil
}

// Rating normalizes a review rating: any finite value in [1,5] is accepted
// and rounded to the nearest 0.5. The rounding is a transform, not a
// rejection condition.
func Rating(r float64) (float64, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, apperrors.Validation(apperrors.CodeInvalidRating,
			"rating must be a finite number between 1 and 5")
	}
	if r < MinRating || r > MaxRating {
		return 0, apperrors.Validation(apperrors.CodeInvalidRating,
			"rating must be between 1 and 5")
	}
	return math.Round(r*2) / 2, nil
}

// Price parses a price bound from its query-string form, rounds it to two
// decimal places, and rejects negative or malformed values. The message names
// the offending raw value and the accepted range.
func Price(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Validation(apperrors.CodeValidationError,
			"price "+raw+" is not a valid number (expected a non-negative decimal)")
	}
	if d.IsNegative() {
		return 0, apperrors.Validation(apperrors.CodeValidationError,
			"price "+raw+" is out of range (must be >= 0)")
	}
	return d.Round(2).InexactFloat64(), nil
}

// RoundPrice rounds a stored price to two decimal places. Applied to price
// snapshots before they leave the catalog, so serialized floats stay 2dp.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
