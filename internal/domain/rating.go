package domain

import (
	"fmt"
	"strings"
)

// Rating is the four-valued outcome of a single review. It is the only
// external input to the retention model.
type Rating int

// Rating values. The ordinal doubles as the grade used by the retention model.
const (
	RatingAgain Rating = iota + 1
	RatingHard
	RatingGood
	RatingEasy
)

var ratingNames = map[Rating]string{
	RatingAgain: "again",
	RatingHard:  "hard",
	RatingGood:  "good",
	RatingEasy:  "easy",
}

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// Grade returns the ordinal of the rating (Again=1 .. Easy=4).
func (r Rating) Grade() int {
	return int(r)
}

// IsLapse reports whether the rating counts as a failed recall.
func (r Rating) IsLapse() bool {
	return r == RatingAgain
}

func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating converts a case-insensitive rating name into a Rating.
func ParseRating(s string) (Rating, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for r, name := range ratingNames {
		if name == needle {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
