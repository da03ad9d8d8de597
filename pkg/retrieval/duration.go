package retrieval

import (
	"errors"
	"strconv"
	"strings"

	"github.com/papercomputeco/artomo/pkg/content"
)

// minutesPerExhibition is the visit time budgeted for one exhibition.
const minutesPerExhibition = 45

var errNoLeadingInteger = errors.New("expected a leading integer number of hours")

// KeepTopKFromDuration converts a time budget such as "2 hours" into the
// number of exhibitions that fit in it, never fewer than one. Only the
// leading integer is read and it is taken as hours.
func KeepTopKFromDuration(duration string) (int, error) {
	fields := strings.Fields(duration)
	if len(fields) == 0 {
		return 0, &content.MalformedInputError{Field: content.FacetDuration, Value: duration, Err: errNoLeadingInteger}
	}

	hours, err := strconv.Atoi(fields[0])
	if err != nil || hours < 0 {
		return 0, &content.MalformedInputError{Field: content.FacetDuration, Value: duration, Err: errNoLeadingInteger}
	}

	return max(1, hours*60/minutesPerExhibition), nil
}
