package timelog

import (
	"regexp"
	"strconv"
	"strings"

	"catalog-assistant/internal/pkg/apperror"
)

var (
	clockPattern = regexp.MustCompile(`^\d+:\d{1,2}$`)
	unitPattern  = regexp.MustCompile(`^(?:(\d+)\s*h)?\s*(\d+)?\s*m?$`)
)

// ParseDuration converts a user-entered duration into minutes. Accepted
// forms: "4h" (240), "30m" (30), "1h 20m" (80), "1:20" (80), bare minutes
// "90" (90).
func ParseDuration(input string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, apperror.NewValidation("bad duration, examples: 4h, 30m, 1:20, 90")
	}

	if clockPattern.MatchString(s) {
		parts := strings.SplitN(s, ":", 2)
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		return h*60 + m, nil
	}

	if m := unitPattern.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		hours := 0
		if m[1] != "" {
			hours, _ = strconv.Atoi(m[1])
		}
		minutes := 0
		if m[2] != "" {
			minutes, _ = strconv.Atoi(m[2])
		}
		return hours*60 + minutes, nil
	}

	return 0, apperror.NewValidation("bad duration, examples: 4h, 30m, 1:20, 90")
}
