package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeUsername 规范化 OAuth 档案里的种子：
// NFKD 去掉变音符号、转小写、非字母数字的连续段折叠成单个下划线、去掉首尾下划线。
func sanitizeUsername(seed string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, seed); err == nil {
		seed = stripped
	}
	base := strings.ToLower(seed)
	base = nonAlnumRuns.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		return "user"
	}
	return base
}

// generateUniqueUsername walks the provisioning pipeline: the sanitized
// base as-is, then 5 candidates with a random 4-digit suffix, then an
// incrementing integer suffix until an unused name turns up. No locking —
// the unique index rejects the losing side of a concurrent insert.
func (s *AuthService) generateUniqueUsername(seed string) (string, error) {
	base := sanitizeUsername(seed)

	taken, err := s.users.UsernameExists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 0; i < 5; i++ {
		candidate := fmt.Sprintf("%s%d", base, 1000+rand.Intn(9000))
		taken, err := s.users.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s%d", base, counter)
		taken, err := s.users.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
