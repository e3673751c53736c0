package updater

import (
	"strconv"
	"strings"
)

// CompareVersions compares two semantic versions.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2. A leading "v" is ignored,
// missing parts count as zero and pre-release or build suffixes are dropped.
func CompareVersions(v1, v2 string) int {
	p1 := versionParts(v1)
	p2 := versionParts(v2)

	n := len(p1)
	if len(p2) > n {
		n = len(p2)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(p1) {
			a = p1[i]
		}
		if i < len(p2) {
			b = p2[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		parts[i] = n
	}
	return parts
}
