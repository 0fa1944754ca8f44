package firmware

import "strings"

// IsRelease reports whether version begins with a numeric sequence
// containing at least one dot, e.g. "7.3.1" or "8.0.0-beta.1".
func IsRelease(version string) bool {
	return numericPrefix(version) > 0
}

// IsFullRelease reports whether version is entirely a dotted numeric
// sequence with no qualifier, e.g. "7.3.1" but not "8.0.0-rc.1".
func IsFullRelease(version string) bool {
	n := numericPrefix(version)
	return n > 0 && n == len(version)
}

// IsReleaseCandidate reports whether version mentions "rc".
func IsReleaseCandidate(version string) bool {
	return strings.Contains(version, "rc")
}

// IsAlpha reports whether version mentions "alpha".
func IsAlpha(version string) bool {
	return strings.Contains(version, "alpha")
}

// numericPrefix returns the length of the longest leading N(.N)+ run of
// version, or 0 when there is none.
func numericPrefix(version string) int {
	i := digits(version, 0)
	if i == 0 {
		return 0
	}

	end, dots := 0, 0
	for i < len(version) && version[i] == '.' {
		j := digits(version, i+1)
		if j == i+1 {
			break
		}
		i = j
		end = j
		dots++
	}

	if dots == 0 {
		return 0
	}
	return end
}

func digits(s string, from int) int {
	i := from
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}
