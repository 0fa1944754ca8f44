package firmware

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Criteria narrows the images considered by Select. Zero values mean "any".
type Criteria struct {
	// Type is a file type suffix such as ".uf2" or "bin".
	Type string
	// Version must match the image version exactly.
	Version string
	// Prerelease and Latest admit images whose version is not a release.
	Prerelease bool
	Latest     bool
}

// Normalize returns a copy of c with a leading dot added to Type.
func (c Criteria) Normalize() Criteria {
	if c.Type != "" && !strings.HasPrefix(c.Type, ".") {
		c.Type = "." + c.Type
	}
	return c
}

// Match reports whether img satisfies the criteria. c should be normalized.
func (c Criteria) Match(img Image) bool {
	if c.Type != "" && !strings.HasSuffix(img.Type, c.Type) {
		return false
	}
	if c.Version != "" && img.Version != c.Version {
		return false
	}
	return c.Prerelease || img.IsFullRelease() || c.Latest || img.IsRelease()
}

// Sort returns a copy of images ordered most recent first. Images modified on
// the same day are ordered by type, then by version, all descending.
func Sort(images []Image) []Image {
	sorted := slices.Clone(images)

	// Three stable passes: each later pass only reorders ties of the earlier ones.
	slices.SortStableFunc(sorted, func(a, b Image) int {
		if c := cmp.Compare(dateKey(b.ModifiedAt), dateKey(a.ModifiedAt)); c != 0 {
			return c
		}
		return cmp.Compare(b.Version, a.Version)
	})
	slices.SortStableFunc(sorted, func(a, b Image) int {
		return cmp.Compare(b.Type, a.Type)
	})
	slices.SortStableFunc(sorted, func(a, b Image) int {
		return cmp.Compare(dateKey(b.ModifiedAt), dateKey(a.ModifiedAt))
	})

	return sorted
}

// Filter sorts images and keeps the ones matching c.
func Filter(images []Image, c Criteria) []Image {
	c = c.Normalize()
	return lo.Filter(Sort(images), func(img Image, _ int) bool {
		return c.Match(img)
	})
}

// Select picks the preferred image matching c. ok is false when nothing
// matches.
func Select(images []Image, c Criteria) (img Image, ok bool) {
	candidates := Filter(images, c)
	if len(candidates) == 0 {
		return Image{}, false
	}
	return candidates[0], true
}

// dateKey is the calendar date of t in its own zone. Unknown times sort last.
func dateKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
