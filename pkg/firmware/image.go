package firmware

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
)

// UnknownSize marks an image whose listing did not report a byte count.
const UnknownSize int64 = -1

// Image describes a single firmware file published in the bucket.
type Image struct {
	Name       string
	URL        string
	Size       int64
	ModifiedAt time.Time

	Board    string
	Language string
	Version  string
	Type     string
}

// MalformedNameError is returned when an object name does not follow the
// <product>-<distribution>-<board>-<language>-<version><type> convention.
type MalformedNameError struct {
	Name   string
	Reason string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("malformed firmware name %q: %s", e.Name, e.Reason)
}

// ParseImage builds an Image from the absolute URL of an object. Pass
// UnknownSize and a zero time when the listing did not provide them.
func ParseImage(rawURL string, size int64, modifiedAt time.Time) (Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Image{}, fmt.Errorf("invalid image url %q: %w", rawURL, err)
	}

	name := u.Path[strings.LastIndexByte(u.Path, '/')+1:]

	stem, fileType := splitType(name)
	if fileType == "" {
		return Image{}, &MalformedNameError{Name: name, Reason: "missing file type suffix"}
	}

	fields := strings.SplitN(stem, "-", 5)
	if len(fields) != 5 {
		return Image{}, &MalformedNameError{Name: name, Reason: fmt.Sprintf("expected 5 dash separated fields, got %d", len(fields))}
	}

	return Image{
		Name:       name,
		URL:        rawURL,
		Size:       size,
		ModifiedAt: modifiedAt,
		Board:      fields[2],
		Language:   fields[3],
		Version:    fields[4],
		Type:       fileType,
	}, nil
}

// splitType separates the trailing run of ".ext" segments from the rest of
// the name. Each segment starts with a letter followed by letters or digits.
func splitType(name string) (stem, fileType string) {
	end := len(name)
	for {
		dot := strings.LastIndexByte(name[:end], '.')
		if dot < 0 || !isTypeSegment(name[dot+1:end]) {
			break
		}
		end = dot
	}
	return name[:end], name[end:]
}

func isTypeSegment(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsRelease reports whether the version starts with a dotted numeric sequence.
func (i Image) IsRelease() bool { return IsRelease(i.Version) }

// IsFullRelease reports whether the version is nothing but a dotted numeric sequence.
func (i Image) IsFullRelease() bool { return IsFullRelease(i.Version) }

func (i Image) IsReleaseCandidate() bool { return IsReleaseCandidate(i.Version) }

func (i Image) IsAlpha() bool { return IsAlpha(i.Version) }

// HumanSize formats the image size, or "unknown size" when the listing omitted it.
func (i Image) HumanSize() string {
	if i.Size < 0 {
		return "unknown size"
	}
	return datasize.ByteSize(i.Size).HumanReadable()
}

func (i Image) String() string {
	modified := "unknown"
	if !i.ModifiedAt.IsZero() {
		modified = i.ModifiedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s (%s) - %s - Version %s - %s - Modified %s",
		i.Board, i.Type, i.Language, i.Version, i.HumanSize(), modified)
}
