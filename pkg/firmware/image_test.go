package firmware

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bucketURL = "https://adafruit-circuit-python.s3.amazonaws.com/"

func TestParseImage(t *testing.T) {
	modified := time.Date(2022, 3, 1, 18, 4, 5, 0, time.UTC)

	t.Run("RoundTrip", func(t *testing.T) {
		keys := []struct {
			board, language, version, fileType string
		}{
			{"pyportal", "en_US", "7.3.1", ".uf2"},
			{"feather_m4_express", "de_DE", "8.0.0-beta.1", ".bin"},
			{"raspberry_pi_pico", "zh_Latn_pinyin", "8.0.0-alpha.2", ".uf2"},
			{"espressif_esp32s3_devkitc_1", "en_x_pirate", "20230101-abc1234", ".bin.gz"},
		}

		for _, k := range keys {
			name := "adafruit-circuitpython-" + k.board + "-" + k.language + "-" + k.version + k.fileType
			rawURL := bucketURL + "bin/" + k.board + "/" + k.language + "/" + name

			img, err := ParseImage(rawURL, 1024, modified)
			require.NoError(t, err, "Should parse %s", name)

			assert.Equal(t, name, img.Name, "Name should be the URL basename")
			assert.Equal(t, rawURL, img.URL, "URL should be kept as is")
			assert.Equal(t, k.board, img.Board, "Board should round trip")
			assert.Equal(t, k.language, img.Language, "Language should round trip")
			assert.Equal(t, k.version, img.Version, "Version should round trip")
			assert.Equal(t, k.fileType, img.Type, "Type should round trip")
			assert.Equal(t, int64(1024), img.Size)
			assert.True(t, modified.Equal(img.ModifiedAt))
		}
	})

	t.Run("UnknownSizeAndDate", func(t *testing.T) {
		img, err := ParseImage(bucketURL+"bin/pyportal/en_US/adafruit-circuitpython-pyportal-en_US-7.3.1.uf2", UnknownSize, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, UnknownSize, img.Size)
		assert.True(t, img.ModifiedAt.IsZero())
		assert.Equal(t, "unknown size", img.HumanSize())
	})

	t.Run("MalformedName", func(t *testing.T) {
		for _, rawURL := range []string{
			bucketURL + "bin/x/y/not-a-valid-name",
			bucketURL + "bin/x/y/not-a-valid.uf2",
			bucketURL + "bin/x/y/",
			bucketURL + "bin/x/y/a-b-c-d-1.0.0",
		} {
			_, err := ParseImage(rawURL, 0, time.Time{})
			require.Error(t, err, "Should reject %s", rawURL)

			var malformed *MalformedNameError
			assert.True(t, errors.As(err, &malformed), "Error for %s should be a MalformedNameError", rawURL)
		}
	})

	t.Run("EmptyFields", func(t *testing.T) {
		img, err := ParseImage(bucketURL+"bin/x/y/a-b--en_US-.uf2", 0, time.Time{})
		require.NoError(t, err, "Only the field count and type suffix are checked")

		assert.Empty(t, img.Board)
		assert.Equal(t, "en_US", img.Language)
		assert.Empty(t, img.Version)
		assert.Equal(t, ".uf2", img.Type)
		assert.False(t, img.IsRelease())
	})

	t.Run("LongestTypeSuffix", func(t *testing.T) {
		stem, fileType := splitType("a-b-c-d-1.2.3.bin.gz")
		assert.Equal(t, "a-b-c-d-1.2.3", stem)
		assert.Equal(t, ".bin.gz", fileType)

		stem, fileType = splitType("a-b-c-d-1.2.3-rc.0.uf2")
		assert.Equal(t, "a-b-c-d-1.2.3-rc.0", stem)
		assert.Equal(t, ".uf2", fileType)

		_, fileType = splitType("a-b-c-d-1.2.3")
		assert.Empty(t, fileType, "Numeric segments are not file types")
	})
}

func TestImage_String(t *testing.T) {
	img, err := ParseImage(bucketURL+"bin/pyportal/en_US/adafruit-circuitpython-pyportal-en_US-7.3.1.uf2",
		1536, time.Date(2022, 6, 22, 17, 30, 12, 0, time.UTC))
	require.NoError(t, err)

	s := img.String()
	assert.Contains(t, s, "pyportal (.uf2) - en_US - Version 7.3.1")
	assert.Contains(t, s, "Modified 2022-06-22 17:30")
	assert.Contains(t, s, img.HumanSize())
}
