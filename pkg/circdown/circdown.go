package circdown

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/criteo/circdown/pkg/bucket"
	"github.com/criteo/circdown/pkg/firmware"
	"github.com/criteo/circdown/pkg/utils"
)

const (
	DefaultBucketURL = "https://adafruit-circuit-python.s3.amazonaws.com"
	DefaultPrefix    = "bin/"
)

type CircdownConfig struct {
	// BucketURL is the root of the firmware bucket.
	BucketURL string
	// Prefix is the key prefix holding the board directories.
	Prefix string
	// Language is used whenever a call does not name one.
	Language string
}

// Catalog answers questions about the boards, languages and firmware
// images published in the bucket.
type Catalog struct {
	Config     CircdownConfig
	lister     Lister
	httpClient *http.Client
}

func NewCatalog(config CircdownConfig, lister Lister, httpClient *http.Client) *Catalog {
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Language == "" {
		config.Language = FallbackLanguage
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Catalog{
		Config:     config,
		lister:     lister,
		httpClient: httpClient,
	}
}

// New builds a Catalog reading the bucket at config.BucketURL.
func New(config CircdownConfig, httpClient *http.Client) (*Catalog, error) {
	if config.BucketURL == "" {
		config.BucketURL = DefaultBucketURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client, err := bucket.New(config.BucketURL,
		bucket.WithHTTPClient(httpClient),
		bucket.WithLogger(slog.With("bucket", config.BucketURL)))
	if err != nil {
		return nil, err
	}
	return NewCatalog(config, client, httpClient), nil
}

// ListBoards yields the board names, optionally restricted to the ones
// containing search.
func (c *Catalog) ListBoards(ctx context.Context, search string) iter.Seq2[string, error] {
	return c.listDirs(ctx, c.Config.Prefix, search)
}

// ListLanguages yields the languages available for board.
func (c *Catalog) ListLanguages(ctx context.Context, board, search string) iter.Seq2[string, error] {
	return c.listDirs(ctx, c.Config.Prefix+board+"/", search)
}

func (c *Catalog) listDirs(ctx context.Context, prefix, search string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for page, err := range c.lister.Walk(ctx, prefix, "/") {
			if err != nil {
				yield("", fmt.Errorf("listing %s: %w", prefix, err))
				return
			}

			for _, cp := range page.CommonPrefixes {
				name := bucket.DirName(cp.Prefix)
				if search != "" && !strings.Contains(name, search) {
					continue
				}
				if !yield(name, nil) {
					return
				}
			}
		}
	}
}

// ListImages returns every firmware image published for board and
// language. A single object that does not follow the naming convention
// fails the whole listing.
func (c *Catalog) ListImages(ctx context.Context, board, language string) ([]firmware.Image, error) {
	language = c.language(language)
	prefix := c.Config.Prefix + board + "/" + language + "/"
	logger := slog.With("board", board, "language", language)

	images := []firmware.Image{}
	for page, err := range c.lister.Walk(ctx, prefix, "/") {
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", prefix, err)
		}

		for _, obj := range page.Contents {
			size := lo.FromPtrOr(obj.Size, firmware.UnknownSize)
			modified := lo.FromPtr(obj.LastModified)

			img, err := firmware.ParseImage(c.lister.ResolveURL(obj.Key), size, modified)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", prefix, err)
			}
			images = append(images, img)
		}
	}

	logger.Debug("Listed images", "count", len(images))
	return images, nil
}

// ListVersions yields the release versions available for board and
// language, each version once, optionally restricted to the ones
// containing search.
func (c *Catalog) ListVersions(ctx context.Context, board, language, search string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		images, err := c.ListImages(ctx, board, language)
		if err != nil {
			yield("", err)
			return
		}

		releases := lo.FilterMap(images, func(img firmware.Image, _ int) (string, bool) {
			return img.Version, img.IsRelease() && strings.Contains(img.Version, search)
		})
		for _, version := range lo.Uniq(releases) {
			if !yield(version, nil) {
				return
			}
		}
	}
}

// Find selects the image for board and language matching criteria. ok is
// false when no image qualifies.
func (c *Catalog) Find(ctx context.Context, board, language string, criteria firmware.Criteria) (img firmware.Image, ok bool, err error) {
	images, err := c.ListImages(ctx, board, language)
	if err != nil {
		return firmware.Image{}, false, err
	}

	img, ok = firmware.Select(images, criteria)
	return img, ok, nil
}

// Download fetches img into dir and returns the path of the written file.
func (c *Catalog) Download(ctx context.Context, img firmware.Image, dir string, progress utils.ProgressFunc) (string, error) {
	dest := filepath.Join(dir, img.Name)
	logger := slog.With("firmware", img.Name)
	logger.Info("Downloading firmware", "url", img.URL, "dest", dest)

	if err := utils.DownloadFileToDest(ctx, c.httpClient, img.URL, dest, progress); err != nil {
		return "", fmt.Errorf("downloading %s: %w", img.URL, err)
	}

	logger.Info("Successfully downloaded firmware")
	return dest, nil
}

func (c *Catalog) language(language string) string {
	if language == "" {
		return c.Config.Language
	}
	return language
}
