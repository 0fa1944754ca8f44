package utils

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/criteo/circdown/pkg/bucket"
)

// ChunkSize is the buffer size used when streaming a download to disk.
const ChunkSize = 1 << 15

// ProgressFunc receives the number of bytes written so far.
type ProgressFunc func(written int64)

// DownloadFile opens the body of url. Network failures and non-200 answers
// are returned as *bucket.TransportError.
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &bucket.TransportError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &bucket.TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// DownloadFileToDest streams url into file. The content goes to a temporary
// file next to the destination, which is renamed only once the copy is
// complete, so an interrupted download never leaves a truncated file behind.
func DownloadFileToDest(ctx context.Context, client *http.Client, url, file string, progress ProgressFunc) error {
	body, err := DownloadFile(ctx, client, url)
	if err != nil {
		return err
	}
	defer body.Close()

	tmpFile := filepath.Join(filepath.Dir(file), "."+filepath.Base(file)+"."+uuid.NewString()+".part")
	out, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if err := copyChunks(out, body, progress); err != nil {
		out.Close()
		os.Remove(tmpFile)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, file); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

func copyChunks(dst io.Writer, src io.Reader, progress ProgressFunc) error {
	buf := make([]byte, ChunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
			written += int64(n)
			if progress != nil {
				progress(written)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
