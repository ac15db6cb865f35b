// Package ianadist reads tzdb source releases as distributed by IANA and
// downloads them from the [IANA data server].
//
// Clients are advised to keep the [ETags] returned by Latest and pass them
// to later calls to avoid downloading the same release again.
//
// [ETags]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/ETag
// [IANA data server]: https://www.iana.org/time-zones
package ianadist

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/mholt/archiver/v3"
)

// Release is an unpacked tzdb source release.
type Release struct {
	// Version of the release, for example "2024b".
	Version string
	// DataFiles maps the name of every source file in the release to its
	// content. Every content starts with "# tzdb data for".
	DataFiles map[string][]byte
	// LeapSecondsFile is the content of the leapseconds file, if any.
	LeapSecondsFile []byte
}

// Names returns the names of the data files in lexical order.
func (r *Release) Names() []string {
	names := make([]string, 0, len(r.DataFiles))
	for name := range r.DataFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	// baseURL is the base URL for time zones on the IANA data server.
	baseURL = "https://data.iana.org/time-zones/"
	// latestPath is the latest release relative to baseURL.
	latestPath = "tzdata-latest.tar.gz"
	// dataFileMagic starts every source file in a release.
	dataFileMagic = "# tzdb data for"
	// leapSecondsFilename is the name of the leap seconds file in a release.
	leapSecondsFilename = "leapseconds"
	// versionFilename is the name of the version file in a release.
	versionFilename = "version"
)

// ReadArchive unpacks a release from a gzip-compressed tar archive as found
// at https://data.iana.org/time-zones/releases/.
func ReadArchive(r io.Reader) (*Release, error) {
	tgz := archiver.NewTarGz()
	if err := tgz.Open(r, 0); err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer tgz.Close()

	result := Release{DataFiles: make(map[string][]byte)}
	for {
		f, err := tgz.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		name := entryName(f)
		if f.IsDir() {
			_ = f.Close()
			continue
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		}

		switch {
		case name == versionFilename:
			result.Version = strings.TrimSpace(string(data))
			if result.Version == "" {
				return nil, fmt.Errorf("empty version file")
			}
		case name == leapSecondsFilename:
			result.LeapSecondsFile = data
		case bytes.HasPrefix(data, []byte(dataFileMagic)):
			result.DataFiles[name] = data
		}
	}

	if len(result.DataFiles) == 0 {
		return nil, fmt.Errorf("no data files found")
	}
	if result.Version == "" {
		return nil, fmt.Errorf("no version found")
	}
	return &result, nil
}

// entryName returns the path of an archive entry, falling back to the base
// name if the entry carries no tar header.
func entryName(f archiver.File) string {
	if h, ok := f.Header.(*tar.Header); ok {
		return strings.TrimPrefix(h.Name, "./")
	}
	return f.Name()
}

// Client downloads releases from the IANA data server.
// The zero value is ready to use.
type Client struct {
	// HTTPClient is used for requests. If nil, http.DefaultClient is used.
	// Tests can set a client with a fake http.RoundTripper.
	HTTPClient *http.Client
}

// DefaultClient is used by the package-level Latest and Download.
var DefaultClient = &Client{}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Latest downloads and unpacks the latest release using DefaultClient.
func Latest(ctx context.Context, etag string) (*Release, string, error) {
	return DefaultClient.Latest(ctx, etag)
}

// Latest downloads and unpacks the latest release.
//
// If the server answers 304 Not Modified for the given ETag, the returned
// Release and error are nil and the ETag is returned unchanged. On error the
// returned ETag is empty.
func (c *Client) Latest(ctx context.Context, etag string) (*Release, string, error) {
	body, newEtag, err := c.Download(ctx, latestPath, etag)
	if err != nil {
		return nil, "", err
	}
	if body == nil {
		return nil, etag, nil // Not modified.
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	release, err := ReadArchive(body)
	if err != nil {
		return nil, "", err
	}
	return release, newEtag, nil
}

// Download downloads the resource at path, relative to the IANA time zone
// directory, using DefaultClient.
func Download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	return DefaultClient.Download(ctx, path, etag)
}

// Download downloads the resource at path, relative to the IANA time zone
// directory. A non-empty etag is sent as If-None-Match.
//
// On 200 OK the response body and its ETag are returned; the caller must
// read and close the body. On 304 Not Modified the body and error are nil
// and etag is returned unchanged. Any other status is an error.
//
// ctx controls cancellation and timeouts of the request.
func (c *Client) Download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	u, err := url.JoinPath(baseURL, path)
	if err != nil {
		return nil, "", fmt.Errorf("join URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request for %q: %w", u, err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %q: %w", u, err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, resp.Header.Get("ETag"), nil
	}

	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	if resp.StatusCode == http.StatusNotModified {
		return nil, etag, nil
	}
	return nil, "", fmt.Errorf("response for %q: unexpected status: %s", u, resp.Status)
}
