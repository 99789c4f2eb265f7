package specloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// maxDocumentSize caps fetched specification bodies. Specifications are small
// declarative documents; anything larger is a misconfigured URL.
const maxDocumentSize = 4 << 20

const acceptHeader = "application/json, application/yaml;q=0.9, text/yaml;q=0.9, text/plain;q=0.5"

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		return nil, errors.New("specloader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("specloader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("specloader: unexpected status " + resp.Status)
	}
	if err := checkContentType(resp.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("specloader: document exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}

// checkContentType rejects responses that are clearly not specification
// documents, most commonly an HTML error or login page served with a 200.
// Absent or unparseable headers pass; the decoder is the authority on the
// body.
func checkContentType(header string) error {
	if header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return nil
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return fmt.Errorf("specloader: unexpected content type %q", mediaType)
	}
	return nil
}
