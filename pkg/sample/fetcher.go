// Package sample loads a student's writing sample from a file or URL,
// so the wizard can attach it without pasting long text.
package sample

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"essaypilot/pkg/profile"
)

// Fetch retrieves writing-sample text from a file path or http(s) URL,
// trimmed and capped at the writing-sample limit.
func Fetch(input string) (text string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	text, err = FetchWithContext(ctx, input)
	return text, err
}

// FetchWithContext retrieves writing-sample text with context.
func FetchWithContext(ctx context.Context, input string) (text string, err error) {
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		text, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch writing sample from URL: %s", input)
			return text, err
		}
		text = cap2000(text)
		return text, err
	}

	text, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to read writing sample from file: %s", input)
		return text, err
	}

	text = cap2000(text)
	return text, err
}

// fetchFromFile reads sample text from a file.
func fetchFromFile(path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return text, err
	}

	text = strings.TrimSpace(string(data))
	if text == "" {
		err = errors.New("file is empty")
		return text, err
	}

	return text, err
}

// fetchFromURL fetches sample text over HTTP.
func fetchFromURL(ctx context.Context, rawURL string) (text string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create request")
		return text, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return text, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("unexpected status: %d", resp.StatusCode)
		return text, err
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return text, err
	}

	text = strings.TrimSpace(string(body))
	if text == "" {
		err = errors.New("response body is empty")
		return text, err
	}

	return text, err
}

// cap2000 truncates to the writing-sample limit.
func cap2000(text string) (capped string) {
	capped = text
	runes := []rune(capped)
	if len(runes) > profile.MaxWritingSampleLen {
		capped = string(runes[:profile.MaxWritingSampleLen])
	}
	return capped
}
