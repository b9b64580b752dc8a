package rakuten

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kansouapp/kansou-server/internal/normalize"
)

// LookupISBN fetches metadata for one book by ISBN.
//
// The ISBN is normalized before the call (separators stripped, check
// character uppercased). A missing online listing is the ErrNotFound case
// and is a normal outcome, not a failure of the client.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Book, error) {
	normalized, ok := normalize.ISBN(isbn)
	if !ok {
		return nil, wrapError("lookup", isbn, ErrInvalidISBN)
	}

	if err := c.wait(ctx); err != nil {
		return nil, wrapError("lookup", normalized, fmt.Errorf("rate limit: %w", err))
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("isbn", normalized)
	params.Set("applicationId", c.appID)

	lookupURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("looking up book metadata",
		"isbn", normalized,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, wrapError("lookup", normalized, fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, wrapError("lookup", normalized, ErrTimeout)
		}
		return nil, wrapError("lookup", normalized, fmt.Errorf("lookup request: %w", err))
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, wrapError("lookup", normalized, err)
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, wrapError("lookup", normalized, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	if len(searchResp.Items) == 0 {
		return nil, wrapError("lookup", normalized, ErrNotFound)
	}

	item := &searchResp.Items[0].Item

	coverURL := item.LargeImageURL
	if coverURL == "" {
		coverURL = item.MediumImageURL
	}

	book := &Book{
		ISBN:      normalized,
		Title:     item.Title,
		Author:    item.Author,
		Publisher: item.PublisherName,
		SalesDate: item.SalesDate,
		Price:     item.ItemPrice,
		Caption:   stripHTML(item.ItemCaption),
		CoverURL:  coverURL,
		ItemURL:   item.ItemURL,
	}

	c.logger.Debug("book metadata found",
		"isbn", normalized,
		"title", book.Title,
		"publisher", book.Publisher,
	)

	return book, nil
}

// statusError maps an HTTP status to a sentinel error, nil for 200.
func statusError(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status >= 500:
		return ErrServer
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// isTimeout reports whether err is a network timeout.
func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
