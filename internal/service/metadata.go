package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/errors"
	"github.com/kansouapp/kansou-server/internal/media/images"
	"github.com/kansouapp/kansou-server/internal/metadata/rakuten"
	"github.com/kansouapp/kansou-server/internal/normalize"
	"github.com/kansouapp/kansou-server/internal/store"
)

// MetadataService fetches and caches supplementary book metadata.
//
// Every failure mode is converted here, at the boundary, into a placeholder
// result with a human-readable reason. Nothing in the search/rank/detail
// pipeline ever sees a metadata error.
type MetadataService struct {
	client     *rakuten.Client // nil when no application ID is configured
	store      *store.Store
	httpClient *http.Client
	logger     *slog.Logger
	ttl        time.Duration
}

// NewMetadataService creates a metadata service. client may be nil when the
// external lookup is unconfigured; the service then degrades gracefully.
func NewMetadataService(client *rakuten.Client, st *store.Store, ttl time.Duration, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		client: client,
		store:  st,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		ttl:    ttl,
	}
}

// ForBook returns supplementary metadata for a book. It never returns an
// error: unavailable metadata is reported through Available=false plus a
// reason, and the core detail view renders regardless.
func (s *MetadataService) ForBook(ctx context.Context, b *domain.Book) *domain.BookMetadata {
	if b.ISBN == "" {
		return placeholder("", "この本にはISBNが登録されていません")
	}

	isbn, ok := normalize.ISBN(b.ISBN)
	if !ok {
		return placeholder(b.ISBN, "ISBNの形式が正しくありません")
	}

	if s.client == nil {
		return placeholder(isbn, "書誌APIのアプリケーションIDが設定されていません")
	}

	if cached, err := s.store.GetCachedMetadata(ctx, isbn, s.ttl); err == nil && cached != nil {
		return cached.Metadata
	} else if err != nil {
		s.logger.Warn("metadata cache read failed", "isbn", isbn, "error", err)
	}

	book, err := s.client.LookupISBN(ctx, isbn)
	if err != nil {
		md := placeholder(isbn, reasonFor(err))
		// Not-found is a stable fact about the listing; cache it so the
		// detail view doesn't re-query on every visit.
		if errors.Is(err, rakuten.ErrNotFound) {
			s.cache(ctx, isbn, md)
		} else {
			s.logger.Warn("metadata lookup failed", "isbn", isbn, "error", err)
		}
		return md
	}

	md := &domain.BookMetadata{
		ISBN:      isbn,
		Title:     book.Title,
		Author:    book.Author,
		Publisher: book.Publisher,
		SalesDate: book.SalesDate,
		Price:     book.Price,
		Caption:   book.Caption,
		CoverURL:  book.CoverURL,
		ItemURL:   book.ItemURL,
		Available: true,
	}

	if hash, err := s.coverBlurHash(ctx, book.CoverURL); err == nil {
		md.CoverBlurHash = hash
	} else if book.CoverURL != "" {
		s.logger.Debug("cover blurhash skipped", "isbn", isbn, "error", err)
	}

	s.cache(ctx, isbn, md)
	return md
}

func (s *MetadataService) cache(ctx context.Context, isbn string, md *domain.BookMetadata) {
	if err := s.store.SetCachedMetadata(ctx, isbn, md); err != nil {
		s.logger.Warn("metadata cache write failed", "isbn", isbn, "error", err)
	}
}

// coverBlurHash fetches the cover once and computes a placeholder hash.
// Strictly best-effort: any failure just means no placeholder.
func (s *MetadataService) coverBlurHash(ctx context.Context, coverURL string) (string, error) {
	if coverURL == "" {
		return "", errors.NotFound("no cover url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Upstreamf("cover fetch returned status %d", resp.StatusCode)
	}

	return images.ComputeBlurHash(resp.Body)
}

// placeholder builds the degraded metadata result.
func placeholder(isbn, reason string) *domain.BookMetadata {
	return &domain.BookMetadata{
		ISBN:      isbn,
		Available: false,
		Reason:    reason,
	}
}

// reasonFor maps client errors to specific, actionable user-facing messages.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, rakuten.ErrNotFound):
		return "オンラインの書誌情報が見つかりませんでした"
	case errors.Is(err, rakuten.ErrRateLimited):
		return "書誌APIのリクエスト上限に達しました。しばらくしてから再試行してください"
	case errors.Is(err, rakuten.ErrUnauthorized):
		return "書誌APIのアプリケーションIDが拒否されました。設定を確認してください"
	case errors.Is(err, rakuten.ErrTimeout):
		return "書誌APIへの接続がタイムアウトしました"
	case errors.Is(err, rakuten.ErrServer):
		return "書誌APIでサーバーエラーが発生しました"
	case errors.Is(err, rakuten.ErrMalformed):
		return "書誌APIの応答を解釈できませんでした"
	case errors.Is(err, rakuten.ErrInvalidISBN):
		return "ISBNの形式が正しくありません"
	default:
		return "書誌情報の取得に失敗しました"
	}
}
