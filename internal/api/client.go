package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/mushaf-t/internal/assembler"
	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/config"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/parts"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// Client is the HTTP client for the alquran.cloud content API. It keeps no
// state between calls: every fetch is a fresh round trip.
type Client struct {
	baseURL            string
	recitationEdition  string
	translationEdition string
	searchLanguage     string
	timeout            time.Duration
	strict             bool
	httpClient         *http.Client
	log                logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithEditions sets the recitation and translation editions
func WithEditions(recitation, translation string) Option {
	return func(c *Client) {
		c.recitationEdition = recitation
		c.translationEdition = translation
	}
}

// WithSearchLanguage sets the language searched by SearchVerses
func WithSearchLanguage(lang string) Option {
	return func(c *Client) { c.searchLanguage = lang }
}

// WithTimeout bounds each request. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithStrictAlignment makes content fetches fail when the text and
// translation sequences disagree
func WithStrictAlignment(strict bool) Option {
	return func(c *Client) { c.strict = strict }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		recitationEdition:  config.DefaultRecitationEdition,
		translationEdition: config.DefaultTranslationEdition,
		searchLanguage:     config.DefaultSearchLanguage,
		httpClient:         &http.Client{},
		log:                logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the API section of the config
func NewClientFromConfig(cfg *config.Config, log logger.Logger) *Client {
	return NewClient(cfg.ServerURL,
		WithEditions(cfg.RecitationEdition, cfg.TranslationEdition),
		WithSearchLanguage(cfg.SearchLanguage),
		WithTimeout(cfg.API.Timeout),
		WithStrictAlignment(cfg.StrictAlignment),
		WithLogger(log),
	)
}

// request makes a GET request to the API
func (c *Client) request(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", path, common.ErrNetwork, err)
	}
	return resp, nil
}

// get performs a request and decodes the envelope's data field into T
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.request(ctx, path)
	if err != nil {
		var zero T
		c.log.Warn("api request failed", logger.String("path", path), logger.Error(err))
		return zero, err
	}

	result, err := parseResponse[T](resp, path)
	if err != nil {
		c.log.Warn("api response rejected",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.Error(err))
		return result, err
	}

	c.log.Debug("api request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))
	return result, nil
}

// parseResponse reads the provider envelope and unmarshals its data field
func parseResponse[T any](resp *http.Response, path string) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("read %s: %w: %w", path, common.ErrNetwork, err)
	}

	if err := statusError(resp.StatusCode, path); err != nil {
		return result, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return result, fmt.Errorf("decode %s: %w: %w", path, common.ErrParse, err)
	}
	if env.Code != 0 {
		if err := statusError(env.Code, path); err != nil {
			return result, err
		}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return result, fmt.Errorf("%s: missing data: %w", path, common.ErrParse)
	}

	if err := json.Unmarshal(env.Data, &result); err != nil {
		return result, fmt.Errorf("decode %s data: %w: %w", path, common.ErrParse, err)
	}
	return result, nil
}

func statusError(code int, path string) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, common.ErrNotFound)
	default:
		return fmt.Errorf("%s: HTTP %d: %w", path, code, common.ErrNetwork)
	}
}

// ListChapters returns all 114 chapters
func (c *Client) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	chapters, err := get[[]models.Chapter](ctx, c, "/surah")
	if err != nil {
		return nil, err
	}
	for i, ch := range chapters {
		if ch.Number == 0 || ch.EnglishName == "" {
			return nil, fmt.Errorf("chapter at index %d is incomplete: %w", i, common.ErrParse)
		}
	}
	return chapters, nil
}

// ListParts returns the static juz table
func (c *Client) ListParts() []models.Part {
	return parts.All()
}

// FetchChapterContent returns a chapter and its verses with translation and
// recitation audio. The three provider reads run concurrently and must all
// succeed.
func (c *Client) FetchChapterContent(ctx context.Context, number int) (models.Chapter, []models.Verse, error) {
	if number < 1 || number > models.ChapterCount {
		return models.Chapter{}, nil, fmt.Errorf("chapter %d: %w", number, common.ErrNotFound)
	}

	var (
		meta        chapterDTO
		recitation  editionDTO
		translation editionDTO
	)
	base := "/surah/" + strconv.Itoa(number)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meta, err = get[chapterDTO](gctx, c, base)
		return err
	})
	g.Go(func() (err error) {
		recitation, err = get[editionDTO](gctx, c, base+"/"+c.recitationEdition)
		return err
	})
	g.Go(func() (err error) {
		translation, err = get[editionDTO](gctx, c, base+"/"+c.translationEdition)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Chapter{}, nil, err
	}

	chapter := meta.chapter()
	if chapter.Number != number {
		return models.Chapter{}, nil, fmt.Errorf("asked for chapter %d, got %d: %w", number, chapter.Number, common.ErrParse)
	}

	original, err := recitation.sourceVerses(nil)
	if err != nil {
		return models.Chapter{}, nil, err
	}
	translated, err := translation.sourceVerses(nil)
	if err != nil {
		return models.Chapter{}, nil, err
	}

	verses, err := assembler.Merge(original, translated, assembler.Options{Strict: c.strict})
	if err != nil {
		return models.Chapter{}, nil, fmt.Errorf("chapter %d: %w", number, err)
	}
	return chapter, verses, nil
}

// FetchPartContent returns a juz and its verses, each tagged with the chapter
// it belongs to
func (c *Client) FetchPartContent(ctx context.Context, number int) (models.Part, []models.Verse, error) {
	part, err := parts.Get(number)
	if err != nil {
		return models.Part{}, nil, err
	}

	var recitation, translation editionDTO
	base := "/juz/" + strconv.Itoa(number)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recitation, err = get[editionDTO](gctx, c, base+"/"+c.recitationEdition)
		return err
	})
	g.Go(func() (err error) {
		translation, err = get[editionDTO](gctx, c, base+"/"+c.translationEdition)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Part{}, nil, err
	}

	original, err := recitation.sourceVerses(requireSurah)
	if err != nil {
		return models.Part{}, nil, err
	}
	translated, err := translation.sourceVerses(requireSurah)
	if err != nil {
		return models.Part{}, nil, err
	}

	verses, err := assembler.Merge(original, translated, assembler.Options{Strict: c.strict, WithChapter: true})
	if err != nil {
		return models.Part{}, nil, fmt.Errorf("juz %d: %w", number, err)
	}
	return part, verses, nil
}

// SearchVerses runs a full-text search on the provider. A blank query
// returns no results without touching the network.
func (c *Client) SearchVerses(ctx context.Context, query string) ([]models.Verse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Verse{}, nil
	}

	path := fmt.Sprintf("/search/%s/all/%s", url.PathEscape(query), c.searchLanguage)
	result, err := get[searchDTO](ctx, c, path)
	if errors.Is(err, common.ErrNotFound) {
		// The provider answers 404 when nothing matches
		return []models.Verse{}, nil
	}
	if err != nil {
		return nil, err
	}

	verses := make([]models.Verse, 0, len(result.Matches))
	for i, m := range result.Matches {
		if m.Surah == nil || m.NumberInSurah == 0 {
			return nil, fmt.Errorf("search match %d is incomplete: %w", i, common.ErrParse)
		}
		verses = append(verses, models.Verse{
			Number:        m.NumberInSurah,
			Text:          m.Text,
			ChapterNumber: m.Surah.Number,
			ChapterName:   m.Surah.EnglishName,
		})
	}
	return verses, nil
}

// Health checks if the server is available
func (c *Client) Health(ctx context.Context) error {
	_, err := get[json.RawMessage](ctx, c, "/edition/format/audio")
	return err
}
