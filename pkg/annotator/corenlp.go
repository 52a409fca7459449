package annotator

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
	"unicode/utf16"

	"github.com/aretw0/tenor/pkg/core"
)

// DefaultCoreNLPURL is where a locally started CoreNLP server listens.
const DefaultCoreNLPURL = "http://localhost:9000"

const corenlpProperties = `{"annotators":"tokenize,ssplit,sentiment","outputFormat":"json"}`

// UpstreamError reports a non-2xx answer from the CoreNLP server.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("corenlp upstream %d: %s", e.Status, e.Body)
}

// Temporary reports whether the server may succeed on a later call.
func (e *UpstreamError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == http.StatusRequestTimeout || e.Status/100 == 5
}

// CoreNLP annotates paragraphs through a Stanford CoreNLP HTTP server.
// The client holds no per-call state and is safe for concurrent use.
type CoreNLP struct {
	url string
	hc  *http.Client
	do  func(*http.Request) (*http.Response, error)
}

// CoreNLPOption configures a CoreNLP client.
type CoreNLPOption func(*CoreNLP)

// WithTimeout sets the per-request client timeout. Defaults to 60 seconds.
func WithTimeout(d time.Duration) CoreNLPOption {
	return func(c *CoreNLP) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) CoreNLPOption {
	return func(c *CoreNLP) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// NewCoreNLP builds a client for the server at baseURL.
func NewCoreNLP(baseURL string, opts ...CoreNLPOption) (*CoreNLP, error) {
	if baseURL == "" {
		baseURL = DefaultCoreNLPURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("corenlp: invalid server url %q", baseURL)
	}
	q := u.Query()
	q.Set("properties", corenlpProperties)
	u.RawQuery = q.Encode()
	if u.Path == "" {
		u.Path = "/"
	}

	c := &CoreNLP{
		url: u.String(),
		hc:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.do = c.hc.Do
	return c, nil
}

// Concurrency reports that the HTTP client needs no guard.
func (c *CoreNLP) Concurrency() core.Concurrency { return core.Reentrant }

type corenlpResponse struct {
	Sentences []corenlpSentence `json:"sentences"`
}

type corenlpSentence struct {
	Index          int            `json:"index"`
	Sentiment      string         `json:"sentiment"`
	SentimentValue string         `json:"sentimentValue"`
	Tokens         []corenlpToken `json:"tokens"`
}

type corenlpToken struct {
	Word  string `json:"word"`
	Begin int    `json:"characterOffsetBegin"`
	End   int    `json:"characterOffsetEnd"`
}

// Annotate implements core.Annotator.
func (c *CoreNLP) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	if strings.TrimSpace(paragraph) == "" {
		return []core.SentenceResult{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(paragraph))
	if err != nil {
		return nil, fmt.Errorf("corenlp: new request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("corenlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(slurp))}
	}

	var body corenlpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &core.AnnotationError{Sentence: -1, Reason: "decode corenlp response", Err: err}
	}
	return sentencesFromCoreNLP(paragraph, body.Sentences)
}

// sentencesFromCoreNLP rebuilds sentence text from token offsets. CoreNLP
// counts offsets in UTF-16 code units.
func sentencesFromCoreNLP(paragraph string, sentences []corenlpSentence) ([]core.SentenceResult, error) {
	units := utf16.Encode([]rune(paragraph))
	out := make([]core.SentenceResult, 0, len(sentences))
	for i, s := range sentences {
		if len(s.Tokens) == 0 {
			return nil, &core.AnnotationError{Sentence: i, Reason: "sentence has no tokens"}
		}
		begin, end := s.Tokens[0].Begin, s.Tokens[len(s.Tokens)-1].End
		if begin < 0 || end > len(units) || begin >= end {
			return nil, &core.AnnotationError{Sentence: i, Reason: fmt.Sprintf("token offsets [%d,%d) outside paragraph", begin, end)}
		}
		label, err := corenlpLabel(s)
		if err != nil {
			return nil, &core.AnnotationError{Sentence: i, Reason: err.Error()}
		}
		out = append(out, core.SentenceResult{
			Text:  string(utf16.Decode(units[begin:end])),
			Label: label,
		})
	}
	if len(out) == 0 {
		return nil, &core.AnnotationError{Sentence: -1, Reason: "corenlp returned no sentences"}
	}
	return out, nil
}

func corenlpLabel(s corenlpSentence) (core.SentimentLabel, error) {
	if s.Sentiment == "" && s.SentimentValue == "" {
		return "", errors.New("sentence has no sentiment")
	}
	if label, ok := core.ParseLabel(s.Sentiment); ok {
		return label, nil
	}
	if v, err := strconv.Atoi(s.SentimentValue); err == nil {
		if label, ok := core.ParseLabel(strconv.Itoa(v)); ok {
			return label, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", s.Sentiment)
}
