package question

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrPackNotFound is returned when no pack document exists under a name.
	ErrPackNotFound = errors.New("pack not found")
	// ErrInvalidPack is returned for documents that fail schema validation.
	ErrInvalidPack = errors.New("invalid pack document")
)

// SamplePack is the name of the bundled pack.
const SamplePack = "sample"

const maxPackBytes = 4 << 20

//go:embed packs/*.json
var bundledPacks embed.FS

// Document is an unnormalised pack as loaded from storage.
type Document struct {
	Name       string
	Version    string
	Title      string
	Difficulty string
	Questions  []RawQuestion
}

// Loader fetches pack documents over HTTP, or from the bundled set when no
// base URL is configured.
type Loader struct {
	baseURL    string
	httpClient *http.Client
	validator  *Validator
	bundled    fs.FS
}

func NewLoader(baseURL string, httpClient *http.Client, validator *Validator) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Loader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		validator:  validator,
		bundled:    bundledPacks,
	}
}

// Load fetches, validates and parses the named pack.
func (l *Loader) Load(ctx context.Context, name string) (Document, error) {
	if !validPackName(name) {
		return Document{}, fmt.Errorf("%w: %q", ErrPackNotFound, name)
	}

	var (
		body []byte
		err  error
	)
	if l.baseURL == "" {
		body, err = fs.ReadFile(l.bundled, "packs/"+name+".json")
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %q", ErrPackNotFound, name)
		}
	} else {
		body, err = l.fetch(ctx, name)
	}
	if err != nil {
		return Document{}, err
	}

	if l.validator != nil {
		if err := l.validator.Validate(body); err != nil {
			return Document{}, fmt.Errorf("pack %q: %w", name, err)
		}
	}
	return parseDocument(name, body)
}

func (l *Loader) fetch(ctx context.Context, name string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s.json", l.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", ErrPackNotFound, name)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pack source non-200: %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPackBytes))
}

// parseDocument accepts a bare array of questions or an object holding
// them. Each question is tagged with the pack name unless it already
// carries one.
func parseDocument(name string, body []byte) (Document, error) {
	root := gjson.ParseBytes(body)
	doc := Document{Name: name}

	questions := root
	if root.IsObject() {
		doc.Version = root.Get("version").String()
		doc.Title = root.Get("title").String()
		doc.Difficulty = root.Get("difficulty").String()
		questions = root.Get("questions")
	}
	if !questions.IsArray() {
		return Document{}, fmt.Errorf("%w: no questions in %q", ErrInvalidPack, name)
	}

	for _, item := range questions.Array() {
		raw := []byte(item.Raw)
		if item.IsObject() && !item.Get("_pack").Exists() {
			tagged, err := sjson.SetBytes(raw, "_pack", name)
			if err != nil {
				return Document{}, fmt.Errorf("tag question: %w", err)
			}
			raw = tagged
		}
		doc.Questions = append(doc.Questions, RawQuestion(raw))
	}
	return doc, nil
}

func validPackName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
