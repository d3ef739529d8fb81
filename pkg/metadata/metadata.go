//go:generate mockgen -destination=mocks/metadata.go . Parser

// Package metadata pulls the display file name and checksum out of a mod file's
// HTML metadata page.
package metadata

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/glorpus-work/modsync/pkg/checksum"
	"github.com/glorpus-work/modsync/pkg/errors"
)

// Default CSS selectors for the metadata page layout.
const (
	DefaultFilenameSelector = ".info-data.overflow-tip"
	DefaultChecksumSelector = ".md5"
)

// Metadata describes one remote mod file.
type Metadata struct {
	DisplayName string
	Checksum    string // lowercase hex MD5
	SourceURL   string
}

// Parser turns a metadata page into Metadata.
type Parser interface {
	Extract(html []byte) (Metadata, error)
}

// Selectors locate the two nodes the extractor reads.
type Selectors struct {
	Filename string
	Checksum string
}

// DefaultSelectors returns the selectors matching the current page layout.
func DefaultSelectors() Selectors {
	return Selectors{Filename: DefaultFilenameSelector, Checksum: DefaultChecksumSelector}
}

// Extractor implements Parser with CSS selectors.
type Extractor struct {
	selectors Selectors
}

// NewExtractor creates an extractor. Empty selectors fall back to the defaults.
func NewExtractor(selectors Selectors) *Extractor {
	if selectors.Filename == "" {
		selectors.Filename = DefaultFilenameSelector
	}
	if selectors.Checksum == "" {
		selectors.Checksum = DefaultChecksumSelector
	}
	return &Extractor{selectors: selectors}
}

// Extract parses html and returns the file name and checksum. It fails with
// errors.ErrMetadataNotFound when either node is missing or unusable; it never
// substitutes a default.
func (e *Extractor) Extract(html []byte) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Metadata{}, errors.Classify(errors.ErrMetadataNotFound, errors.Wrap(err, "failed to parse HTML"))
	}

	name, err := firstText(doc, e.selectors.Filename, "file name")
	if err != nil {
		return Metadata{}, err
	}
	sum, err := firstText(doc, e.selectors.Checksum, "checksum")
	if err != nil {
		return Metadata{}, err
	}
	if !checksum.IsHex(sum) {
		return Metadata{}, errors.Wrapf(errors.ErrMetadataNotFound, "checksum %q is not an md5 digest", sum)
	}

	return Metadata{
		DisplayName: name,
		Checksum:    checksum.Normalize(sum),
	}, nil
}

// firstText returns the trimmed text of the first node matching selector.
func firstText(doc *goquery.Document, selector, what string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", errors.Wrapf(errors.ErrMetadataNotFound, "no %s element matches %q", what, selector)
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", errors.Wrapf(errors.ErrMetadataNotFound, "%s element %q is empty", what, selector)
	}
	return text, nil
}
