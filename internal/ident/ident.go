// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident classifies bibliographic identifiers (arXiv IDs, DOIs,
// plain URLs) and normalizes them for matching and display. It is shared
// by the source adapters, which canonicalize identifiers embedded in
// result URLs, and by the artifact matcher, which compares identifier
// slugs against downloaded filenames.
package ident

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

const (
	arxivAbsBase = "https://arxiv.org/abs/"
	doiBase      = "https://doi.org/"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// arxivURLPattern matches abstract and PDF URLs on arxiv.org. The version
// suffix is excluded from the capture so that revisions of the same paper
// normalize to one ID.
var arxivURLPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5})(?:v\d+)?`)

// Classify determines the identifier type and returns the normalized form.
// For arXiv, it strips the optional "arXiv:" prefix.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if doiPattern.MatchString(identifier) {
		return TypeDOI, identifier
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// FromURL extracts an identifier embedded in a landing-page URL. It
// recognizes arxiv.org abstract/PDF links and doi.org resolver links;
// anything else is TypeUnknown with an empty normalized form.
func FromURL(rawURL string) (IdentifierType, string) {
	if m := arxivURLPattern.FindStringSubmatch(rawURL); m != nil {
		return TypeArxiv, m[1]
	}
	if i := strings.Index(rawURL, "doi.org/"); i >= 0 {
		candidate := strings.TrimSuffix(rawURL[i+len("doi.org/"):], "/")
		if doiPattern.MatchString(candidate) {
			return TypeDOI, candidate
		}
	}
	return TypeUnknown, ""
}

// Slug returns a filesystem-safe form of the identifier, the shape it
// takes when embedded in a downloaded artifact's filename.
func Slug(idType IdentifierType, normalized string) string {
	switch idType {
	case TypeArxiv:
		return normalized
	case TypeDOI:
		return strings.NewReplacer("/", "-", ":", "-").Replace(normalized)
	case TypeURL:
		u, err := url.Parse(normalized)
		if err != nil {
			return urlHashSlug(normalized)
		}
		base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			return urlHashSlug(normalized)
		}
		return base
	default:
		return "unknown"
	}
}

// URLFor returns the canonical landing URL for the identifier. For arXiv,
// this is the arxiv.org abstract page. For DOI, this is the doi.org
// resolver. For direct URLs, it returns as-is.
func URLFor(idType IdentifierType, normalized string) string {
	switch idType {
	case TypeArxiv:
		return arxivAbsBase + normalized
	case TypeDOI:
		return doiBase + normalized
	case TypeURL:
		return normalized
	default:
		return ""
	}
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}
