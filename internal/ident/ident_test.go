// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ident

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType IdentifierType
		wantNorm string
	}{
		// Positive: arXiv IDs in all accepted spellings.
		{"bare arxiv id", "2301.07041", TypeArxiv, "2301.07041"},
		{"prefixed arxiv id", "arXiv:2301.07041", TypeArxiv, "2301.07041"},
		{"versioned arxiv id", "2301.07041v2", TypeArxiv, "2301.07041v2"},
		{"five digit arxiv id", "2412.12345", TypeArxiv, "2412.12345"},

		// Positive: DOIs.
		{"conference doi", "10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"journal doi", "10.1038/s41586-021-03372-y", TypeDOI, "10.1038/s41586-021-03372-y"},

		// Positive: direct URLs.
		{"https url", "https://example.org/paper.pdf", TypeURL, "https://example.org/paper.pdf"},
		{"http url", "http://example.org/paper.pdf", TypeURL, "http://example.org/paper.pdf"},

		// Negative: malformed or ambiguous inputs.
		{"doi missing suffix", "10.1145/", TypeUnknown, "10.1145/"},
		{"short registrant", "10.1/abc", TypeUnknown, "10.1/abc"},
		{"ftp url", "ftp://example.org/paper.pdf", TypeUnknown, "ftp://example.org/paper.pdf"},
		{"free text", "hello-world", TypeUnknown, "hello-world"},
		{"empty string", "", TypeUnknown, ""},

		// Whitespace handling.
		{"padded arxiv id", "  2301.07041  ", TypeArxiv, "2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := Classify(tt.input)
			if gotType != tt.wantType {
				t.Errorf("Classify(%q) type = %v, want %v", tt.input, gotType, tt.wantType)
			}
			if gotNorm != tt.wantNorm {
				t.Errorf("Classify(%q) norm = %q, want %q", tt.input, gotNorm, tt.wantNorm)
			}
		})
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType IdentifierType
		wantNorm string
	}{
		{"arxiv abs", "http://arxiv.org/abs/2301.07041", TypeArxiv, "2301.07041"},
		{"arxiv abs versioned", "http://arxiv.org/abs/2301.07041v3", TypeArxiv, "2301.07041"},
		{"arxiv pdf", "https://arxiv.org/pdf/2301.07041v1", TypeArxiv, "2301.07041"},
		{"doi resolver", "https://doi.org/10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"doi resolver trailing slash", "https://doi.org/10.1038/nature12373/", TypeDOI, "10.1038/nature12373"},
		{"plain landing page", "https://pubmed.ncbi.nlm.nih.gov/12345678/", TypeUnknown, ""},
		{"empty", "", TypeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := FromURL(tt.input)
			if gotType != tt.wantType {
				t.Errorf("FromURL(%q) type = %v, want %v", tt.input, gotType, tt.wantType)
			}
			if gotNorm != tt.wantNorm {
				t.Errorf("FromURL(%q) norm = %q, want %q", tt.input, gotNorm, tt.wantNorm)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		idType   IdentifierType
		norm     string
		wantSlug string
	}{
		{"arxiv passes through", TypeArxiv, "2301.07041", "2301.07041"},
		{"doi slashes flattened", TypeDOI, "10.1145/1234567.1234568", "10.1145-1234567.1234568"},
		{"url uses basename", TypeURL, "https://example.org/papers/smith2021.pdf", "smith2021"},
		{"url without path hashes", TypeURL, "https://example.org/", urlHashSlug("https://example.org/")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.idType, tt.norm)
			if got != tt.wantSlug {
				t.Errorf("Slug(%v, %q) = %q, want %q", tt.idType, tt.norm, got, tt.wantSlug)
			}
		})
	}
}

func TestURLFor(t *testing.T) {
	tests := []struct {
		name    string
		idType  IdentifierType
		norm    string
		wantURL string
	}{
		{"arxiv abstract page", TypeArxiv, "2301.07041", "https://arxiv.org/abs/2301.07041"},
		{"doi resolver", TypeDOI, "10.1145/1234567.1234568", "https://doi.org/10.1145/1234567.1234568"},
		{"url as-is", TypeURL, "https://example.org/paper.pdf", "https://example.org/paper.pdf"},
		{"unknown empty", TypeUnknown, "whatever", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := URLFor(tt.idType, tt.norm)
			if got != tt.wantURL {
				t.Errorf("URLFor(%v, %q) = %q, want %q", tt.idType, tt.norm, got, tt.wantURL)
			}
		})
	}
}
