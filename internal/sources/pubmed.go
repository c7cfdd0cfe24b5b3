// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/academic"
	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// NCBI E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubmedESearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedEFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	// pubmedAPICeiling is the E-utilities retmax limit we stay under.
	pubmedAPICeiling = 100
	// maxPubMedAuthors bounds the author list taken from citation XML.
	maxPubMedAuthors = 10
)

// PubMedAdapter covers PubMed. The primary technique is the official
// E-utilities API, a two step ESearch (PMIDs) then EFetch (citation XML)
// exchange; web-search fallbacks cover the API being down or rate limited.
type PubMedAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	APIKey string
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *PubMedAdapter) Name() string { return "pubmed" }

// Search runs the PubMed technique chain.
func (a *PubMedAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "pubmed_api", fn: a.api},
		{tag: "duckduckgo_pubmed", fn: a.viaWeb},
		{tag: "nih_sites", fn: a.viaNIH},
	})
}

func (a *PubMedAdapter) api(ctx context.Context, terms []string) ([]types.Record, error) {
	pmids, err := a.esearch(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return nil, nil
	}
	return a.efetch(ctx, pmids)
}

// esearch resolves terms to PMIDs. Each term is quoted and ANDed, which
// keeps E-utilities from exploding multi-word terms into separate clauses.
func (a *PubMedAdapter) esearch(ctx context.Context, terms []string) ([]string, error) {
	quoted := make([]string, 0, 5)
	for _, term := range firstN(terms, 5) {
		quoted = append(quoted, `"`+term+`"`)
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {strings.Join(quoted, " AND ")},
		"retmax":  {strconv.Itoa(capResults(a.Max, pubmedAPICeiling))},
		"retmode": {"json"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	resp, err := get(ctx, a.Client, a.Polite, pubmedESearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed esearch returned HTTP %d", resp.StatusCode)
	}

	var sr pubmedESearchResult
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return sr.ESearchResult.IDList, nil
}

func (a *PubMedAdapter) efetch(ctx context.Context, pmids []string) ([]types.Record, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	resp, err := get(ctx, a.Client, a.Polite, pubmedEFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	var records []types.Record
	for _, pa := range set.Articles {
		if rec, ok := pubmedRecord(pa); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *PubMedAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "pubmed.ncbi.nlm.nih.gov", firstN(terms, 3), false)
}

func (a *PubMedAdapter) viaNIH(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "nih.gov", firstN(terms, 3), false)
}

// pubmedRecord converts one citation into a record, dropping entries that
// fail structural validation.
func pubmedRecord(pa pubmedArticle) (types.Record, bool) {
	title := collapseSpace(pa.Title)
	year := pa.year()
	if !academic.ValidRecord(title, year) {
		return types.Record{}, false
	}

	rec := types.Record{
		Title:    title,
		Authors:  pubmedAuthorString(pa.Authors),
		Abstract: capRunes(collapseSpace(strings.Join(pa.Abstract, " ")), maxAbstractAPI),
		Year:     year,
		DOI:      pa.doi(),
	}
	if pa.PMID != "" {
		rec.URL = "https://pubmed.ncbi.nlm.nih.gov/" + pa.PMID + "/"
	}
	return rec, true
}

func pubmedAuthorString(authors []pubmedAuthor) string {
	var names []string
	for _, au := range authors {
		if au.LastName == "" {
			continue
		}
		name := au.LastName
		if au.ForeName != "" {
			name = au.ForeName + " " + au.LastName
		}
		names = append(names, name)
		if len(names) == maxPubMedAuthors {
			break
		}
	}
	if len(names) == 0 {
		return types.UnknownAuthors
	}
	return strings.Join(names, ", ")
}

// PubMed E-utilities wire structures.
type pubmedESearchResult struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID        string            `xml:"MedlineCitation>PMID"`
	Title       string            `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract    []string          `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors     []pubmedAuthor    `xml:"MedlineCitation>Article>AuthorList>Author"`
	PubYear     string            `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	MedlineDate string            `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>MedlineDate"`
	ArticleYear string            `xml:"MedlineCitation>Article>ArticleDate>Year"`
	IDs         []pubmedArticleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type pubmedArticleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

var fourDigitYear = regexp.MustCompile(`\d{4}`)

// year tries the citation's date fields in order of reliability. The
// MedlineDate form is free text ("1998 Jan-Feb"), so the first four-digit
// run is taken.
func (pa pubmedArticle) year() int {
	for _, field := range []string{pa.PubYear, pa.MedlineDate, pa.ArticleYear} {
		if m := fourDigitYear.FindString(field); m != "" {
			if y, err := strconv.Atoi(m); err == nil {
				return y
			}
		}
	}
	return 0
}

func (pa pubmedArticle) doi() string {
	for _, id := range pa.IDs {
		if id.Type == "doi" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}
