package domain

// CandidateArticle is a single normalized hit from the news search provider.
// Missing provider fields default to the empty string.
type CandidateArticle struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishedAt string `json:"date"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// EnrichedArticle is a candidate article plus its summary. Processed is false
// when the summary is a fallback (the raw snippet or a placeholder) rather
// than an actual summarization output.
type EnrichedArticle struct {
	CandidateArticle
	Summary   string `json:"summary"`
	Processed bool   `json:"processed"`
}

// DocumentText builds the text that gets embedded and stored for an article.
// The summary is preferred; the snippet stands in when enrichment produced
// nothing at all.
func (a EnrichedArticle) DocumentText() string {
	body := a.Summary
	if body == "" {
		body = a.Snippet
	}
	return a.Title + " " + body
}

// ArticleMetadata is the per-record metadata persisted alongside a document
// and returned with retrieval hits.
type ArticleMetadata struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// RetrievedRecord is a nearest-neighbour hit. Lower distance means more
// similar. Ephemeral, never persisted.
type RetrievedRecord struct {
	Document string
	Metadata ArticleMetadata
	Distance float64
}
