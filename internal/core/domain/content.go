package domain

import "time"

// Post is a read-only snapshot of a content item as seen by the search
// subsystem. Post CRUD lives elsewhere; this module only consumes it.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorName string    `json:"author_name"`
	Type       string    `json:"type"`
	Labels     []string  `json:"labels,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IndexableText builds the text that gets chunked and embedded for a post.
func (p *Post) IndexableText() string {
	return p.Title + "\n\n" + p.Body
}

// SnippetLength is the maximum length of a result snippet.
const SnippetLength = 200

// Snippet truncates body text for display in a search result.
func Snippet(body string) string {
	if len(body) <= SnippetLength {
		return body
	}
	return body[:SnippetLength] + "..."
}
