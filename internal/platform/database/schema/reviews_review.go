package schema

// ReviewTable represents the 'reviews.review' table
type ReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// Review is the schema definition for reviews.review
var Review = ReviewTable{
	Table:    "reviews.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",
}

func (t ReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}

// UniqueTitleAuthor is the constraint enforcing at most one review per
// (title, author) pair. Stores match on this name to translate the
// violation into a domain validation error.
const UniqueTitleAuthor = "review_unique_title_author"
