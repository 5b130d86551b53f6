package models

// Post is the normalized representation of one blog post.
// Field names follow the JSON contract consumed by the frontend.
type Post struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Excerpt        string   `json:"excerpt,omitempty"`
	Content        string   `json:"content"`
	PublishedDate  string   `json:"publishedDate"`
	LastEditedDate string   `json:"lastEditedDate"`
	Tags           []string `json:"tags"`
	Author         string   `json:"author,omitempty"`
	CoverImage     string   `json:"coverImage,omitempty"`
	Published      bool     `json:"published"`
}

// PostListResponse is the list payload. Listing is single-shot, so HasMore
// is always false and NextCursor is never set.
type PostListResponse struct {
	Posts      []Post  `json:"posts"`
	HasMore    bool    `json:"hasMore"`
	NextCursor *string `json:"nextCursor,omitempty"`
}
