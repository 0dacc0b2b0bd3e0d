package hub

// Item is a single dashboard entry: a titled link with optional subtitle
// and image. Items are never mutated in place; the collection is rewritten
// wholesale on every change.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Link     string `json:"link"`
	Image    string `json:"image"`
}

// ItemInput is the payload for creating a new item. Subtitle and Image are
// optional and default to the empty string.
type ItemInput struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Link     string `json:"link"`
	Image    string `json:"image"`
}

// ValidationError reports a missing required field. Message is safe to
// return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks that the required fields are present.
func (in ItemInput) Validate() error {
	if in.Title == "" || in.Link == "" {
		return &ValidationError{Message: "Title and link required"}
	}
	return nil
}
