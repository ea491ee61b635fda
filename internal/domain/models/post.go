package model

import "strconv"

type Post struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// InputError describes input that did not resolve to a row.
type InputError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Received string `json:"received"`
}

// DraftOutcome is the result of a mutation addressing a post by id.
// It is either a *Post or an *InputError, never both.
type DraftOutcome interface {
	draftOutcome()
}

func (*Post) draftOutcome()       {}
func (*InputError) draftOutcome() {}

func DraftNotFound(id int64) *InputError {
	received := strconv.FormatInt(id, 10)
	return &InputError{
		Field:    "id",
		Message:  "Did not find draft post with id `" + received + "`",
		Received: received,
	}
}
