package domain

import (
	"context"
	"time"
)

// Category is one of the six content/action types an account accumulates.
type Category string

const (
	CategoryComment  Category = "comments"
	CategoryPost     Category = "posts"
	CategorySaved    Category = "saved"
	CategoryUpvote   Category = "upvotes"
	CategoryDownvote Category = "downvotes"
	CategoryHidden   Category = "hidden"
)

// Categories lists every category in processing order.
var Categories = []Category{
	CategoryComment,
	CategoryPost,
	CategorySaved,
	CategoryUpvote,
	CategoryDownvote,
	CategoryHidden,
}

// Traits describes which operations apply to a category.
type Traits struct {
	Editable   bool   // supports text overwrite before removal
	Scored     bool   // carries karma
	Vote       bool   // archived items are immutable remotely
	RemoveVerb string // what "remove" means for the remote side
}

var traits = map[Category]Traits{
	CategoryComment:  {Editable: true, Scored: true, RemoveVerb: "delete"},
	CategoryPost:     {Editable: true, Scored: true, RemoveVerb: "delete"},
	CategorySaved:    {RemoveVerb: "unsave"},
	CategoryUpvote:   {Vote: true, RemoveVerb: "unvote"},
	CategoryDownvote: {Vote: true, RemoveVerb: "unvote"},
	CategoryHidden:   {RemoveVerb: "unhide"},
}

// TraitsOf returns the trait row for c. Unknown categories get a zero row.
func TraitsOf(c Category) Traits {
	return traits[c]
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	_, ok := traits[c]
	return ok
}

// ContentItem is one piece of user-generated content or one user action.
// ID is the Reddit fullname (t1_/t3_ prefixed), stable and never reused
// across categories.
type ContentItem struct {
	ID              string
	Category        Category
	Subreddit       string
	CreatedAt       time.Time
	Karma           int
	IsGilded        bool
	IsDistinguished bool
	IsArchived      bool
	Body            string // comments only
	Title           string // posts only
}

// Excerpt returns a short log-friendly slice of the item's text.
func (it ContentItem) Excerpt() string {
	text := it.Body
	if it.Category == CategoryPost {
		text = it.Title
	}
	if len(text) > 25 {
		return text[:25] + "..."
	}
	return text
}

// Outcome records what the engine did to an item.
type Outcome struct {
	Action string
	RunID  string
	At     time.Time
}

// ItemSource yields candidate items for one category. A listing is a finite
// snapshot and may omit items that exist remotely; callers must never assume
// exhaustiveness.
type ItemSource interface {
	ListItems(ctx context.Context, category Category) ([]ContentItem, error)
}

// Mutator applies remote changes. Edit is only valid for editable
// categories; Remove maps to delete, unsave, unvote, or unhide depending
// on the category.
type Mutator interface {
	Edit(ctx context.Context, category Category, id, text string) error
	Remove(ctx context.Context, category Category, id string) error
}
