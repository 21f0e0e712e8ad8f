package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// APIClient is the live implementation of both the item source and the
// mutator, on top of the authenticated Reddit API.
type APIClient struct {
	client   *reddit.Client
	limiter  *rate.Limiter
	username string
}

func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter, username: user}, nil
}

// Reddit truncates user listings around 1000 entries; repeated runs with
// the ledger pick up what one pass cannot see.
const pageLimit = 100

var listingPath = map[domain.Category]string{
	domain.CategoryComment:  "comments",
	domain.CategoryPost:     "submitted",
	domain.CategorySaved:    "saved",
	domain.CategoryUpvote:   "upvoted",
	domain.CategoryDownvote: "downvoted",
	domain.CategoryHidden:   "hidden",
}

// listingEnvelope mirrors the raw /user/{name}/* JSON. The typed client
// structs drop gilded/distinguished/archived, which the retention rules
// need, so listings decode into our own shape.
type listingEnvelope struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string    `json:"kind"`
			Data thingData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type thingData struct {
	Name          string  `json:"name"` // fullname, e.g. t1_abc123
	Subreddit     string  `json:"subreddit"`
	CreatedUTC    float64 `json:"created_utc"`
	Score         int     `json:"score"`
	Gilded        int     `json:"gilded"`
	Distinguished string  `json:"distinguished"`
	Archived      bool    `json:"archived"`
	Body          string  `json:"body"`
	Title         string  `json:"title"`
}

func (ac *APIClient) ListItems(ctx context.Context, category domain.Category) ([]domain.ContentItem, error) {
	suffix, ok := listingPath[category]
	if !ok {
		return nil, fmt.Errorf("no listing endpoint for category %q", category)
	}

	var items []domain.ContentItem
	after := ""
	for {
		if err := ac.limiter.Wait(ctx); err != nil {
			return items, classify(err)
		}

		q := url.Values{}
		q.Set("limit", fmt.Sprint(pageLimit))
		q.Set("raw_json", "1")
		if after != "" {
			q.Set("after", after)
		}
		path := fmt.Sprintf("user/%s/%s?%s", ac.username, suffix, q.Encode())

		req, err := ac.client.NewRequest("GET", path, nil)
		if err != nil {
			return items, err
		}
		var env listingEnvelope
		if _, err := ac.client.Do(ctx, req, &env); err != nil {
			return items, classify(err)
		}

		for _, child := range env.Data.Children {
			d := child.Data
			items = append(items, domain.ContentItem{
				ID:              d.Name,
				Category:        category,
				Subreddit:       d.Subreddit,
				CreatedAt:       time.Unix(int64(d.CreatedUTC), 0).UTC(),
				Karma:           d.Score,
				IsGilded:        d.Gilded > 0,
				IsDistinguished: d.Distinguished != "",
				IsArchived:      d.Archived,
				Body:            d.Body,
				Title:           d.Title,
			})
		}

		after = env.Data.After
		if after == "" || len(env.Data.Children) == 0 {
			return items, nil
		}
	}
}

// Edit overwrites the text of a comment or post. Calling it for any other
// category is a programming error.
func (ac *APIClient) Edit(ctx context.Context, category domain.Category, id, text string) error {
	if !domain.TraitsOf(category).Editable {
		panic(fmt.Sprintf("remote: edit on non-editable category %q", category))
	}
	if err := ac.limiter.Wait(ctx); err != nil {
		return classify(err)
	}
	var err error
	switch category {
	case domain.CategoryComment:
		_, _, err = ac.client.Comment.Edit(ctx, id, text)
	case domain.CategoryPost:
		_, _, err = ac.client.Post.Edit(ctx, id, text)
	}
	return classify(err)
}

// Remove deletes comments and posts, and un-saves, un-votes, or un-hides
// the rest.
func (ac *APIClient) Remove(ctx context.Context, category domain.Category, id string) error {
	if err := ac.limiter.Wait(ctx); err != nil {
		return classify(err)
	}
	var err error
	switch category {
	case domain.CategoryComment:
		_, err = ac.client.Comment.Delete(ctx, id)
	case domain.CategoryPost:
		_, err = ac.client.Post.Delete(ctx, id)
	case domain.CategorySaved:
		_, err = ac.client.Post.Unsave(ctx, id)
	case domain.CategoryUpvote, domain.CategoryDownvote:
		_, err = ac.client.Post.RemoveVote(ctx, id)
	case domain.CategoryHidden:
		_, err = ac.client.Post.Unhide(ctx, id)
	default:
		return fmt.Errorf("no remove operation for category %q", category)
	}
	return classify(err)
}
