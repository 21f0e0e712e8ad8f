package remote

import (
	"context"
	"fmt"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// MutationCall is one recorded remote mutation.
type MutationCall struct {
	Op       string // "edit" or "remove"
	Category domain.Category
	ID       string
	Text     string
}

// MockClient implements the item source and mutator against in-memory
// data. Mutations are recorded, not applied; failures can be scripted
// per item id.
type MockClient struct {
	Items map[domain.Category][]domain.ContentItem
	Calls []MutationCall

	// ListErr makes ListItems fail for a category.
	ListErr map[domain.Category]error

	// failures maps an item id to a queue of errors; each mutation on
	// that id pops one until the queue is empty, then succeeds.
	failures map[string][]error
}

func NewMockClient() *MockClient {
	return &MockClient{
		Items:    make(map[domain.Category][]domain.ContentItem),
		failures: make(map[string][]error),
	}
}

// Seed populates count generated items for a category.
func (mc *MockClient) Seed(category domain.Category, count int) {
	for i := 0; i < count; i++ {
		item := domain.ContentItem{
			ID:        fmt.Sprintf("mock_%s_%d", category, i),
			Category:  category,
			Subreddit: "testsub",
		}
		if category == domain.CategoryComment {
			item.Body = fmt.Sprintf("simulated comment %d", i)
		}
		if category == domain.CategoryPost {
			item.Title = fmt.Sprintf("simulated post %d", i)
		}
		mc.Items[category] = append(mc.Items[category], item)
	}
}

// FailWith scripts errs to be returned, in order, by successive mutations
// on id before it starts succeeding.
func (mc *MockClient) FailWith(id string, errs ...error) {
	mc.failures[id] = append(mc.failures[id], errs...)
}

func (mc *MockClient) ListItems(ctx context.Context, category domain.Category) ([]domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := mc.ListErr[category]; err != nil {
		return nil, err
	}
	return mc.Items[category], nil
}

func (mc *MockClient) Edit(ctx context.Context, category domain.Category, id, text string) error {
	if !domain.TraitsOf(category).Editable {
		panic(fmt.Sprintf("remote: edit on non-editable category %q", category))
	}
	mc.Calls = append(mc.Calls, MutationCall{Op: "edit", Category: category, ID: id, Text: text})
	return mc.popFailure(id)
}

func (mc *MockClient) Remove(ctx context.Context, category domain.Category, id string) error {
	mc.Calls = append(mc.Calls, MutationCall{Op: "remove", Category: category, ID: id})
	return mc.popFailure(id)
}

func (mc *MockClient) popFailure(id string) error {
	queue := mc.failures[id]
	if len(queue) == 0 {
		return nil
	}
	mc.failures[id] = queue[1:]
	return queue[0]
}

// CallsFor filters the recorded mutations down to one item.
func (mc *MockClient) CallsFor(id string) []MutationCall {
	var out []MutationCall
	for _, c := range mc.Calls {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}
