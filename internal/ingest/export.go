// Package ingest reads a Reddit GDPR data-export archive into candidate
// items. The export sees everything the live listings truncate, which
// makes it the better source for old accounts.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// Archive is an ItemSource over the unzipped export directory.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

func (a *Archive) ListItems(ctx context.Context, category domain.Category) ([]domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch category {
	case domain.CategoryComment:
		return a.readFile("comments.csv", category, "t1_")
	case domain.CategoryPost:
		return a.readFile("posts.csv", category, "t3_")
	case domain.CategorySaved:
		comments, err := a.readFile("saved_comments.csv", category, "t1_")
		if err != nil {
			return nil, err
		}
		posts, err := a.readFile("saved_posts.csv", category, "t3_")
		if err != nil {
			return nil, err
		}
		return append(comments, posts...), nil
	case domain.CategoryUpvote:
		return a.readVotes("up")
	case domain.CategoryDownvote:
		return a.readVotes("down")
	case domain.CategoryHidden:
		return a.readFile("hidden_posts.csv", category, "t3_")
	}
	return nil, nil
}

// readFile parses one export CSV. Rows that cannot be read are skipped
// rather than failing the whole listing (fail-soft, like any partially
// corrupted export).
func (a *Archive) readFile(name string, category domain.Category, fullnamePrefix string) ([]domain.ContentItem, error) {
	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // category absent from this export
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	cols, err := headerIndex(r)
	if err != nil {
		return nil, nil
	}

	var items []domain.ContentItem
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id := strings.TrimSpace(field(rec, cols, "id"))
		if id == "" {
			continue
		}
		items = append(items, domain.ContentItem{
			ID:        fullnamePrefix + id,
			Category:  category,
			Subreddit: field(rec, cols, "subreddit"),
			CreatedAt: parseExportDate(field(rec, cols, "date")),
			IsGilded:  field(rec, cols, "gildings") != "" && field(rec, cols, "gildings") != "0",
			Body:      field(rec, cols, "body"),
			Title:     field(rec, cols, "title"),
		})
	}
	return items, nil
}

// readVotes splits post_votes.csv by direction. "none" rows are votes the
// user already withdrew.
func (a *Archive) readVotes(direction string) ([]domain.ContentItem, error) {
	category := domain.CategoryUpvote
	if direction == "down" {
		category = domain.CategoryDownvote
	}

	f, err := os.Open(filepath.Join(a.dir, "post_votes.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	cols, err := headerIndex(r)
	if err != nil {
		return nil, nil
	}

	var items []domain.ContentItem
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(field(rec, cols, "direction")), direction) {
			continue
		}
		id := strings.TrimSpace(field(rec, cols, "id"))
		if id == "" {
			continue
		}
		items = append(items, domain.ContentItem{
			ID:       "t3_" + id,
			Category: category,
		})
	}
	return items, nil
}

func headerIndex(r *csv.Reader) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Export timestamps look like "2020-05-01 13:12:11 UTC".
func parseExportDate(s string) time.Time {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), " UTC"))
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rn, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rn != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
