package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestArchive_Comments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "comments.csv",
		"id,permalink,date,ip,subreddit,gildings,link,parent,body\n"+
			"abc123,/r/golang/1,2020-05-01 13:12:11 UTC,127.0.0.1,golang,0,x,y,hello there\n"+
			"def456,/r/aww/2,2021-06-02 08:00:00 UTC,127.0.0.1,aww,1,x,y,cute\n")

	items, err := NewArchive(dir).ListItems(context.Background(), domain.CategoryComment)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "t1_abc123", items[0].ID)
	assert.Equal(t, domain.CategoryComment, items[0].Category)
	assert.Equal(t, "golang", items[0].Subreddit)
	assert.Equal(t, "hello there", items[0].Body)
	assert.Equal(t, time.Date(2020, 5, 1, 13, 12, 11, 0, time.UTC), items[0].CreatedAt)
	assert.False(t, items[0].IsGilded)

	assert.Equal(t, "t1_def456", items[1].ID)
	assert.True(t, items[1].IsGilded)
}

func TestArchive_BOMAndBadRowsAreTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts.csv",
		"\uFEFFid,permalink,date,ip,subreddit,gildings,title,url,body\n"+
			",missing-id-row,,,,,,,\n"+
			"p1,/r/golang/9,2022-01-01 00:00:00 UTC,ip,golang,0,my title,u,my body\n")

	items, err := NewArchive(dir).ListItems(context.Background(), domain.CategoryPost)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t3_p1", items[0].ID)
	assert.Equal(t, "my title", items[0].Title)
}

func TestArchive_SavedMergesCommentsAndPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "saved_comments.csv", "id,permalink\nsc1,/x\n")
	writeFile(t, dir, "saved_posts.csv", "id,permalink\nsp1,/y\n")

	items, err := NewArchive(dir).ListItems(context.Background(), domain.CategorySaved)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t1_sc1", items[0].ID)
	assert.Equal(t, "t3_sp1", items[1].ID)
	assert.Equal(t, domain.CategorySaved, items[1].Category)
}

func TestArchive_VotesSplitByDirection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post_votes.csv",
		"id,permalink,direction\nv1,/a,up\nv2,/b,down\nv3,/c,none\nv4,/d,up\n")

	arch := NewArchive(dir)

	ups, err := arch.ListItems(context.Background(), domain.CategoryUpvote)
	require.NoError(t, err)
	require.Len(t, ups, 2)
	assert.Equal(t, "t3_v1", ups[0].ID)
	assert.Equal(t, "t3_v4", ups[1].ID)

	downs, err := arch.ListItems(context.Background(), domain.CategoryDownvote)
	require.NoError(t, err)
	require.Len(t, downs, 1)
	assert.Equal(t, "t3_v2", downs[0].ID)
	assert.Equal(t, domain.CategoryDownvote, downs[0].Category)
}

func TestArchive_MissingFilesMeanEmptyListing(t *testing.T) {
	arch := NewArchive(t.TempDir())
	for _, cat := range domain.Categories {
		items, err := arch.ListItems(context.Background(), cat)
		require.NoError(t, err)
		assert.Empty(t, items, string(cat))
	}
}
