package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/errors"
	"github.com/muthakira-dev/muthakira/internal/storage/jsondb"
)

func newCommentFixture(t *testing.T) (CommentService, CommentStore) {
	t.Helper()
	store, err := jsondb.NewCollection(filepath.Join(t.TempDir(), "comments.json"),
		func() domain.CommentThreads { return domain.CommentThreads{} })
	require.NoError(t, err)
	return NewComment(store), store
}

func TestCommentAdd(t *testing.T) {
	t.Run("appends with generated id and timestamp", func(t *testing.T) {
		svc, store := newCommentFixture(t)

		comment, err := svc.Add("file-1", "خالد", "شرح ممتاز")

		require.NoError(t, err)
		assert.NotEmpty(t, comment.Id)
		assert.False(t, comment.CreatedAt.IsZero())
		assert.Equal(t, "شرح ممتاز", comment.Text)

		threads := store.Read()
		require.Len(t, threads["file-1"], 1)
		assert.Equal(t, comment.Id, threads["file-1"][0].Id)
	})

	t.Run("empty text is rejected with no side effect", func(t *testing.T) {
		svc, store := newCommentFixture(t)

		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := svc.Add("file-1", "خالد", text)

			var statusErr *errors.ErrorWithStatusCode
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, 400, statusErr.StatusCode)
		}
		assert.Empty(t, store.Read())
	})

	t.Run("html is stripped from text and name", func(t *testing.T) {
		svc, _ := newCommentFixture(t)

		comment, err := svc.Add("file-1", "<b>خالد</b>", "<script>alert(1)</script>تعليق")

		require.NoError(t, err)
		assert.Equal(t, "خالد", comment.Name)
		assert.Equal(t, "تعليق", comment.Text)
	})

	t.Run("missing name defaults", func(t *testing.T) {
		svc, _ := newCommentFixture(t)

		comment, err := svc.Add("file-1", "  ", "نص")

		require.NoError(t, err)
		assert.Equal(t, "مستخدم", comment.Name)
	})

	t.Run("unknown file id is accepted", func(t *testing.T) {
		svc, store := newCommentFixture(t)

		_, err := svc.Add("never-uploaded", "زائر", "تعليق يتيم")

		require.NoError(t, err)
		assert.Len(t, store.Read()["never-uploaded"], 1)
	})
}

func TestCommentList(t *testing.T) {
	t.Run("returns thread in append order", func(t *testing.T) {
		svc, _ := newCommentFixture(t)

		first, err := svc.Add("file-1", "أ", "الأول")
		require.NoError(t, err)
		second, err := svc.Add("file-1", "ب", "الثاني")
		require.NoError(t, err)
		_, err = svc.Add("file-2", "ج", "ملف آخر")
		require.NoError(t, err)

		got := svc.List("file-1")

		require.Len(t, got, 2)
		assert.Equal(t, first.Id, got[0].Id)
		assert.Equal(t, second.Id, got[1].Id)
	})

	t.Run("unknown file id yields empty thread", func(t *testing.T) {
		svc, _ := newCommentFixture(t)

		got := svc.List("nothing-here")

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
