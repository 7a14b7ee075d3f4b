package catalog

import (
	"testing"

	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T) gocql.UUID {
	t.Helper()
	id, err := gocql.RandomUUID()
	require.NoError(t, err)
	return id
}

func TestBuildCategoryTree(t *testing.T) {
	t.Run("NestsChildrenAtArbitraryDepth", func(t *testing.T) {
		root := mustUUID(t)
		mid := mustUUID(t)
		leaf := mustUUID(t)

		tree := buildCategoryTree([]models.Category{
			{ID: root, Name: "Maison", Slug: "maison"},
			{ID: mid, Name: "Salon", Slug: "salon", ParentCategoryID: &root},
			{ID: leaf, Name: "Lampes", Slug: "lampes", ParentCategoryID: &mid},
		})

		require.Len(t, tree, 1)
		require.Len(t, tree[0].Children, 1)
		require.Len(t, tree[0].Children[0].Children, 1)
		assert.Equal(t, "lampes", tree[0].Children[0].Children[0].Slug)
	})

	t.Run("OrphanBecomesRoot", func(t *testing.T) {
		missing := mustUUID(t)
		orphan := mustUUID(t)

		tree := buildCategoryTree([]models.Category{
			{ID: orphan, Name: "Orpheline", Slug: "orpheline", ParentCategoryID: &missing},
		})

		require.Len(t, tree, 1)
		assert.Equal(t, "orpheline", tree[0].Slug)
	})

	t.Run("MultipleRoots", func(t *testing.T) {
		tree := buildCategoryTree([]models.Category{
			{ID: mustUUID(t), Slug: "a"},
			{ID: mustUUID(t), Slug: "b"},
		})
		assert.Len(t, tree, 2)
	})
}
