package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contracts(ids ...string) []Contract {
	list := make([]Contract, 0, len(ids))
	for _, id := range ids {
		list = append(list, Contract{ID: id, Name: "N" + id})
	}
	return list
}

func idsOf(list []Contract) []string {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestMergeContracts_Idempotent(t *testing.T) {
	a := contracts("1", "2", "3")

	// merge(A, A) == A
	assert.Equal(t, idsOf(a), idsOf(MergeContracts(a, a)))
	// merge(A, nil) == A / merge(nil, B) == B
	assert.Equal(t, idsOf(a), idsOf(MergeContracts(a, nil)))
	assert.Equal(t, idsOf(a), idsOf(MergeContracts(nil, a)))
	// merge(nil, nil) は空
	assert.Empty(t, MergeContracts(nil, nil))
}

func TestMergeContracts_DedupKeepsFirstSeen(t *testing.T) {
	a := []Contract{
		{ID: "1", Description: "from A"},
		{ID: "2", Description: "from A"},
	}
	b := []Contract{
		{ID: "2", Description: "from B"}, // Aと同IDはAを採用
		{ID: "3", Description: "from B"},
	}

	merged := MergeContracts(a, b)

	require.Equal(t, []string{"1", "2", "3"}, idsOf(merged))
	assert.Equal(t, "from A", merged[1].Description)

	// どの結合結果でもIDは重複しない
	seen := map[string]bool{}
	for _, c := range merged {
		assert.False(t, seen[c.ID], "IDが重複: %s", c.ID)
		seen[c.ID] = true
	}
}

func TestMergeContracts_SkipsEmptyID(t *testing.T) {
	merged := MergeContracts([]Contract{{ID: "", Name: "broken"}}, contracts("1"))
	assert.Equal(t, []string{"1"}, idsOf(merged))
}

func TestCatalogSnapshot_FindByName(t *testing.T) {
	snap := &CatalogSnapshot{Contracts: []Contract{
		{ID: "1", Name: "ESZ5"},
		{ID: "2", Name: "ESH6"}, // 同じルートの別限月
		{ID: "3", Name: "NQZ5"},
	}}

	c, ok := snap.FindByName("NQZ5")
	require.True(t, ok)
	assert.Equal(t, "3", c.ID)

	// 名前は一意でないため、最初に見つかった1件を返す
	c, ok = snap.FindByName("ESZ5")
	require.True(t, ok)
	assert.Equal(t, "1", c.ID)

	_, ok = snap.FindByName("GC")
	assert.False(t, ok)
}
