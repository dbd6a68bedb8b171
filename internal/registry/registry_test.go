package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAndList(t *testing.T) {
	reg := New([]string{"ES"}, nil)

	require.NoError(t, reg.Add("NQ"))
	assert.Equal(t, []string{"ES", "NQ"}, reg.List())

	// 重複追加は何もしない
	require.NoError(t, reg.Add("ES"))
	assert.Equal(t, []string{"ES", "NQ"}, reg.List())
}

func TestRegistry_RemoveLastItemFails(t *testing.T) {
	reg := New([]string{"ES"}, nil)

	err := reg.Remove("ES")
	require.ErrorIs(t, err, ErrLastItem)

	// 失敗したらリストは変わらない
	assert.Equal(t, []string{"ES"}, reg.List())
}

func TestRegistry_RemoveUnknown(t *testing.T) {
	reg := New([]string{"ES", "NQ"}, nil)

	err := reg.Remove("GC")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLastItem))
	assert.Equal(t, []string{"ES", "NQ"}, reg.List())
}

func TestRegistry_RemoveKeepsOrder(t *testing.T) {
	reg := New([]string{"ES", "NQ", "GC"}, nil)

	require.NoError(t, reg.Remove("NQ"))
	assert.Equal(t, []string{"ES", "GC"}, reg.List())
}

func TestRegistry_SaveHook(t *testing.T) {
	var saved [][]string
	reg := New([]string{"ES"}, func(symbols []string) error {
		saved = append(saved, symbols)
		return nil
	})

	require.NoError(t, reg.Add("NQ"))
	require.NoError(t, reg.Remove("ES"))

	// 変更が成功するたびに保存フックが呼ばれる
	require.Len(t, saved, 2)
	assert.Equal(t, []string{"ES", "NQ"}, saved[0])
	assert.Equal(t, []string{"NQ"}, saved[1])

	// 拒否された変更では呼ばれない
	_ = reg.Remove("NQ")
	assert.Len(t, saved, 2)
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	reg := New([]string{"ES", "NQ"}, nil)

	list := reg.List()
	list[0] = "書き換え"
	assert.Equal(t, []string{"ES", "NQ"}, reg.List())
}
