// Package registry はユーザーが監視対象に選んだ銘柄リストを管理します。
// 変更は Add / Remove 経由に限定し、成功するたびに保存フックを呼びます。
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLastItem は最後の1銘柄を削除しようとしたときに返ります。
// 監視リストは常に1件以上を維持します。
var ErrLastItem = errors.New("最後の監視銘柄は削除できません")

// SaveFunc は変更後のリストを永続化するフックです（実体は設定ファイル保存）
type SaveFunc func(symbols []string) error

// Registry は監視銘柄の順序付きリストです
type Registry struct {
	mu      sync.RWMutex
	symbols []string
	save    SaveFunc
}

// New は初期リストと保存フックから Registry を作ります。
// save に nil を渡すと永続化なし（テスト用）になります。
func New(symbols []string, save SaveFunc) *Registry {
	list := make([]string, len(symbols))
	copy(list, symbols)
	return &Registry{symbols: list, save: save}
}

// List は現在の監視銘柄をコピーして返します
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]string, len(r.symbols))
	copy(list, r.symbols)
	return list
}

// Add は銘柄を末尾に追加します。すでに登録済みなら何もしません。
func (r *Registry) Add(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.symbols {
		if s == name {
			return nil
		}
	}
	r.symbols = append(r.symbols, name)
	return r.persist()
}

// Remove は銘柄を削除します。
// リストが空になる削除は ErrLastItem で拒否し、リストは変更しません。
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.symbols {
		if s == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("銘柄 %q は監視リストにありません", name)
	}
	if len(r.symbols) <= 1 {
		return ErrLastItem
	}

	r.symbols = append(r.symbols[:idx], r.symbols[idx+1:]...)
	return r.persist()
}

// persist は保存フックを呼びます。呼び出し側はロック保持済みであること。
func (r *Registry) persist() error {
	if r.save == nil {
		return nil
	}
	list := make([]string, len(r.symbols))
	copy(list, r.symbols)
	return r.save(list)
}
