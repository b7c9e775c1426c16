package patch

import (
	"github.com/emirpasic/gods/maps/treemap"
)

type trieNode struct {
	children *treemap.Map // int -> *trieNode
	codes    []Code
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: treemap.NewWithIntComparator(),
	}
}

// Trie stores patch codes keyed by (hexagon count, gap[0], gap[1], ...).
//
// Each depth holds one node per distinct key value and each node ends in the list of codes inserted at that exact key.
type Trie struct {
	roots *treemap.Map // hexagon count -> *trieNode
	count int
}

func NewTrie() *Trie {
	return &Trie{
		roots: treemap.NewWithIntComparator(),
	}
}

// Len returns the number of stored codes.
func (t *Trie) Len() int {
	return t.count
}

func child(parent *treemap.Map, key int, create bool) *trieNode {
	if v, found := parent.Get(key); found {
		return v.(*trieNode)
	}
	if !create {
		return nil
	}
	node := newTrieNode()
	parent.Put(key, node)
	return node
}

func (t *Trie) Insert(h int, key GapSequence, code Code) {
	node := child(t.roots, h, true)
	for _, k := range key {
		node = child(node.children, k, true)
	}
	node.codes = append(node.codes, code)
	t.count++
}

// CodeIter iterates over the codes stored under one key.
type CodeIter struct {
	codes []Code
	pos   int
}

// Next returns the next code, or false once the codes are exhausted.
func (it *CodeIter) Next() (Code, bool) {
	if it.pos >= len(it.codes) {
		return 0, false
	}
	code := it.codes[it.pos]
	it.pos++
	return code, true
}

// Len returns the total number of codes the iterator visits.
func (it *CodeIter) Len() int {
	return len(it.codes)
}

// Lookup returns an iterator over the codes stored under the exact key; absent keys yield an empty iterator.
func (t *Trie) Lookup(h int, key ...int) *CodeIter {
	node := child(t.roots, h, false)
	for _, k := range key {
		if node == nil {
			break
		}
		node = child(node.children, k, false)
	}
	if node == nil {
		return &CodeIter{}
	}
	return &CodeIter{codes: node.codes}
}

// Keys returns every key holding codes for hexagon count h, in key order.
func (t *Trie) Keys(h int) []GapSequence {
	root := child(t.roots, h, false)
	if root == nil {
		return nil
	}
	var keys []GapSequence
	var key GapSequence
	var walk func(node *trieNode)
	walk = func(node *trieNode) {
		if len(node.codes) > 0 {
			keys = append(keys, append(GapSequence(nil), key...))
		}
		it := node.children.Iterator()
		for it.Next() {
			key = append(key, it.Key().(int))
			walk(it.Value().(*trieNode))
			key = key[:len(key)-1]
		}
	}
	walk(root)
	return keys
}

// Walk visits every code stored for hexagon count h in key order, stopping early if fn returns false.
func (t *Trie) Walk(h int, fn func(key GapSequence, code Code) bool) {
	root := child(t.roots, h, false)
	if root == nil {
		return
	}
	var key GapSequence
	var walk func(node *trieNode) bool
	walk = func(node *trieNode) bool {
		for _, code := range node.codes {
			if !fn(key, code) {
				return false
			}
		}
		it := node.children.Iterator()
		for it.Next() {
			key = append(key, it.Key().(int))
			ok := walk(it.Value().(*trieNode))
			key = key[:len(key)-1]
			if !ok {
				return false
			}
		}
		return true
	}
	walk(root)
}

// BBList stores codes keyed by (hexagon count, ring length).
type BBList struct {
	lists map[[2]int][]Code
	count int
}

func NewBBList() *BBList {
	return &BBList{
		lists: make(map[[2]int][]Code),
	}
}

func (bb *BBList) Insert(h, ring int, code Code) {
	k := [2]int{h, ring}
	bb.lists[k] = append(bb.lists[k], code)
	bb.count++
}

// Lookup returns an iterator over the codes stored for (h, ring); absent keys yield an empty iterator.
func (bb *BBList) Lookup(h, ring int) *CodeIter {
	return &CodeIter{codes: bb.lists[[2]int{h, ring}]}
}

func (bb *BBList) Len() int {
	return bb.count
}
