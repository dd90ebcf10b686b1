// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordMatcher finds every whole-word occurrence of a set of phrases in a
// message in a single pass (Aho-Corasick). Matching is case-insensitive.
// A matcher is built once and is read-only afterwards.
type keywordMatcher[T any] struct {
	root     *acNode
	patterns []keyword[T]
}

type keyword[T any] struct {
	text string // lower-cased
	data T
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // indices into patterns ending here
}

// keywordMatch is one occurrence. Start and End are byte offsets into the
// lower-cased text.
type keywordMatch[T any] struct {
	Text  string
	Data  T
	Start int
	End   int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// newKeywordMatcher builds a matcher over phrases. Empty phrases are ignored.
func newKeywordMatcher[T any](phrases map[string]T) *keywordMatcher[T] {
	m := &keywordMatcher[T]{root: newACNode()}
	for p, data := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		m.patterns = append(m.patterns, keyword[T]{text: p, data: data})
	}
	for i, p := range m.patterns {
		m.insert(i, p.text)
	}
	m.buildFailureLinks()
	return m
}

func (m *keywordMatcher[T]) insert(index int, text string) {
	node := m.root
	for _, ch := range text {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
}

// buildFailureLinks links every node to its longest proper suffix in the trie (BFS).
func (m *keywordMatcher[T]) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// find returns the whole-word matches in text in order of their end offset.
func (m *keywordMatcher[T]) find(text string) []keywordMatch[T] {
	if len(m.patterns) == 0 {
		return nil
	}
	lower := strings.ToLower(text)

	var matches []keywordMatch[T]
	node := m.root
	for i, ch := range lower {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			p := m.patterns[idx]
			start := end - len(p.text)
			if !wordBoundary(lower, start, end) {
				continue
			}
			matches = append(matches, keywordMatch[T]{Text: p.text, Data: p.data, Start: start, End: end})
		}
	}
	return matches
}

// wordBoundary reports whether lower[start:end] is not embedded in a longer word.
func wordBoundary(lower string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(lower[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(lower) {
		r, _ := utf8.DecodeRuneInString(lower[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
