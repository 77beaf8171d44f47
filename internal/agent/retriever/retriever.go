package retriever

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

//go:embed knowledge_base.json
var knowledgeBase []byte

type plan struct {
	PlanName string   `json:"plan_name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

type knowledgeFile struct {
	Products []plan   `json:"Products"`
	Policies []string `json:"Policies"`
}

type document struct {
	content string
	terms   map[string]struct{}
}

// KeywordRetriever serves the embedded knowledge base with lowercase
// token-overlap scoring. It stands behind model.Retriever so a hosted
// vector store can replace it without touching the handlers.
type KeywordRetriever struct {
	docs []document
}

// NewKeywordRetriever loads the embedded knowledge base: one document per
// plan plus a single policies document.
func NewKeywordRetriever() (*KeywordRetriever, error) {
	var kb knowledgeFile
	if err := json.Unmarshal(knowledgeBase, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	docs := make([]document, 0, len(kb.Products)+1)
	for _, p := range kb.Products {
		content := fmt.Sprintf("Plan: %s\nPrice: %s\nFeatures: %s",
			p.PlanName, p.Price, strings.Join(p.Features, ", "))
		docs = append(docs, newDocument(content))
	}
	if len(kb.Policies) > 0 {
		docs = append(docs, newDocument("Company Policies:\n"+strings.Join(kb.Policies, "\n")))
	}

	return &KeywordRetriever{docs: docs}, nil
}

// Retrieve returns up to k passages with a positive term-overlap score,
// best first. Ordering between equal scores follows document order.
func (r *KeywordRetriever) Retrieve(_ context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	queryTerms := tokenize(query)
	type scored struct {
		idx   int
		score int
	}
	matches := make([]scored, 0, len(r.docs))
	for i, doc := range r.docs {
		score := 0
		for term := range queryTerms {
			if _, ok := doc.terms[term]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > k {
		matches = matches[:k]
	}

	passages := make([]string, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, r.docs[m.idx].content)
	}
	return passages, nil
}

func newDocument(content string) document {
	return document{content: content, terms: tokenize(content)}
}

func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		terms[f] = struct{}{}
	}
	return terms
}

var _ model.Retriever = (*KeywordRetriever)(nil)
