// Package retrieval ranks knowledge documents against a question with a
// TF-IDF vector space and cosine similarity.
package retrieval

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"diabot/internal/knowledge"
	"diabot/internal/vector"
)

// Hit is one ranked document.
type Hit struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Index is built once and is read-only afterwards, so Query is safe for
// concurrent use.
type Index struct {
	docs       []knowledge.Document
	vocabulary map[string]int
	idf        []float64
	vectors    []vector.Sparse
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Build fits the vocabulary and IDF weights over docs. Weights are raw term
// counts times smoothed IDF ln((1+n)/(1+df))+1, L2-normalised per document.
func Build(docs []knowledge.Document) (*Index, error) {
	if len(docs) == 0 {
		return nil, errors.New("retrieval index needs at least one document")
	}
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokenized[i] = tokenize(d.Text)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	idx := &Index{
		docs:       docs,
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		vectors:    make([]vector.Sparse, len(docs)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		idx.vocabulary[term] = i
		idx.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	for i, toks := range tokenized {
		idx.vectors[i] = idx.weigh(toks)
	}
	return idx, nil
}

// Len reports the number of indexed documents.
func (x *Index) Len() int { return len(x.docs) }

// Query returns up to k documents ordered by descending cosine similarity.
// Equal scores keep document order. k larger than the corpus returns every
// document.
func (x *Index) Query(q string, k int) []Hit {
	if k <= 0 {
		return []Hit{}
	}
	qv := x.weigh(tokenize(q))
	order := make([]int, len(x.docs))
	scores := make([]float64, len(x.docs))
	for i := range x.docs {
		order[i] = i
		// both sides are unit length, so the dot product is the cosine
		scores[i] = vector.Dot(qv, x.vectors[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > len(order) {
		k = len(order)
	}
	out := make([]Hit, 0, k)
	for _, i := range order[:k] {
		out = append(out, Hit{Name: x.docs[i].Name, Score: scores[i], Text: x.docs[i].Text})
	}
	return out
}

func (x *Index) weigh(tokens []string) vector.Sparse {
	counts := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if col, ok := x.vocabulary[tok]; ok {
			counts[col]++
		}
	}
	for col, c := range counts {
		counts[col] = c * x.idf[col]
	}
	return vector.FromCounts(counts).Normalize()
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}
