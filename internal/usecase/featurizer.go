package usecase

import (
	"math"
)

// SparseVector maps vocabulary column indices to TF-IDF weights. Vectors
// produced by the featurizer are L2-normalized.
type SparseVector map[int]float64

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(other SparseVector) float64 {
	// Iterate the smaller vector.
	if len(other) < len(v) {
		v, other = other, v
	}
	var sum float64
	for idx, weight := range v {
		if w, ok := other[idx]; ok {
			sum += weight * w
		}
	}
	return sum
}

// Norm returns the Euclidean magnitude of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, weight := range v {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// Featurizer converts text signatures into TF-IDF weighted vectors over a
// shared unigram+bigram vocabulary. It is fit once per catalog snapshot and
// holds no mutable state afterwards; a catalog change requires a new fit.
type Featurizer struct {
	vocabulary map[string]int // term -> column index, first-seen order
	vectors    []SparseVector // one per input document
}

// NewFeaturizer fits a TF-IDF model over the given documents and transforms
// them in one pass. Term weight is raw term frequency times smoothed inverse
// document frequency, ln((1+N)/(1+df)) + 1, followed by per-document L2
// normalization. An empty document list yields an empty vocabulary and no
// vectors; a document whose tokens are all stop words yields a zero vector.
func NewFeaturizer(documents []string) *Featurizer {
	f := &Featurizer{
		vocabulary: make(map[string]int),
		vectors:    make([]SparseVector, len(documents)),
	}
	if len(documents) == 0 {
		return f
	}

	// First pass: term counts per document, document frequencies, vocabulary.
	termCounts := make([]map[string]int, len(documents))
	docFrequencies := make(map[string]int)
	for docIdx, doc := range documents {
		counts := make(map[string]int)
		for _, term := range ngrams(tokenize(doc)) {
			if counts[term] == 0 {
				docFrequencies[term]++
			}
			counts[term]++
			if _, ok := f.vocabulary[term]; !ok {
				f.vocabulary[term] = len(f.vocabulary)
			}
		}
		termCounts[docIdx] = counts
	}

	// Second pass: weight and normalize.
	totalDocs := float64(len(documents))
	for docIdx, counts := range termCounts {
		vector := make(SparseVector, len(counts))
		for term, count := range counts {
			idf := math.Log((1+totalDocs)/(1+float64(docFrequencies[term]))) + 1
			vector[f.vocabulary[term]] = float64(count) * idf
		}
		if norm := vector.Norm(); norm > 0 {
			for idx := range vector {
				vector[idx] /= norm
			}
		}
		f.vectors[docIdx] = vector
	}

	return f
}

// Vectors returns the fitted document vectors in input order.
func (f *Featurizer) Vectors() []SparseVector {
	return f.vectors
}

// VocabularySize returns the number of distinct terms observed in the corpus.
func (f *Featurizer) VocabularySize() int {
	return len(f.vocabulary)
}
