package usecase

// SimilarityMatrix holds the precomputed pairwise cosine similarities of a
// catalog snapshot. Built once, read-only afterwards; safe for concurrent
// reads without locking.
type SimilarityMatrix struct {
	values [][]float64
}

// BuildSimilarityMatrix computes the full N x N cosine similarity matrix for
// the given vectors. A zero-magnitude vector has similarity 0 to every
// vector, itself included. O(N^2) time and space is accepted: the matrix is
// built at most once per catalog load, for small-to-moderate catalogs.
func BuildSimilarityMatrix(vectors []SparseVector) *SimilarityMatrix {
	n := len(vectors)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	norms := make([]float64, n)
	for i, v := range vectors {
		norms[i] = v.Norm()
	}

	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := i; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			sim := vectors[i].Dot(vectors[j]) / (norms[i] * norms[j])
			values[i][j] = sim
			values[j][i] = sim
		}
	}

	return &SimilarityMatrix{values: values}
}

// At returns the similarity of product i to product j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.values[i][j]
}

// Size returns N, the number of products the matrix covers.
func (m *SimilarityMatrix) Size() int {
	return len(m.values)
}
