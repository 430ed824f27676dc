package storage

import (
	"encoding/binary"
	"math"
	"sort"
)

// Candidate is one scored position in a vector set
type Candidate struct {
	Position int
	Distance float64
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// l2Distance is the Euclidean distance between two vectors. Vectors of
// different length are infinitely far apart.
func l2Distance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SimilarityFromDistance maps an L2 distance onto (0, 1]
func SimilarityFromDistance(d float64) float64 {
	if math.IsInf(d, 1) || math.IsNaN(d) {
		return 0
	}
	return 1 / (1 + d)
}

// sortCandidates orders candidates nearest first, ties by position
func sortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Position < candidates[j].Position
	})
}

// Nearest returns the k vectors closest to query by L2 distance. k <= 0
// returns every vector.
func Nearest(query []float32, vectors [][]float32, k int) []Candidate {
	candidates := make([]Candidate, 0, len(vectors))
	for i, v := range vectors {
		d := l2Distance(query, v)
		if math.IsInf(d, 1) {
			continue
		}
		candidates = append(candidates, Candidate{Position: i, Distance: d})
	}
	sortCandidates(candidates)
	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// SerializeVector is an exported helper for testing
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for testing
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}

// CosineSimilarity is an exported helper for testing
func CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}

// L2Distance is the Euclidean distance between a and b
func L2Distance(a, b []float32) float64 {
	return l2Distance(a, b)
}
