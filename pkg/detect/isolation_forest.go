package detect

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// IsolationForest is an unsupervised outlier model: anomalies are isolated
// with shorter random partition paths than normal points. Scores are
// 2^(-avgPathLen/c(n)) in (0,1], higher = more anomalous.
type IsolationForest struct {
	mu         sync.RWMutex
	trees      []*isoTree
	numTrees   int
	sampleSize int
	maxDepth   int
	rng        *rand.Rand
}

type isoTree struct {
	root *isoNode
}

type isoNode struct {
	splitFeature int
	splitValue   float64
	left         *isoNode
	right        *isoNode
	size         int
}

// NewIsolationForest creates an unfitted forest. Typical values: 100 trees,
// sample size 256.
func NewIsolationForest(numTrees, sampleSize int, seed int64) *IsolationForest {
	if numTrees <= 0 {
		numTrees = 100
	}
	if sampleSize <= 0 {
		sampleSize = 256
	}
	return &IsolationForest{
		numTrees:   numTrees,
		sampleSize: sampleSize,
		maxDepth:   int(math.Ceil(math.Log2(float64(sampleSize)))),
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Name identifies the model in fuser weight maps and alert indicators.
func (f *IsolationForest) Name() string { return "isolation_forest" }

// Fit builds the forest from a training batch.
func (f *IsolationForest) Fit(batch [][]float64) error {
	if len(batch) == 0 {
		return fmt.Errorf("no training data provided")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	trees := make([]*isoTree, f.numTrees)
	for i := 0; i < f.numTrees; i++ {
		sample := f.sample(batch)
		trees[i] = &isoTree{root: f.buildTree(sample, 0)}
	}
	f.trees = trees
	return nil
}

// Score returns per-sample anomaly scores. Unfitted: an error.
func (f *IsolationForest) Score(batch [][]float64) ([]float64, error) {
	f.mu.RLock()
	trees := f.trees
	f.mu.RUnlock()

	if len(trees) == 0 {
		return nil, fmt.Errorf("isolation forest not fitted")
	}

	c := avgPathLength(f.sampleSize)
	scores := make([]float64, len(batch))
	for i, row := range batch {
		total := 0.0
		for _, t := range trees {
			total += pathLength(t.root, row, 0)
		}
		avg := total / float64(len(trees))
		scores[i] = math.Pow(2, -avg/c)
	}
	return scores, nil
}

func (f *IsolationForest) sample(batch [][]float64) [][]float64 {
	if len(batch) <= f.sampleSize {
		return batch
	}
	out := make([][]float64, f.sampleSize)
	for i := range out {
		out[i] = batch[f.rng.Intn(len(batch))]
	}
	return out
}

func (f *IsolationForest) buildTree(data [][]float64, depth int) *isoNode {
	if len(data) <= 1 || depth >= f.maxDepth {
		return &isoNode{size: len(data)}
	}

	featureIdx := f.rng.Intn(len(data[0]))
	minVal, maxVal := featureRange(data, featureIdx)
	if minVal == maxVal {
		return &isoNode{size: len(data)}
	}

	splitValue := minVal + f.rng.Float64()*(maxVal-minVal)

	var left, right [][]float64
	for _, row := range data {
		if row[featureIdx] < splitValue {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &isoNode{
		splitFeature: featureIdx,
		splitValue:   splitValue,
		size:         len(data),
		left:         f.buildTree(left, depth+1),
		right:        f.buildTree(right, depth+1),
	}
}

func pathLength(node *isoNode, row []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if node.splitFeature < len(row) && row[node.splitFeature] < node.splitValue {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

func featureRange(data [][]float64, idx int) (float64, float64) {
	minVal, maxVal := data[0][idx], data[0][idx]
	for _, row := range data {
		if row[idx] < minVal {
			minVal = row[idx]
		}
		if row[idx] > maxVal {
			maxVal = row[idx]
		}
	}
	return minVal, maxVal
}

// avgPathLength is the expected path length of an unsuccessful BST search,
// the standard isolation-forest normalizer c(n).
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
