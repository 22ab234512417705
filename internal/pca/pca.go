// Package pca reduces embeddings to three principal components.
package pca

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Dimensions is the size of the projected space.
const Dimensions = 3

// MinSamples is the smallest corpus Fit accepts.
const MinSamples = 3

type InsufficientDataError struct {
	Samples int
	Reason  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for PCA (%d samples): %s", e.Samples, e.Reason)
}

// Model is a fitted projection. Components are unit vectors of length EmbeddingDim.
type Model struct {
	Components        [Dimensions][]float64
	Mean              []float64
	ExplainedVariance [Dimensions]float64
	EmbeddingDim      int
	Samples           int
}

// Fit computes the top principal components of embeddings.
func Fit(embeddings [][]float64) (*Model, error) {
	n := len(embeddings)
	if n < MinSamples {
		return nil, &InsufficientDataError{Samples: n, Reason: fmt.Sprintf("need at least %d embeddings", MinSamples)}
	}
	d := len(embeddings[0])
	if d == 0 {
		return nil, &InsufficientDataError{Samples: n, Reason: "embeddings are empty"}
	}
	for i, e := range embeddings {
		if len(e) != d {
			return nil, &InsufficientDataError{Samples: n, Reason: fmt.Sprintf("embedding %d has dimension %d, want %d", i, len(e), d)}
		}
	}

	data := mat.NewDense(n, d, nil)
	mean := make([]float64, d)
	for i, e := range embeddings {
		data.SetRow(i, e)
		for j, v := range e {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, errors.New("pca: singular value decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	var total float64
	for _, v := range vars {
		total += v
	}

	order := make([]int, len(vars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vars[order[a]] > vars[order[b]] })

	m := &Model{Mean: mean, EmbeddingDim: d, Samples: n}
	for k := 0; k < Dimensions; k++ {
		component := make([]float64, d)
		if k < len(order) {
			mat.Col(component, order[k], &vecs)
			fixSign(component)
			if total > 0 {
				m.ExplainedVariance[k] = vars[order[k]] / total
			}
		}
		m.Components[k] = component
	}
	return m, nil
}

// fixSign flips v so its largest-magnitude entry is positive. The first such entry wins ties.
func fixSign(v []float64) {
	best := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}

// Project returns the coordinates of embedding on each component after centering by mean.
func Project(embedding []float64, components [Dimensions][]float64, mean []float64) [Dimensions]float64 {
	var out [Dimensions]float64
	for k, c := range components {
		var dot float64
		for j := range c {
			if j >= len(embedding) || j >= len(mean) {
				break
			}
			dot += (embedding[j] - mean[j]) * c[j]
		}
		out[k] = dot
	}
	return out
}

// Project is a shortcut for Project with the model's components and mean.
func (m *Model) Project(embedding []float64) [Dimensions]float64 {
	return Project(embedding, m.Components, m.Mean)
}

// Rescale maps each axis independently onto [-0.5, 0.5]. A constant axis maps to 0.
func Rescale(points [][Dimensions]float64) [][Dimensions]float64 {
	out := make([][Dimensions]float64, len(points))
	if len(points) == 0 {
		return out
	}
	for k := 0; k < Dimensions; k++ {
		lo, hi := points[0][k], points[0][k]
		for _, p := range points[1:] {
			lo = math.Min(lo, p[k])
			hi = math.Max(hi, p[k])
		}
		span := hi - lo
		for i, p := range points {
			if span == 0 {
				out[i][k] = 0
				continue
			}
			out[i][k] = (p[k]-lo)/span - 0.5
		}
	}
	return out
}
