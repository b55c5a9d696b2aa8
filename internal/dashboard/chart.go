package dashboard

import (
	"bytes"
	"math"
	"strconv"
)

// Points is a numeric series; NaN and Inf encode as JSON null so the chart
// library leaves a gap.
type Points []float64

func (p Points) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Dataset is one plotted series of a chart.
type Dataset struct {
	Label  string   `json:"label"`
	Data   Points   `json:"data"`
	Type   string   `json:"type,omitempty"`
	Color  string   `json:"borderColor,omitempty"`
	Fill   string   `json:"backgroundColor,omitempty"`
	Colors []string `json:"colors,omitempty"` // per-point colors for doughnut slices
	Axis   string   `json:"yAxisID,omitempty"`
}

// Annotation is a horizontal reference line.
type Annotation struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Chart is the definition handed to the browser chart library. Dynamic charts are
// kept for the life of the presenter and updated in place; Revision counts
// the updates so the page can patch instead of recreate.
type Chart struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Labels      []string     `json:"labels"`
	Datasets    []Dataset    `json:"datasets"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Revision    int          `json:"revision"`
}

func newChart(id, typ, title string) *Chart {
	return &Chart{ID: id, Type: typ, Title: title}
}

// Update replaces labels and datasets and bumps the revision. Slices are
// replaced wholesale, never modified, so earlier copies stay valid.
func (c *Chart) Update(labels []string, datasets []Dataset) {
	c.Labels = labels
	c.Datasets = datasets
	c.Revision++
}
