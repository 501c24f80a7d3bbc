package models

import (
	"fmt"
	"sort"
)

// Analytics is an opaque analytics payload. The backend owns its shape; the
// dashboard only derives KPI values and breakdown series from it.
type Analytics map[string]any

// Series is a labelled numeric series derived for a chart or KPI strip
type Series struct {
	Labels []string
	Values []float64
}

// Point is one labelled value of a Series
type Point struct {
	Label string
	Value float64
}

// Points zips labels and values
func (s Series) Points() []Point {
	n := len(s.Labels)
	if len(s.Values) < n {
		n = len(s.Values)
	}
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{Label: s.Labels[i], Value: s.Values[i]}
	}
	return out
}

// KPI is one labelled headline value
type KPI struct {
	Label string
	Value string
}

// Breakdown derives a series from a list of {_id, <field>} buckets stored
// under key. A null or empty _id is labelled "Unknown".
func (a Analytics) Breakdown(key, field string) Series {
	var s Series
	items, _ := a.lookup(key).([]any)
	for _, item := range items {
		bucket, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label := "Unknown"
		if id, ok := bucket["_id"]; ok && id != nil && fmt.Sprint(id) != "" {
			label = fmt.Sprint(id)
		}
		value, _ := bucket[field].(float64)
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, value)
	}
	return s
}

// KPIs returns the scalar top-level values of the payload, looking inside a
// nested "analytics" object when present.
func (a Analytics) KPIs(labels map[string]string) []KPI {
	var kpis []KPI
	for key, label := range labels {
		switch v := a.lookup(key).(type) {
		case float64:
			kpis = append(kpis, KPI{Label: label, Value: formatNumber(v)})
		case string:
			kpis = append(kpis, KPI{Label: label, Value: v})
		}
	}
	sort.Slice(kpis, func(i, j int) bool { return kpis[i].Label < kpis[j].Label })
	return kpis
}

// Insights returns the AI insight lines attached to the payload
func (a Analytics) Insights() []string {
	ai, _ := a["aiInsights"].(map[string]any)
	items, _ := ai["insights"].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Unwrap returns the payload inside a {data: ...} envelope, or a itself
func (a Analytics) Unwrap() Analytics {
	if inner, ok := a["data"].(map[string]any); ok {
		return Analytics(inner)
	}
	return a
}

func (a Analytics) lookup(key string) any {
	if v, ok := a[key]; ok {
		return v
	}
	if nested, ok := a["analytics"].(map[string]any); ok {
		return nested[key]
	}
	return nil
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
