package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

const metricNamespace = "profstat"

// tableCollector exposes a statistics table as constant gauges, one series
// per label.
type tableCollector struct {
	table stats.Table

	count *prometheus.Desc
	total *prometheus.Desc
	min   *prometheus.Desc
	max   *prometheus.Desc
	mean  *prometheus.Desc
	std   *prometheus.Desc
}

func newTableCollector(t stats.Table) *tableCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "interval", name), help, []string{"label"}, nil)
	}
	return &tableCollector{
		table: t,
		count: desc("count", "Number of closed intervals recorded for the label"),
		total: desc("duration_total_microseconds", "Sum of the interval durations"),
		min:   desc("duration_min_microseconds", "Shortest interval duration"),
		max:   desc("duration_max_microseconds", "Longest interval duration"),
		mean:  desc("duration_mean_microseconds", "Mean interval duration"),
		std:   desc("duration_std_microseconds", "Population standard deviation of the interval durations"),
	}
}

func (c *tableCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.count, c.total, c.min, c.max, c.mean, c.std} {
		ch <- d
	}
}

func (c *tableCollector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.table.Sorted() {
		c.send(ch, c.count, float64(st.Count), st.Label)
		c.send(ch, c.total, float64(st.Total), st.Label)
		c.send(ch, c.min, float64(st.Min), st.Label)
		c.send(ch, c.max, float64(st.Max), st.Label)
		c.send(ch, c.mean, st.Mean, st.Label)
		c.send(ch, c.std, st.Std, st.Label)
	}
}

func (c *tableCollector) send(ch chan<- prometheus.Metric, desc *prometheus.Desc, value float64, label string) {
	m, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, value, label)
	if err != nil {
		m = prometheus.NewInvalidMetric(desc, err)
	}
	ch <- m
}

// WritePrometheus writes t in the Prometheus text exposition format, suitable
// for the node_exporter textfile collector.
func WritePrometheus(w io.Writer, t stats.Table) error {
	if len(t) == 0 {
		return &profile.EmptyDatasetError{}
	}
	for label := range t {
		if !utf8.ValidString(label) {
			return fmt.Errorf("prometheus export: label %q is not valid UTF-8", label)
		}
	}
	reg := prometheus.NewRegistry()
	if err := reg.Register(newTableCollector(t)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
