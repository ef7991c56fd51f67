package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() *schema.ReportMatrix {
	return &schema.ReportMatrix{
		Clusters: []schema.Cluster{
			{ID: "c1", Name: "prod-east"},
			{ID: "c2"},
		},
		Rules: []schema.Rule{
			{Name: "API Uptime", Goal: 0.995},
		},
		Cells: [][]schema.ReportCell{
			{{Goal: 0.995, Value: 0.9971, Status: schema.PassStatus}},
			{{Goal: 0.995, Absent: true, Status: schema.UnknownStatus}},
		},
		EvaluatedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleConfig() *contract.Config {
	return &contract.Config{
		Precision:    3,
		Workers:      4,
		Output:       schema.TextOut,
		CacheBackend: schema.NoneBackend,
		Rules:        []schema.Rule{{Name: "API Uptime", Goal: 0.995}},
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := sampleConfig()
	cfg.Title = "Weekly SLI Report"

	err := writeReportTable(&buf, sampleMatrix(), cfg, 1200*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Weekly SLI Report")
	assert.Contains(t, out, "prod-east")
	assert.Contains(t, out, "99.500%", "goal column should render as percent")
	assert.Contains(t, out, "99.710%", "observed value should render as percent")
	assert.Contains(t, out, contract.AbsentCell, "unknown cells should render the placeholder")
	assert.Contains(t, out, "Evaluated 2 clusters x 1 rules")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer

	err := writeReportCSV(&buf, sampleMatrix(), sampleConfig())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Cluster,API Uptime Goal,API Uptime Perf.", lines[0])
	assert.Equal(t, "prod-east,99.500,99.710%", lines[1])
	assert.Equal(t, "c2,99.500,--", lines[2], "nameless clusters fall back to the ID")
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := sampleConfig()
	cfg.Title = "Weekly"

	err := writeReportJSON(&buf, sampleMatrix(), cfg)
	require.NoError(t, err)

	var decoded struct {
		Title       string            `json:"title"`
		EvaluatedAt string            `json:"evaluated_at"`
		Rows        []schema.RowEntry `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "Weekly", decoded.Title)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, schema.PassStatus, decoded.Rows[0].Status)
	assert.Equal(t, schema.UnknownStatus, decoded.Rows[1].Status)
	assert.True(t, decoded.Rows[1].Absent)
}

func TestWriteReportHTML(t *testing.T) {
	var buf bytes.Buffer
	cfg := sampleConfig()
	cfg.Footer = "Internal use only"

	err := writeReportHTML(&buf, sampleMatrix(), cfg)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>SLI Report</title>", "empty title falls back to default")
	assert.Contains(t, out, `class="success"`)
	assert.Contains(t, out, "Internal use only")
	assert.Contains(t, out, "<th>API Uptime Goal</th>")
}

func TestHTMLClass(t *testing.T) {
	tests := []struct {
		name string
		cell schema.ReportCell
		want string
	}{
		{
			name: "fail maps to danger",
			cell: schema.ReportCell{Goal: 0.995, Value: 0.9, Status: schema.FailStatus},
			want: "danger",
		},
		{
			name: "comfortable pass maps to success",
			cell: schema.ReportCell{Goal: 0.995, Value: 0.999, Status: schema.PassStatus},
			want: "success",
		},
		{
			name: "borderline pass maps to caution",
			cell: schema.ReportCell{Goal: 0.995, Value: 0.99505, Status: schema.PassStatus},
			want: "caution",
		},
		{
			name: "unknown has no class",
			cell: schema.ReportCell{Goal: 0.995, Absent: true, Status: schema.UnknownStatus},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, htmlClass(tt.cell))
		})
	}
}

func TestFormatLabels(t *testing.T) {
	assert.Equal(t, "", formatLabels(nil))
	assert.Equal(t, "age=42d,id=abc", formatLabels(map[string]string{"id": "abc", "age": "42d"}), "label order should be stable")
}
