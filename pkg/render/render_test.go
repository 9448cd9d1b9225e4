package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/yumyai/fe1/pkg/model"
)

var testRows = []model.EnrichmentRow{
	{TermID: "GO:0003677", TermName: "DNA binding", Ontology: "GO", NumInFeatureSet: 1, NumInRefGenome: 1, RawPValue: 1, AdjustedPValue: 1},
	{TermID: "GO:non_exist", TermName: "DNA-template, <b>", Ontology: "GO", NumInFeatureSet: 1, NumInRefGenome: 3, RawPValue: 0.125, AdjustedPValue: 0.25},
}

func TestRenderTableCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTableCSV(&buf, testRows); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "term_id,term,ontology,num_in_feature_set,num_in_ref_genome,raw_p_value,adjusted_p_value" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[2][1] != "DNA-template, <b>" || records[2][5] != "0.125" || records[2][6] != "0.25" {
		t.Errorf("unexpected row %v", records[2])
	}
}

func TestRenderTableCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTableCSV(&buf, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the header line, got %q", buf.String())
	}
}

func TestRenderTableCSV_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	_ = RenderTableCSV(&a, testRows)
	_ = RenderTableCSV(&b, testRows)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical rows rendered differently")
	}
}

func TestRenderReportHTML(t *testing.T) {
	var buf bytes.Buffer
	summary := model.RunSummary{RunID: "r1", FeatureSetRef: "ws/MyFeatureSet", Propagation: true, TermsReported: 2}

	if err := RenderReportHTML(&buf, summary, testRows); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ws/MyFeatureSet", "GO:0003677", "DNA binding", "Propagation: yes", TableFileName} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q", want)
		}
	}
	if strings.Contains(out, "<b>") {
		t.Error("term names must be escaped")
	}
}

func TestRenderReportHTML_NoRows(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReportHTML(&buf, model.RunSummary{RunID: "r2"}, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No term of the feature set") {
		t.Error("expected the empty table message")
	}
}

func TestColorBySignificance(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{1, "#8B8989"},
		{0.05, "#8B8989"},
		{1e-12, "#00FF00"},
		{0, "#00FF00"},
	}
	for _, tt := range tests {
		if got := colorBySignificance(tt.p); got != tt.want {
			t.Errorf("colorBySignificance(%g) = %s, want %s", tt.p, got, tt.want)
		}
	}

	if got := colorBySignificance(0.049); !strings.HasPrefix(got, "#FF") {
		t.Errorf("barely significant value should stay red, got %s", got)
	}
}
