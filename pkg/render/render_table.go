// Render the enrichment table as delimited text

package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/yumyai/fe1/pkg/model"
)

const TableFileName = "functional_enrichment.csv"

var TableHeader = []string{
	"term_id", "term", "ontology", "num_in_feature_set", "num_in_ref_genome", "raw_p_value", "adjusted_p_value",
}

// RenderTableCSV writes one header line and one line per row. Floats use the
// shortest exact representation so identical runs give identical bytes.
func RenderTableCSV(w io.Writer, rows []model.EnrichmentRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(TableHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.TermID,
			r.TermName,
			r.Ontology,
			strconv.Itoa(r.NumInFeatureSet),
			strconv.Itoa(r.NumInRefGenome),
			formatP(r.RawPValue),
			formatP(r.AdjustedPValue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatP(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
