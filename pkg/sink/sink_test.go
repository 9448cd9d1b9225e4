package sink

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/fe1/pkg/model"
)

var rows = []model.EnrichmentRow{
	{TermID: "GO:0003677", TermName: "DNA binding", Ontology: "GO", NumInFeatureSet: 1, NumInRefGenome: 1, RawPValue: 1, AdjustedPValue: 1},
}

func TestDirSave(t *testing.T) {
	root := filepath.Join(t.TempDir(), "results")
	d, err := NewDir(root)
	require.NoError(t, err)

	report, err := d.Save(context.Background(), model.RunSummary{RunID: "r1"}, rows)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "r1"), report.ResultDirectory)
	assert.Equal(t, "fe1_report_r1", report.Name)

	data, err := os.ReadFile(report.CSVPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "term_id,term,ontology"))

	_, err = os.Stat(report.HTMLPath)
	assert.NoError(t, err)
}

type recordSaver struct {
	report    *model.Report
	err       error
	calls     int
	discarded []string
}

func (r *recordSaver) Discard(ctx context.Context, runID string) error {
	r.discarded = append(r.discarded, runID)
	return nil
}

func (r *recordSaver) Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error) {
	r.calls++
	return r.report, r.err
}

func TestMulti(t *testing.T) {
	first := &recordSaver{report: &model.Report{Name: "from-db"}}
	second := &recordSaver{report: &model.Report{Name: "from-dir", ResultDirectory: "/tmp/r", CSVPath: "/tmp/r/a.csv"}}

	report, err := Multi{first, second}.Save(context.Background(), model.RunSummary{}, rows)
	require.NoError(t, err)

	assert.Equal(t, "from-db", report.Name)
	assert.Equal(t, "/tmp/r", report.ResultDirectory)
	assert.Equal(t, "/tmp/r/a.csv", report.CSVPath)
}

func TestMulti_StopsOnError(t *testing.T) {
	failing := &recordSaver{err: errors.New("disk full")}
	after := &recordSaver{report: &model.Report{}}

	_, err := Multi{failing, after}.Save(context.Background(), model.RunSummary{}, rows)
	require.Error(t, err)
	assert.Equal(t, 0, after.calls)
}

func TestMulti_DiscardsEarlierSaversOnError(t *testing.T) {
	first := &recordSaver{report: &model.Report{Name: "from-db"}}
	second := &recordSaver{report: &model.Report{}}
	failing := &recordSaver{err: errors.New("disk full")}

	_, err := Multi{first, second, failing}.Save(context.Background(), model.RunSummary{RunID: "r9"}, rows)
	require.Error(t, err)

	assert.Equal(t, []string{"r9"}, first.discarded)
	assert.Equal(t, []string{"r9"}, second.discarded)
	assert.Empty(t, failing.discarded)
}

func TestDirDiscard(t *testing.T) {
	d, err := NewDir(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)
	ctx := context.Background()

	report, err := d.Save(ctx, model.RunSummary{RunID: "r1"}, rows)
	require.NoError(t, err)

	require.NoError(t, d.Discard(ctx, "r1"))
	_, err = os.Stat(report.ResultDirectory)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.DirExists(t, d.Root)

	for _, bad := range []string{"", ".", "..", "../r1", "a/b"} {
		assert.Error(t, d.Discard(ctx, bad), bad)
	}
}

func TestDirSave_FailureRemovesRunDir(t *testing.T) {
	d, err := NewDir(filepath.Join(t.TempDir(), "results"))
	require.NoError(t, err)

	// A directory where the CSV file should go makes the write fail.
	runDir := filepath.Join(d.Root, "r2")
	require.NoError(t, os.MkdirAll(filepath.Join(runDir, "functional_enrichment.csv"), 0o755))

	_, err = d.Save(context.Background(), model.RunSummary{RunID: "r2"}, rows)
	require.Error(t, err)
	assert.NoDirExists(t, runDir)
}
