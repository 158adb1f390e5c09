package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goabtest/adapters/excel"
	"goabtest/domain/core"
	domainDataset "goabtest/domain/dataset"
	"goabtest/internal"
	"goabtest/internal/errors"
)

const marketingCSV = `,user id,test group,converted,total ads,most ads day,most ads hour
0,1069124,ad,False,130,Monday,20
1,1119715,ad,False,93,Tuesday,22
2,1144181,ad,False,21,Tuesday,18
3,1435133,psa,True,355,tuesday,10
`

func readRaw(t *testing.T, body string) *excel.ExcelData {
	t.Helper()
	raw, err := excel.ReadCSV(strings.NewReader(body))
	require.NoError(t, err)
	return raw
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "user_id", NormalizeHeader(" User ID "))
	assert.Equal(t, "most_ads_hour", NormalizeHeader("most ads hour"))
	assert.Equal(t, "index", NormalizeHeader(""))
	assert.Equal(t, "index", NormalizeHeader("Unnamed: 0"))
	assert.Equal(t, "index", NormalizeHeader("index"))
}

func TestProcessParsesObservations(t *testing.T) {
	ds, err := Process(readRaw(t, marketingCSV))
	require.NoError(t, err)

	require.Equal(t, 4, ds.Len())
	assert.True(t, ds.HasColumn(domainDataset.ColumnIndex))

	last := ds.Observations()[3]
	assert.Equal(t, domainDataset.Observation{
		Index:       3,
		UserID:      "1435133",
		TestGroup:   "psa",
		Converted:   true,
		TotalAds:    355,
		MostAdsDay:  "Tuesday",
		MostAdsHour: 10,
	}, last)
}

func TestProcessWithoutIndexColumn(t *testing.T) {
	body := "user id,test group,converted,total ads,most ads day,most ads hour\n9,psa,false,1,Sunday,0\n"

	ds, err := Process(readRaw(t, body))
	require.NoError(t, err)

	assert.False(t, ds.HasColumn(domainDataset.ColumnIndex))
	assert.Equal(t, 0, ds.Observations()[0].Index)
}

func TestProcessMissingColumnIsSchemaError(t *testing.T) {
	body := "user id,test group,converted,total ads,most ads day\n1,ad,True,3,Monday\n"

	_, err := Process(readRaw(t, body))
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
}

func TestProcessRejectsInvalidValues(t *testing.T) {
	header := "user id,test group,converted,total ads,most ads day,most ads hour\n"
	rows := map[string]string{
		"converted": "1,ad,maybe,3,Monday,1\n",
		"negative":  "1,ad,True,-3,Monday,1\n",
		"hour":      "1,ad,True,3,Monday,24\n",
		"day":       "1,ad,True,3,Funday,1\n",
		"user":      ",ad,True,3,Monday,1\n",
	}
	for name, row := range rows {
		_, err := Process(readRaw(t, header+row))
		require.Error(t, err, name)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), name)
		assert.Contains(t, err.Error(), "line 2", name)
	}
}

func TestFileAccessorFallsBackAndLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "marketing_AB.csv")
	fallback := filepath.Join(dir, "data", "marketing_AB.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(fallback), 0o755))
	require.NoError(t, os.WriteFile(fallback, []byte(marketingCSV), 0o644))

	accessor := NewFileAccessor(internal.NewLogger(internal.LogLevelError), missing, fallback)

	ds, err := accessor.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, fallback, accessor.Source())

	// the file is gone, the cached handle is still served
	require.NoError(t, os.Remove(fallback))
	again, err := accessor.Dataset(context.Background())
	require.NoError(t, err)
	assert.Same(t, ds, again)
}

func TestFileAccessorNoCandidate(t *testing.T) {
	accessor := NewFileAccessor(internal.NewLogger(internal.LogLevelError), filepath.Join(t.TempDir(), "nope.csv"))

	_, err := accessor.Dataset(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err) || errors.GetCode(err) == errors.CodeNotFound)
}

func TestStaticAccessor(t *testing.T) {
	ds := domainDataset.New(nil, nil)
	got, err := NewStaticAccessor(ds).Dataset(context.Background())
	require.NoError(t, err)
	assert.Same(t, ds, got)
}
