package paramfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/symparam/internal/callable"
)

// DataExt is the extension appended to "[data]" references.
const DataExt = ".csv"

// DataLoader loads "[data]<rel>" tables from <dir>/<rel>.csv. It implements
// parameters.DataLoader.
type DataLoader struct{}

// LoadData reads the table and labels it with rel.
func (DataLoader) LoadData(dir, rel string) (callable.Tabulated, error) {
	path := filepath.Join(dir, rel+DataExt)
	rows, err := ReadData(path)
	if err != nil {
		return callable.Tabulated{}, err
	}
	return callable.NewTabulated(rel, rows)
}

// ReadData reads whitespace or comma separated numeric rows. Blank lines and
// lines starting with '#' are skipped.
func ReadData(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %q is not a number", path, n, s)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}
	return rows, nil
}
