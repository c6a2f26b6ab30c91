package paramfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/symparam/internal/config"
	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/fsutil"
)

// Column headers of a parameter CSV file.
const (
	NameColumn  = "Name [units]"
	ValueColumn = "Value"
)

// ErrNotParameterFile is returned for CSV files without the parameter header,
// such as data tables living next to parameter files.
var ErrNotParameterFile = errors.New("not a parameter file")

// CSVLoader is the CSV implementation of config.Loader.
type CSVLoader struct{}

// NewCSVLoader creates a new CSV parameter loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads every CSV file named by paths, searching directories recursively.
// Files without the parameter header are skipped.
func (l *CSVLoader) Load(ctx context.Context, paths ...string) (*config.ParameterSet, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.ResolvePaths(paths, ".csv")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered CSV parameter files.", "count", len(files))

	set := &config.ParameterSet{}
	for _, file := range files {
		params, err := ReadCSV(file)
		if errors.Is(err, ErrNotParameterFile) {
			logger.Debug("Skipping CSV file without parameter header.", "path", file)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("Read parameter file.", "path", file, "parameters", len(params))
		set.Add(params...)
	}
	return set, nil
}

// ReadCSV reads one parameter file. Values that parse as numbers are returned
// as float64, the rest as strings.
func ReadCSV(path string) ([]*config.Parameter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter file %s: %w", path, err)
	}
	defer f.Close()

	params, err := readCSV(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}
	return params, nil
}

func readCSV(r io.Reader, path string) ([]*config.Parameter, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	nameCol, valueCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case NameColumn:
			nameCol = i
		case ValueColumn:
			valueCol = i
		}
	}
	if nameCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q columns", ErrNotParameterFile, NameColumn, ValueColumn)
	}

	dir := filepath.Dir(path)
	var params []*config.Parameter
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		name, value := field(record, nameCol), field(record, valueCol)
		if name == "" && value == "" {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: value %q has no name", line, value)
		}
		if value == "" {
			return nil, fmt.Errorf("line %d: parameter %q has no value", line, name)
		}
		p := &config.Parameter{Name: name, Value: value, Dir: dir, File: path, Line: line}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			p.Value = f
		}
		params = append(params, p)
	}
	return params, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
