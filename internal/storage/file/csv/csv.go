package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drakos74/free-knn/internal/model"
)

// ErrMalformed is returned for lines that cannot be parsed into a record.
var ErrMalformed = errors.New("malformed record")

// Load reads the records of the given file into a dataset named after it.
// limit caps the number of records read, a non-positive limit reads all of them.
func Load(path string, name string, limit int) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("could not open file '%s': %w", path, err)
	}
	defer f.Close()

	records, err := Read(f, limit)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("could not load '%s': %w", path, err)
	}
	return model.NewDataset(name, records), nil
}

// Read parses lines of the form 'label,feature_0,...,feature_n'.
// Every line must carry the same number of fields as the first one.
func Read(r io.Reader, limit int) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	records := make([]model.Record, 0)
	for limit <= 0 || len(records) < limit {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected label and features, got %d field(s)", ErrMalformed, line, len(fields))
		}
		record, err := parse(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parse(fields []string) (model.Record, error) {
	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return model.Record{}, fmt.Errorf("field %d: %w", i, err)
		}
		values[i] = v
	}
	return model.Record{
		Label:    values[0],
		Features: values[1:],
	}, nil
}

// Write writes the records in the same format Read expects.
func Write(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)
	for i, record := range records {
		fields := make([]string, 0, len(record.Features)+1)
		fields = append(fields, strconv.Itoa(record.Label))
		for _, f := range record.Features {
			fields = append(fields, strconv.Itoa(f))
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("could not write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Save writes the records into the given file, creating the parent directory if needed.
func Save(path string, records []model.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir: %s: %w", dir, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()

	if err := Write(f, records); err != nil {
		return fmt.Errorf("could not write file '%s': %w", path, err)
	}
	return nil
}
