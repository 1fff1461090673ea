package workload

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/viant/afs"

	"github.com/nluthra2001/mlq/internal/log"
	"github.com/nluthra2001/mlq/internal/scheduler"
)

const (
	separator = ";"
	comment   = "#"
	bom       = "\uFEFF"
	minFields = 5
)

var (
	ErrTooFewFields = errors.New("too few fields")
	ErrInvalidField = errors.New("invalid numeric field")
	ErrNegative     = errors.New("negative burst or arrival time")
	ErrNoProcesses  = errors.New("no processes loaded")
)

// RecordError describes a line that could not be turned into a process.
type RecordError struct {
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Record is the outcome of one non-blank, non-comment line.
type Record struct {
	Line       int
	Descriptor scheduler.Descriptor
	Err        error
}

// Parse reads label;burst;arrival;level;priority records from r.
// Only read failures are returned as an error; bad lines come back as
// records carrying a *RecordError.
func Parse(r io.Reader) ([]Record, error) {
	var (
		records []Record
		lineNo  int
		reader  = bufio.NewReader(r)
	)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: reading workload", err)
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNo++
		if lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, comment) {
			desc, perr := parseRecord(line)
			rec := Record{Line: lineNo, Descriptor: desc}
			if perr != nil {
				rec.Err = &RecordError{Line: lineNo, Text: line, Err: perr}
			}
			records = append(records, rec)
		}
		if err == io.EOF {
			break
		}
	}

	return records, nil
}

func parseRecord(line string) (scheduler.Descriptor, error) {
	fields := strings.Split(line, separator)
	if len(fields) < minFields {
		return scheduler.Descriptor{}, fmt.Errorf("%w: got %d, want %d", ErrTooFewFields, len(fields), minFields)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var nums [minFields - 1]int64
	for i := range nums {
		n, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil {
			return scheduler.Descriptor{}, fmt.Errorf("%w: field %d %q", ErrInvalidField, i+2, fields[i+1])
		}
		nums[i] = n
	}

	desc := scheduler.Descriptor{
		Label:    fields[0],
		Burst:    nums[0],
		Arrival:  nums[1],
		Level:    scheduler.Level(nums[2]),
		Priority: nums[3],
	}
	if !desc.Level.Valid() {
		return scheduler.Descriptor{}, fmt.Errorf("%w: %d", scheduler.ErrInvalidLevel, nums[2])
	}
	if desc.Burst < 0 || desc.Arrival < 0 {
		return scheduler.Descriptor{}, ErrNegative
	}

	return desc, nil
}

// Load downloads the workload at URL and returns its valid descriptors in
// file order. Skipped records are logged at warn level.
func Load(ctx context.Context, fs afs.Service, URL string, logger *slog.Logger) ([]scheduler.Descriptor, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read workload %s: %w", URL, err)
	}
	records, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	descs := make([]scheduler.Descriptor, 0, len(records))
	for _, rec := range records {
		if rec.Err != nil {
			logger.Warn("skipping record", slog.String("source", URL), log.ErrAttr(rec.Err))
			continue
		}
		descs = append(descs, rec.Descriptor)
	}
	logger.Info("workload loaded", slog.String("source", URL), slog.Int("processes", len(descs)), slog.Int("skipped", len(records)-len(descs)))

	return descs, nil
}
