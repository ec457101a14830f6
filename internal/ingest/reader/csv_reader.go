package reader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sync"
)

// CSVReader reads header-keyed records from CSV data. The first row is the
// header; every following row becomes a map keyed by it.
type CSVReader struct {
	reader io.Reader
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// Read loads the whole file into memory. Fine for test fixtures; seeding real
// corpora should stream with ReadParallel instead.
func (cr *CSVReader) Read() ([]map[string]string, error) {
	csvReader := csv.NewReader(cr.reader)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, err
	}

	var records []map[string]string
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(map[string]string, len(headers))
		for i, h := range headers {
			record[h] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}

// ReadParallel streams records on the returned channel. One goroutine reads
// rows; workerCount goroutines turn them into maps. Row errors are reported
// in-band and reading continues; the channel closes when the input is
// exhausted or ctx is cancelled.
func (cr *CSVReader) ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error) {
	csvReader := csv.NewReader(cr.reader)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, err
	}

	out := make(chan ParallelReaderResult)
	jobs := make(chan []string, workerCount*2)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case row, ok := <-jobs:
					if !ok {
						return
					}
					if len(row) != len(headers) {
						emit(ctx, out, ParallelReaderResult{
							Err: fmt.Errorf("row has %d fields, header has %d", len(row), len(headers)),
						})
						continue
					}
					record := make(map[string]string, len(headers))
					for i, h := range headers {
						record[h] = row[i]
					}
					emit(ctx, out, ParallelReaderResult{Record: record})
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for {
			row, err := csvReader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				emit(ctx, out, ParallelReaderResult{Err: err})
				continue
			}
			select {
			case jobs <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func emit(ctx context.Context, out chan<- ParallelReaderResult, res ParallelReaderResult) {
	select {
	case out <- res:
	case <-ctx.Done():
	}
}
