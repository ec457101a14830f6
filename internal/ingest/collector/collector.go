package collector

import (
	"context"
	"log/slog"

	"github.com/mygramdb/mygram-go/internal/domain"
	"github.com/mygramdb/mygram-go/internal/ingest/reader"
)

type Result[T any] struct {
	Result T
	Err    error
}

type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}

const readerWorkers = 10

// DocumentCollector streams corpus documents from a raw record source.
// Malformed rows and mapping failures are reported in-band so a bad record
// never stops the run.
type DocumentCollector struct {
	Reader reader.RawParallelReader
	Mapper reader.Mapper
}

func NewDocumentCollector(r reader.RawParallelReader, mapper reader.Mapper) *DocumentCollector {
	return &DocumentCollector{
		Reader: r,
		Mapper: mapper,
	}
}

func (dc *DocumentCollector) Collect(ctx context.Context) (<-chan Result[domain.Document], error) {
	records, err := dc.Reader.ReadParallel(ctx, readerWorkers)
	if err != nil {
		return nil, err
	}

	out := make(chan Result[domain.Document])
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case res, ok := <-records:
				if !ok {
					return
				}
				if res.Err != nil {
					out <- Result[domain.Document]{Err: res.Err}
					continue
				}

				doc, err := dc.Mapper.Map(res.Record)
				if err != nil {
					slog.Error("failed to map record to document", "error", err)
					out <- Result[domain.Document]{Err: err}
					continue
				}

				out <- Result[domain.Document]{Result: doc}
			}
		}
	}()

	return out, nil
}
