package reader

import (
	"context"

	"github.com/mygramdb/mygram-go/internal/domain"
)

type Reader interface {
	Read() ([]map[string]string, error)
}

type ParallelReaderResult struct {
	Record map[string]string
	Err    error
}

type RawParallelReader interface {
	ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error)
}

// Mapper turns one header-keyed record into a corpus document.
type Mapper interface {
	Map(record map[string]string) (domain.Document, error)
}
