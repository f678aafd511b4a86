package archive

import "context"

// Source discovers download candidates from the remote archive.
type Source interface {
	Discover(ctx context.Context) ([]Document, error)
}

// FileExistenceProbe checks local storage for a prior copy of the
// document. Idempotent and side-effect-free.
type FileExistenceProbe interface {
	Exists(ctx context.Context, doc Document) (bool, error)
}

// RecordExistenceProbe checks the record store for a prior entry,
// keyed by URL. Side-effect-free.
type RecordExistenceProbe interface {
	Exists(ctx context.Context, doc Document) (bool, error)
}

// Fetcher retrieves the document and persists it. Any retrying happens
// inside Fetch; the decision engine only consumes the final outcome.
type Fetcher interface {
	Fetch(ctx context.Context, doc Document) error
}

// DocumentStore writes a fetched payload and returns the stored path.
type DocumentStore interface {
	Save(ctx context.Context, doc Document, data []byte) (string, error)
}

// RecordWriter inserts a download record after a successful fetch.
type RecordWriter interface {
	Insert(ctx context.Context, rec DownloadRecord) error
}
