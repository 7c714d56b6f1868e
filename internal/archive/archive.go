package archive

import "context"

// Archive stores generated report PDFs by path. It holds rendered
// artifacts only, never core application state.
type Archive interface {
	UploadPDF(ctx context.Context, filename string, data []byte) (string, error)
	DownloadPDF(ctx context.Context, path string) ([]byte, error)
}
