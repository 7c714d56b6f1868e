package archive

import (
	"context"
	"fmt"
	"sync"

	"github.com/stridecare/backend/internal/apperr"
	"go.uber.org/zap"
)

// MemoryArchive keeps report PDFs in process memory. It is the default
// archive: restart loses all reports, matching the rest of the system.
type MemoryArchive struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	logger *zap.Logger
}

// NewMemoryArchive creates an empty in-memory archive
func NewMemoryArchive(logger *zap.Logger) *MemoryArchive {
	return &MemoryArchive{
		blobs:  make(map[string][]byte),
		logger: logger,
	}
}

// UploadPDF stores a copy of the PDF bytes under reports/<filename>
func (a *MemoryArchive) UploadPDF(ctx context.Context, filename string, data []byte) (string, error) {
	path := fmt.Sprintf("reports/%s", filename)

	stored := make([]byte, len(data))
	copy(stored, data)

	a.mu.Lock()
	a.blobs[path] = stored
	a.mu.Unlock()

	a.logger.Info("PDF stored in memory archive",
		zap.String("path", path),
		zap.Int("size_bytes", len(data)),
	)

	return path, nil
}

// DownloadPDF returns the stored PDF bytes for the path
func (a *MemoryArchive) DownloadPDF(ctx context.Context, path string) ([]byte, error) {
	a.mu.RLock()
	data, ok := a.blobs[path]
	a.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("report not found in archive")
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Ensure MemoryArchive implements Archive
var _ Archive = (*MemoryArchive)(nil)
