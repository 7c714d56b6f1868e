package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// BlobArchive stores report PDFs in Azure Blob Storage. It is used instead
// of the in-memory archive when storage credentials are configured, so
// generated reports survive a restart even though core state does not.
type BlobArchive struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobArchive creates an Azure Blob Storage backed archive
func NewBlobArchive(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobArchive, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobArchive{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// UploadPDF uploads the PDF under reports/<filename>
func (a *BlobArchive) UploadPDF(ctx context.Context, filename string, data []byte) (string, error) {
	a.logger.Info("uploading PDF to blob archive",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)),
	)

	blobName := fmt.Sprintf("reports/%s", filename)
	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("application/pdf"),
		},
	})
	if err != nil {
		a.logger.Error("failed to upload PDF",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload PDF: %w", err)
	}

	a.logger.Info("PDF uploaded successfully",
		zap.String("blob_name", blobName),
	)

	return blobName, nil
}

// DownloadPDF downloads the PDF stored under the given path
func (a *BlobArchive) DownloadPDF(ctx context.Context, path string) ([]byte, error) {
	a.logger.Info("downloading PDF from blob archive",
		zap.String("blob_name", path),
	)

	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(path)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		a.logger.Error("failed to download PDF",
			zap.String("blob_name", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		a.logger.Error("failed to read PDF data",
			zap.String("blob_name", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read PDF data: %w", err)
	}

	a.logger.Info("PDF downloaded successfully",
		zap.String("blob_name", path),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

func toPtr(s string) *string {
	return &s
}

// Ensure BlobArchive implements Archive
var _ Archive = (*BlobArchive)(nil)
