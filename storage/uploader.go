package storage

import (
	"context"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// BracketSnapshotKey is the object key of a generated bracket export.
func BracketSnapshotKey(tournamentID int, runID string) string {
	return fmt.Sprintf("brackets/tournament_%d/%s.json", tournamentID, runID)
}
