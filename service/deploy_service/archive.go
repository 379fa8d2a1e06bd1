package deploy_service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	model "snapship-service/models"
)

const (
	// MaxEntryCount is the maximum number of entries accepted in one archive.
	MaxEntryCount = 20000

	// MaxEntrySize is the maximum inflated size of a single file (100MB).
	MaxEntrySize = 100 * 1024 * 1024

	// MaxTotalSize is the maximum inflated size of all files together (250MB).
	MaxTotalSize = 250 * 1024 * 1024
)

type archiveLimits struct {
	entryCount int
	entrySize  int64
	totalSize  int64
}

var defaultArchiveLimits = archiveLimits{
	entryCount: MaxEntryCount,
	entrySize:  MaxEntrySize,
	totalSize:  MaxTotalSize,
}

// ReadArchive decodes an in-memory zip into its entries. Entry order and
// stored names are kept exactly as they appear in the central directory.
func ReadArchive(data []byte) ([]model.ArchiveEntry, error) {
	return readArchive(data, defaultArchiveLimits)
}

func readArchive(data []byte, limits archiveLimits) ([]model.ArchiveEntry, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveFormat, err)
	}

	if len(zipReader.File) > limits.entryCount {
		return nil, archiveError("too many entries (max %d)", limits.entryCount)
	}

	// Reject on the declared sizes before inflating anything.
	var declared uint64
	for _, file := range zipReader.File {
		declared += file.UncompressedSize64
		if declared > uint64(limits.totalSize) {
			return nil, archiveError("archive too large (max %d bytes inflated)", limits.totalSize)
		}
	}

	entries := make([]model.ArchiveEntry, 0, len(zipReader.File))
	var total int64
	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			entries = append(entries, model.ArchiveEntry{
				Path:        file.Name,
				IsDirectory: true,
			})
			continue
		}

		content, err := readZipFile(file, limits, total)
		if err != nil {
			return nil, err
		}
		total += int64(len(content))

		entries = append(entries, model.ArchiveEntry{
			Path:     file.Name,
			RawBytes: content,
		})
	}

	return entries, nil
}

// readZipFile inflates one file, failing once it exceeds the entry limit or
// pushes the archive past its total limit. inflated is what earlier files used.
func readZipFile(file *zip.File, limits archiveLimits, inflated int64) ([]byte, error) {
	maxSize := limits.entrySize
	remaining := limits.totalSize - inflated

	if file.UncompressedSize64 > uint64(maxSize) {
		return nil, archiveError("file too large: %s (%d bytes, max %d)", file.Name, file.UncompressedSize64, maxSize)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrArchiveFormat, file.Name, err)
	}
	defer rc.Close()

	// The header size can lie, so the limits are enforced on the inflated stream too.
	limit := min(maxSize, remaining)
	content, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrArchiveFormat, file.Name, err)
	}
	if int64(len(content)) > maxSize {
		return nil, archiveError("file too large: %s (max %d bytes)", file.Name, maxSize)
	}
	if int64(len(content)) > remaining {
		return nil, archiveError("archive too large (max %d bytes inflated)", limits.totalSize)
	}

	return content, nil
}
