package deploy_service

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	model "snapship-service/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadArchive(t *testing.T) {
	data := buildZip(t,
		zipFile{name: "index.html", body: []byte("<h1>hi</h1>")},
		zipFile{name: "assets/"},
		zipFile{name: "assets/logo.png", body: []byte{0x89, 0x50, 0x4e, 0x47}},
	)

	entries, err := ReadArchive(data)
	require.NoError(t, err)

	want := []model.ArchiveEntry{
		{Path: "index.html", RawBytes: []byte("<h1>hi</h1>")},
		{Path: "assets/", IsDirectory: true},
		{Path: "assets/logo.png", RawBytes: []byte{0x89, 0x50, 0x4e, 0x47}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadArchiveEmpty(t *testing.T) {
	entries, err := ReadArchive(buildZip(t))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadArchiveRejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"plaintext": []byte("this is not a zip file"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadArchive(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrArchiveFormat))
			assert.True(t, errors.Is(err, zip.ErrFormat), "cause should stay in the chain")
			assert.Equal(t, KindArchiveFormat, KindOf(err))
		})
	}
}

func TestReadArchiveTruncated(t *testing.T) {
	data := buildZip(t, zipFile{name: "index.html", body: []byte("<html></html>")})

	_, err := ReadArchive(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrArchiveFormat)
}

func TestReadArchiveTotalSizeLimit(t *testing.T) {
	zeros := bytes.Repeat([]byte{0}, 600)
	data := buildZip(t,
		zipFile{name: "index.html", body: []byte("<p>x</p>")},
		zipFile{name: "a.bin", body: zeros},
		zipFile{name: "b.bin", body: zeros},
	)
	// Zeros deflate to a fraction of their size.
	require.Less(t, len(data), 1024)

	limits := archiveLimits{entryCount: 10, entrySize: 1024, totalSize: 1024}
	_, err := readArchive(data, limits)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchiveFormat)
	assert.Contains(t, err.Error(), "archive too large")

	limits.totalSize = 2048
	entries, err := readArchive(data, limits)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestReadArchiveEntrySizeLimit(t *testing.T) {
	data := buildZip(t,
		zipFile{name: "index.html", body: []byte("<p>x</p>")},
		zipFile{name: "big.bin", body: bytes.Repeat([]byte{0}, 4096)},
	)

	_, err := readArchive(data, archiveLimits{entryCount: 10, entrySize: 1024, totalSize: 1 << 20})
	assert.ErrorIs(t, err, ErrArchiveFormat)
	assert.Contains(t, err.Error(), "file too large: big.bin")
}

func TestReadArchiveEntryCountLimit(t *testing.T) {
	data := buildZip(t,
		zipFile{name: "index.html", body: []byte("x")},
		zipFile{name: "a.css", body: []byte("x")},
	)

	_, err := readArchive(data, archiveLimits{entryCount: 1, entrySize: 1024, totalSize: 1024})
	assert.ErrorIs(t, err, ErrArchiveFormat)
}
