package deploy_service

import (
	"fmt"
	"strconv"
	"time"

	model "snapship-service/models"
)

// RootIndexFile must exist at the archive root.
const RootIndexFile = "index.html"

// NoteKind tells progress listeners which packaging step a note reports.
type NoteKind int

const (
	NoteIndexFound NoteKind = iota
	NoteFileAdded
	NoteTotal
)

// Note is one packaging progress event. Path is set for NoteFileAdded only.
type Note struct {
	Kind NoteKind
	Path string
	Text string
}

// ProgressFunc receives packaging progress notes.
type ProgressFunc func(Note)

// Packager turns archive entries into a deployment request.
type Packager struct {
	projectPrefix string
	now           func() time.Time
}

// NewPackager creates a packager that names projects "<prefix>-<base36 ms>".
func NewPackager(projectPrefix string) *Packager {
	return &Packager{
		projectPrefix: projectPrefix,
		now:           time.Now,
	}
}

// Package validates the root index, encodes every file and names the project.
// Directory entries are dropped; file order follows the archive.
func (p *Packager) Package(entries []model.ArchiveEntry, progress ProgressFunc) (*model.DeploymentRequest, error) {
	if progress == nil {
		progress = func(Note) {}
	}

	if !hasRootIndex(entries) {
		return nil, ErrMissingIndex
	}
	progress(Note{Kind: NoteIndexFound, Text: "index.html found in root"})

	files := make([]model.DeploymentFile, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDirectory {
			continue
		}

		if _, ok := seen[entry.Path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.Path)
		}
		seen[entry.Path] = struct{}{}

		encoding := Classify(entry.Path)
		files = append(files, model.DeploymentFile{
			Path:     entry.Path,
			Encoding: encoding,
			Payload:  EncodePayload(entry.RawBytes, encoding),
		})

		kind := "binary"
		if encoding == model.EncodingUTF8 {
			kind = "text"
		}
		progress(Note{
			Kind: NoteFileAdded,
			Path: entry.Path,
			Text: fmt.Sprintf("Adding file: %s (%s)", entry.Path, kind),
		})
	}

	progress(Note{Kind: NoteTotal, Text: fmt.Sprintf("Total files to deploy: %d", len(files))})

	return &model.DeploymentRequest{
		ProjectName: p.ProjectName(),
		Files:       files,
	}, nil
}

// ProjectName returns a timestamp-derived name. Collisions are left to the provider.
func (p *Packager) ProjectName() string {
	return p.projectPrefix + "-" + strconv.FormatInt(p.now().UnixMilli(), 36)
}

func hasRootIndex(entries []model.ArchiveEntry) bool {
	for _, entry := range entries {
		if !entry.IsDirectory && entry.Path == RootIndexFile {
			return true
		}
	}
	return false
}
