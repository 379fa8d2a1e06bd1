package deploy_service

import (
	"context"
	"fmt"
	"io"

	model "snapship-service/models"

	"go.uber.org/zap"
)

// Stage one step of an upload-deploy cycle
type Stage string

const (
	StageReceiving  Stage = "receiving"
	StageValidating Stage = "validating"
	StagePackaging  Stage = "packaging"
	StageSubmitting Stage = "submitting"
	StageResponding Stage = "responding"
)

// Upload the single file extracted from a request
type Upload struct {
	Filename string
	Reader   io.Reader
	MaxSize  int64 // 0 means unlimited
}

// Outcome everything a caller needs to build a response, on success or failure
type Outcome struct {
	Stage     Stage // Last stage entered
	Request   *model.DeploymentRequest
	Result    *model.DeploymentResult
	Logs      []string
	SizeBytes int64
}

// DeployService runs the receive, validate, package, submit chain.
// It holds no per-request state; every call is independent.
type DeployService struct {
	packager  *Packager
	submitter Submitter
	log       *zap.Logger
}

// NewDeployService creates the deployment pipeline.
func NewDeployService(packager *Packager, submitter Submitter, log *zap.Logger) *DeployService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeployService{
		packager:  packager,
		submitter: submitter,
		log:       log,
	}
}

type deployRun struct {
	upload  Upload
	data    []byte
	entries []model.ArchiveEntry
	outcome Outcome
	log     *zap.Logger
}

func (r *deployRun) note(msg string) {
	r.outcome.Logs = append(r.outcome.Logs, msg)
	r.log.Debug(msg)
}

type deployStep struct {
	stage Stage
	run   func(ctx context.Context, r *deployRun) error
}

// Deploy runs every stage in order and stops at the first failure, which is
// returned as a *StageError. The outcome is returned either way.
func (s *DeployService) Deploy(ctx context.Context, upload Upload) (*Outcome, error) {
	r := &deployRun{
		upload: upload,
		log:    s.log.With(zap.String("filename", upload.Filename)),
	}

	steps := []deployStep{
		{StageReceiving, s.receive},
		{StageValidating, s.validate},
		{StagePackaging, s.pack},
		{StageSubmitting, s.submit},
	}

	for _, step := range steps {
		r.outcome.Stage = step.stage
		if err := step.run(ctx, r); err != nil {
			r.log.Warn("Deployment stopped",
				zap.String("stage", string(step.stage)),
				zap.Error(err))
			r.outcome.Result = &model.DeploymentResult{Error: err.Error()}
			r.outcome.Stage = StageResponding
			return &r.outcome, &StageError{Stage: step.stage, Err: err}
		}
	}

	r.outcome.Stage = StageResponding
	return &r.outcome, nil
}

func (s *DeployService) receive(_ context.Context, r *deployRun) error {
	if r.upload.Reader == nil {
		return ErrNoFileUploaded
	}

	reader := r.upload.Reader
	if r.upload.MaxSize > 0 {
		reader = io.LimitReader(reader, r.upload.MaxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if r.upload.MaxSize > 0 && int64(len(data)) > r.upload.MaxSize {
		return ErrUploadTooLarge
	}

	r.data = data
	r.outcome.SizeBytes = int64(len(data))
	r.log.Info("Extracting zip file", zap.Int64("bytes", r.outcome.SizeBytes))
	return nil
}

func (s *DeployService) validate(_ context.Context, r *deployRun) error {
	entries, err := ReadArchive(r.data)
	if err != nil {
		return err
	}
	r.entries = entries
	r.data = nil
	return nil
}

func (s *DeployService) pack(_ context.Context, r *deployRun) error {
	request, err := s.packager.Package(r.entries, func(n Note) { r.note(n.Text) })
	if err != nil {
		return err
	}
	r.entries = nil
	r.outcome.Request = request
	return nil
}

func (s *DeployService) submit(ctx context.Context, r *deployRun) error {
	r.note("Deploying to Vercel...")

	result, err := s.submitter.Submit(ctx, r.outcome.Request)
	if err != nil {
		return err
	}

	r.note("Deployment successful!")
	r.outcome.Result = result
	return nil
}
