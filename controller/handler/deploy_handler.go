package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"snapship-service/conf"
	"snapship-service/controller/respond"
	model "snapship-service/models"
	"snapship-service/service/deploy_service"
	"snapship-service/service/history_service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead room for boundaries and headers on top of the file itself
const multipartOverhead = 1 << 20

// DeployHandler upload-and-deploy handler
type DeployHandler struct {
	deployService  *deploy_service.DeployService
	historyService *history_service.HistoryService
	upload         conf.UploadConfig
	log            *zap.Logger
}

// NewDeployHandler create deploy handler instance. historyService may be nil.
func NewDeployHandler(deployService *deploy_service.DeployService, historyService *history_service.HistoryService, upload conf.UploadConfig, log *zap.Logger) *DeployHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if upload.FieldName == "" {
		upload.FieldName = conf.DefaultFieldName
	}
	if upload.TempDir == "" {
		upload.TempDir = os.TempDir()
	}
	return &DeployHandler{
		deployService:  deployService,
		historyService: historyService,
		upload:         upload,
		log:            log,
	}
}

// Deploy upload a zip archive and deploy it
// @Summary Deploy a static site
// @Description Upload a zip archive with index.html at its root; every file is submitted to Vercel and the live URL is returned
// @Tags Deploy
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "zip archive"
// @Success 200 {object} respond.DeployResponse
// @Failure 400 {object} respond.DeployResponse
// @Failure 405 {object} respond.DeployResponse
// @Failure 413 {object} respond.DeployResponse
// @Failure 500 {object} respond.DeployResponse
// @Failure 502 {object} respond.DeployResponse
// @Router /api/deploy [post]
// @Router /api/v1/deployments [post]
func (h *DeployHandler) Deploy(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.fail(c, deploy_service.StageReceiving, deploy_service.ErrMethodNotAllowed)
		return
	}

	fileHeader, cleanup, err := h.receiveFile(c)
	defer cleanup()
	if err != nil {
		h.fail(c, deploy_service.StageReceiving, err)
		return
	}

	// Buffer the upload in the temp dir; the file is removed on every path.
	tmpPath, err := h.bufferUpload(fileHeader)
	if tmpPath != "" {
		defer h.removeTemp(tmpPath)
	}
	if err != nil {
		h.fail(c, deploy_service.StageReceiving, err)
		return
	}

	tmp, err := os.Open(tmpPath)
	if err != nil {
		h.fail(c, deploy_service.StageReceiving, err)
		return
	}
	defer tmp.Close()

	outcome, err := h.deployService.Deploy(c.Request.Context(), deploy_service.Upload{
		Filename: fileHeader.Filename,
		Reader:   tmp,
		MaxSize:  h.upload.MaxSize,
	})

	var stage deploy_service.Stage
	var stageErr *deploy_service.StageError
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
	}
	deploymentID := h.record(fileHeader.Filename, outcome, stage, err)

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	c.JSON(status, respond.ToDeployResponse(outcome.Result, outcome.Logs, deploymentID))
}

// receiveFile parse the multipart body and return its single file
func (h *DeployHandler) receiveFile(c *gin.Context) (*multipart.FileHeader, func(), error) {
	noop := func() {}

	if h.upload.MaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxSize+multipartOverhead)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, noop, deploy_service.ErrUploadTooLarge
		}
		h.log.Debug("Failed to parse multipart form", zap.Error(err))
		return nil, noop, deploy_service.ErrNoFileUploaded
	}
	cleanup := func() {
		if err := form.RemoveAll(); err != nil {
			h.log.Warn("Failed to remove multipart temp files", zap.Error(err))
		}
	}

	files := form.File[h.upload.FieldName]
	switch {
	case len(files) == 0:
		return nil, cleanup, deploy_service.ErrNoFileUploaded
	case len(files) > 1:
		return nil, cleanup, deploy_service.ErrTooManyFiles
	}

	fileHeader := files[0]
	if h.upload.MaxSize > 0 && fileHeader.Size > h.upload.MaxSize {
		return nil, cleanup, deploy_service.ErrUploadTooLarge
	}
	return fileHeader, cleanup, nil
}

// bufferUpload copy the uploaded file into the temp dir and return its path
func (h *DeployHandler) bufferUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.upload.TempDir, "snapship-upload-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return dst.Name(), fmt.Errorf("failed to save upload: %w", err)
	}
	return dst.Name(), nil
}

func (h *DeployHandler) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.log.Warn("Failed to remove temp upload", zap.String("path", path), zap.Error(err))
	}
}

// fail respond for errors raised before the pipeline runs
func (h *DeployHandler) fail(c *gin.Context, stage deploy_service.Stage, err error) {
	h.log.Info("Deploy request rejected", zap.String("stage", string(stage)), zap.Error(err))
	deploymentID := ""
	if !errors.Is(err, deploy_service.ErrMethodNotAllowed) {
		deploymentID = h.record("", nil, stage, err)
	}
	c.JSON(statusFor(err), respond.ToDeployResponse(&model.DeploymentResult{Error: err.Error()}, nil, deploymentID))
}

// record append the outcome to history; failures never change the response
func (h *DeployHandler) record(filename string, outcome *deploy_service.Outcome, stage deploy_service.Stage, err error) string {
	if !h.historyService.Enabled() {
		return ""
	}

	record := &model.DeploymentRecord{
		Filename: filename,
		Status:   model.DeploymentStatusSucceeded,
	}
	if outcome != nil {
		record.TotalBytes = outcome.SizeBytes
		if outcome.Request != nil {
			record.ProjectName = outcome.Request.ProjectName
			record.FileCount = len(outcome.Request.Files)
		}
		if outcome.Result != nil {
			record.URL = outcome.Result.URL
		}
	}
	if err != nil {
		record.Status = model.DeploymentStatusFailed
		record.Error = err.Error()
		record.Stage = string(stage)
		record.URL = ""
	}

	if err := h.historyService.Record(record); err != nil {
		return ""
	}
	return record.ID
}

// statusFor map a pipeline error to its HTTP status
func statusFor(err error) int {
	if errors.Is(err, deploy_service.ErrUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch deploy_service.KindOf(err) {
	case deploy_service.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case deploy_service.KindBadRequest, deploy_service.KindArchiveFormat:
		return http.StatusBadRequest
	case deploy_service.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
