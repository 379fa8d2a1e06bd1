package respond

import (
	"snapship-service/conf"
	model "snapship-service/models"
)

// DeployResponse body of the deploy endpoint. Exactly one of URL and Error is set.
type DeployResponse struct {
	URL          string   `json:"url,omitempty" example:"https://snapship-m1x2y3.vercel.app"`
	Error        string   `json:"error,omitempty" example:"index.html not found in root of zip file"`
	Logs         []string `json:"logs"`
	DeploymentID string   `json:"deployment_id,omitempty" example:"3f1c2d9e-8a4b-4c6d-9e0f-1a2b3c4d5e6f"`
}

// ToDeployResponse build the deploy response from a result and its progress notes
func ToDeployResponse(result *model.DeploymentResult, logs []string, deploymentID string) DeployResponse {
	if logs == nil {
		logs = []string{}
	}
	resp := DeployResponse{
		Logs:         logs,
		DeploymentID: deploymentID,
	}
	if result != nil {
		resp.URL = result.URL
		resp.Error = result.Error
	}
	return resp
}

// DeploymentRecordResponse deployment history entry
type DeploymentRecordResponse struct {
	ID          string `json:"id" example:"3f1c2d9e-8a4b-4c6d-9e0f-1a2b3c4d5e6f"`
	ProjectName string `json:"project_name" example:"snapship-m1x2y3"`
	Filename    string `json:"filename" example:"site.zip"`
	URL         string `json:"url,omitempty" example:"https://snapship-m1x2y3.vercel.app"`
	Error       string `json:"error,omitempty"`
	Stage       string `json:"stage,omitempty" example:"packaging"`
	Status      string `json:"status" example:"succeeded"`
	FileCount   int    `json:"file_count" example:"12"`
	TotalBytes  int64  `json:"total_bytes" example:"204800"`
	CreatedAt   int64  `json:"created_at" example:"1760000000000"` // Unix milliseconds
}

// ToDeploymentRecordResponse convert DeploymentRecord to response structure
func ToDeploymentRecordResponse(record *model.DeploymentRecord) DeploymentRecordResponse {
	return DeploymentRecordResponse{
		ID:          record.ID,
		ProjectName: record.ProjectName,
		Filename:    record.Filename,
		URL:         record.URL,
		Error:       record.Error,
		Stage:       record.Stage,
		Status:      record.Status,
		FileCount:   record.FileCount,
		TotalBytes:  record.TotalBytes,
		CreatedAt:   record.CreatedAt.UnixMilli(),
	}
}

// DeploymentListResponse deployment history page
type DeploymentListResponse struct {
	Deployments []DeploymentRecordResponse `json:"deployments"`
	NextCursor  int64                      `json:"next_cursor" example:"20"`
	HasMore     bool                       `json:"has_more" example:"true"`
}

// ToDeploymentListResponse convert a page of records to response structure
func ToDeploymentListResponse(records []*model.DeploymentRecord, nextCursor int64, hasMore bool) DeploymentListResponse {
	result := make([]DeploymentRecordResponse, 0, len(records))
	for _, record := range records {
		result = append(result, ToDeploymentRecordResponse(record))
	}
	return DeploymentListResponse{
		Deployments: result,
		NextCursor:  nextCursor,
		HasMore:     hasMore,
	}
}

// ConfigResponse public service configuration, never includes the token
type ConfigResponse struct {
	CredentialConfigured bool `json:"credential_configured" example:"true"`
	MaxUploadMB          int  `json:"max_upload_mb" example:"50"`
	HistoryEnabled       bool `json:"history_enabled" example:"true"`
}

// ToConfigResponse convert configuration to response structure
func ToConfigResponse(upload conf.UploadConfig, credentialConfigured, historyEnabled bool) ConfigResponse {
	maxUploadMB := upload.MaxSizeMB
	if maxUploadMB <= 0 {
		maxUploadMB = conf.DefaultMaxSizeMB
	}
	return ConfigResponse{
		CredentialConfigured: credentialConfigured,
		MaxUploadMB:          maxUploadMB,
		HistoryEnabled:       historyEnabled,
	}
}
