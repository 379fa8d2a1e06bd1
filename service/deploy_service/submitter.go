package deploy_service

import (
	"context"
	"net/http"
	"time"

	"snapship-service/conf"
	model "snapship-service/models"

	"github.com/imroc/req"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Submitter sends a packaged deployment to the hosting provider.
type Submitter interface {
	Submit(ctx context.Context, request *model.DeploymentRequest) (*model.DeploymentResult, error)
}

// VercelSubmitter posts deployments to the Vercel deployments API.
type VercelSubmitter struct {
	apiUrl  string
	token   string
	public  bool
	timeout time.Duration
	client  *req.Req
	log     *zap.Logger
}

type vercelFile struct {
	File     string `json:"file"`
	Data     string `json:"data"`
	Encoding string `json:"encoding,omitempty"`
}

type vercelProjectSettings struct {
	Framework *string `json:"framework"`
}

type vercelDeployment struct {
	Name            string                `json:"name"`
	Files           []vercelFile          `json:"files"`
	Public          bool                  `json:"public"`
	ProjectSettings vercelProjectSettings `json:"projectSettings"`
}

// NewVercelSubmitter creates a submitter bound to one credential. A missing
// token is not an error here; Submit refuses to call out without one.
func NewVercelSubmitter(cfg conf.VercelConfig, log *zap.Logger) *VercelSubmitter {
	if log == nil {
		log = zap.NewNop()
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(conf.DefaultTimeout) * time.Second
	}

	apiUrl := cfg.ApiUrl
	if apiUrl == "" {
		apiUrl = conf.DefaultVercelApiUrl
	}

	// Every request carries "Authorization: Bearer <token>" via the oauth2 transport.
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   http.DefaultTransport,
		},
	}
	client := req.New()
	client.SetClient(httpClient)

	return &VercelSubmitter{
		apiUrl:  apiUrl,
		token:   cfg.Token,
		public:  cfg.Public,
		timeout: timeout,
		client:  client,
		log:     log,
	}
}

// CredentialConfigured reports whether a token was supplied.
func (s *VercelSubmitter) CredentialConfigured() bool {
	return s.token != ""
}

// Submit issues exactly one deployment call. It is never retried: the
// provider may already have created the project.
func (s *VercelSubmitter) Submit(ctx context.Context, request *model.DeploymentRequest) (*model.DeploymentResult, error) {
	if !s.CredentialConfigured() {
		return nil, ErrMissingCredential
	}
	if request == nil || len(request.Files) == 0 {
		return nil, ErrMissingIndex
	}

	// The call runs to completion or timeout even if the client goes away.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	s.log.Info("Deploying to Vercel",
		zap.String("endpoint", s.apiUrl),
		zap.String("project", request.ProjectName),
		zap.Int("files", len(request.Files)))

	resp, err := s.client.Post(s.apiUrl,
		req.Header{"Content-Type": "application/json"},
		req.BodyJSON(s.buildPayload(request)),
		callCtx)
	if err != nil {
		s.log.Error("Vercel deployment request failed", zap.Error(err))
		return nil, &UpstreamError{Message: GenericUpstreamMessage, Err: err}
	}

	statusCode := resp.Response().StatusCode
	body, err := resp.ToBytes()
	if err != nil {
		return nil, &UpstreamError{StatusCode: statusCode, Message: GenericUpstreamMessage, Err: err}
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		message := gjson.GetBytes(body, "error.message").String()
		if message == "" {
			message = GenericUpstreamMessage
		}
		s.log.Error("Vercel deployment failed",
			zap.Int("status", statusCode),
			zap.String("code", gjson.GetBytes(body, "error.code").String()),
			zap.String("message", message))
		return nil, &UpstreamError{StatusCode: statusCode, Message: message}
	}

	host := gjson.GetBytes(body, "url").String()
	if host == "" {
		return nil, &UpstreamError{StatusCode: statusCode, Message: "Vercel deployment response did not include a url"}
	}

	url := "https://" + host
	s.log.Info("Deployment successful",
		zap.String("project", request.ProjectName),
		zap.String("url", url),
		zap.String("deployment_id", gjson.GetBytes(body, "id").String()))

	return &model.DeploymentResult{URL: url}, nil
}

func (s *VercelSubmitter) buildPayload(request *model.DeploymentRequest) *vercelDeployment {
	files := make([]vercelFile, 0, len(request.Files))
	for _, f := range request.Files {
		file := vercelFile{File: f.Path, Data: f.Payload}
		if f.Encoding == model.EncodingBase64 {
			file.Encoding = "base64"
		}
		files = append(files, file)
	}

	return &vercelDeployment{
		Name:   request.ProjectName,
		Files:  files,
		Public: s.public,
	}
}
