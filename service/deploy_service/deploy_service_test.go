package deploy_service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	model "snapship-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeployService(t *testing.T, status int, body string) (*DeployService, *fakeVercel) {
	t.Helper()

	fake := newFakeVercel(t, status, body)
	submitter := NewVercelSubmitter(testVercelConfig(fake.URL, "token"), nil)
	return NewDeployService(NewPackager("proj"), submitter, nil), fake
}

func TestDeployEndToEnd(t *testing.T) {
	svc, fake := newTestDeployService(t, http.StatusOK, `{"url":"proj.example.com"}`)

	data := buildZip(t,
		zipFile{name: "index.html", body: []byte("<h1>Hello</h1>")},
		zipFile{name: "logo.png", body: []byte{0x89, 'P', 'N', 'G'}},
	)

	outcome, err := svc.Deploy(context.Background(), Upload{Filename: "site.zip", Reader: bytes.NewReader(data)})
	require.NoError(t, err)

	assert.Equal(t, StageResponding, outcome.Stage)
	assert.Equal(t, "https://proj.example.com", outcome.Result.URL)
	assert.Empty(t, outcome.Result.Error)
	assert.EqualValues(t, len(data), outcome.SizeBytes)
	require.NotNil(t, outcome.Request)
	assert.Len(t, outcome.Request.Files, 2)
	assert.Equal(t, []string{
		"index.html found in root",
		"Adding file: index.html (text)",
		"Adding file: logo.png (binary)",
		"Total files to deploy: 2",
		"Deploying to Vercel...",
		"Deployment successful!",
	}, outcome.Logs)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestDeployStopsBeforeSubmitting(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		stage Stage
		kind  ErrorKind
		want  error
	}{
		{
			name:  "empty archive",
			data:  buildZip(t),
			stage: StagePackaging,
			kind:  KindBadRequest,
			want:  ErrMissingIndex,
		},
		{
			name:  "nested index",
			data:  buildZip(t, zipFile{name: "site/index.html", body: []byte("x")}),
			stage: StagePackaging,
			kind:  KindBadRequest,
			want:  ErrMissingIndex,
		},
		{
			name:  "not a zip",
			data:  []byte("definitely not a zip"),
			stage: StageValidating,
			kind:  KindArchiveFormat,
			want:  ErrArchiveFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, fake := newTestDeployService(t, http.StatusOK, `{"url":"never.example.com"}`)

			outcome, err := svc.Deploy(context.Background(), Upload{Filename: "site.zip", Reader: bytes.NewReader(tc.data)})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.kind, KindOf(err))

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tc.stage, stageErr.Stage)

			require.NotNil(t, outcome)
			assert.Equal(t, StageResponding, outcome.Stage)
			assert.Equal(t, err.Error(), outcome.Result.Error)
			assert.Empty(t, outcome.Result.URL)
			assert.EqualValues(t, 0, fake.calls.Load())
		})
	}
}

func TestDeployUpstreamFailureKeepsLogs(t *testing.T) {
	svc, fake := newTestDeployService(t, http.StatusBadRequest, `{"error":{"message":"Project name is invalid"}}`)

	data := buildZip(t, zipFile{name: "index.html", body: []byte("<p>x</p>")})
	outcome, err := svc.Deploy(context.Background(), Upload{Reader: bytes.NewReader(data)})

	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Equal(t, "Project name is invalid", outcome.Result.Error)
	assert.Contains(t, outcome.Logs, "Deploying to Vercel...")
	assert.NotContains(t, outcome.Logs, "Deployment successful!")
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestDeployUploadLimits(t *testing.T) {
	svc, fake := newTestDeployService(t, http.StatusOK, `{"url":"x.example.com"}`)

	_, err := svc.Deploy(context.Background(), Upload{})
	assert.ErrorIs(t, err, ErrNoFileUploaded)

	data := buildZip(t, zipFile{name: "index.html", body: bytes.Repeat([]byte("a"), 4096)})
	_, err = svc.Deploy(context.Background(), Upload{Reader: bytes.NewReader(data), MaxSize: 16})
	assert.ErrorIs(t, err, ErrUploadTooLarge)
	assert.Equal(t, KindBadRequest, KindOf(err))

	assert.EqualValues(t, 0, fake.calls.Load())
}

type recordingSubmitter struct {
	requests []*model.DeploymentRequest
}

func (r *recordingSubmitter) Submit(_ context.Context, request *model.DeploymentRequest) (*model.DeploymentResult, error) {
	r.requests = append(r.requests, request)
	return &model.DeploymentResult{URL: "https://stub.example.com"}, nil
}

func TestDeployMissingCredential(t *testing.T) {
	fake := newFakeVercel(t, http.StatusOK, `{"url":"never.example.com"}`)
	svc := NewDeployService(NewPackager("proj"), NewVercelSubmitter(testVercelConfig(fake.URL, ""), nil), nil)

	data := buildZip(t, zipFile{name: "index.html", body: []byte("<p>x</p>")})
	_, err := svc.Deploy(context.Background(), Upload{Reader: bytes.NewReader(data)})

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.EqualValues(t, 0, fake.calls.Load())
}

func TestDeployDropsDirectories(t *testing.T) {
	stub := &recordingSubmitter{}
	svc := NewDeployService(NewPackager("proj"), stub, nil)

	data := buildZip(t,
		zipFile{name: "css/"},
		zipFile{name: "css/a.css", body: []byte("a{}")},
		zipFile{name: "index.html", body: []byte("<p>x</p>")},
	)
	outcome, err := svc.Deploy(context.Background(), Upload{Reader: bytes.NewReader(data)})
	require.NoError(t, err)
	assert.Equal(t, "https://stub.example.com", outcome.Result.URL)

	require.Len(t, stub.requests, 1)
	paths := make([]string, 0, len(stub.requests[0].Files))
	for _, f := range stub.requests[0].Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"css/a.css", "index.html"}, paths)
}
