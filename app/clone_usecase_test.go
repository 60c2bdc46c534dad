package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simscan-dev/simscan/domain"
)

// stubCloneService returns a canned response and records the request it saw.
type stubCloneService struct {
	response *domain.CloneResponse
	err      error
	lastReq  *domain.CloneRequest
}

func (s *stubCloneService) DetectClones(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubCloneService) DetectClonesInFiles(ctx context.Context, files []*domain.SourceFile, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

// stubCloneFormatter writes a fixed marker so tests can observe the call.
type stubCloneFormatter struct {
	err error
}

func (f *stubCloneFormatter) FormatCloneResponse(response *domain.CloneResponse, format domain.OutputFormat, writer io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := writer.Write([]byte("formatted"))
	return err
}

func validCloneRequest(w io.Writer) domain.CloneRequest {
	req := domain.DefaultCloneRequest()
	req.FactsPath = "facts.json"
	req.OutputWriter = w
	return *req
}

func TestCloneUseCase_Execute(t *testing.T) {
	service := &stubCloneService{response: &domain.CloneResponse{Success: true}}
	uc := NewCloneUseCase(service, &stubCloneFormatter{})

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), validCloneRequest(&buf))
	require.NoError(t, err)

	assert.Equal(t, "formatted", buf.String())
	assert.Equal(t, "facts.json", service.lastReq.FactsPath)
}

func TestCloneUseCase_ExecuteInvalidRequest(t *testing.T) {
	uc := NewCloneUseCase(&stubCloneService{}, &stubCloneFormatter{})

	req := validCloneRequest(&bytes.Buffer{})
	req.MinLines = 0

	err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCloneUseCase_ExecuteMissingWriter(t *testing.T) {
	uc := NewCloneUseCase(&stubCloneService{}, &stubCloneFormatter{})

	req := validCloneRequest(nil)
	err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output writer")
}

func TestCloneUseCase_ExecuteServiceFailure(t *testing.T) {
	boom := errors.New("boom")
	uc := NewCloneUseCase(&stubCloneService{err: boom}, &stubCloneFormatter{})

	err := uc.Execute(context.Background(), validCloneRequest(&bytes.Buffer{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCloneUseCase_ExecuteFormatterFailure(t *testing.T) {
	service := &stubCloneService{response: &domain.CloneResponse{Success: true}}
	uc := NewCloneUseCase(service, &stubCloneFormatter{err: errors.New("bad format")})

	err := uc.Execute(context.Background(), validCloneRequest(&bytes.Buffer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to format output")
}

func TestCloneUseCase_ExecuteWithFiles(t *testing.T) {
	service := &stubCloneService{response: &domain.CloneResponse{Success: true}}
	uc := NewCloneUseCase(service, &stubCloneFormatter{})

	var buf bytes.Buffer
	files := []*domain.SourceFile{{FilePath: "a.py"}}
	err := uc.ExecuteWithFiles(context.Background(), files, validCloneRequest(&buf))
	require.NoError(t, err)
	assert.Equal(t, "formatted", buf.String())
}

func TestCloneUseCaseBuilder(t *testing.T) {
	_, err := NewCloneUseCaseBuilder().Build()
	assert.Error(t, err, "Service is required")

	_, err = NewCloneUseCaseBuilder().WithService(&stubCloneService{}).Build()
	assert.Error(t, err, "Formatter is required")

	uc, err := NewCloneUseCaseBuilder().
		WithService(&stubCloneService{}).
		WithFormatter(&stubCloneFormatter{}).
		Build()
	require.NoError(t, err)
	assert.NotNil(t, uc)
}
