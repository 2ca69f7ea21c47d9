package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []string
	for _, no := range n.notices {
		if no.Level == domain.NoticeError {
			out = append(out, no.Text)
		}
	}
	return out
}

func (n *recordingNotifier) infos() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []string
	for _, no := range n.notices {
		if no.Level == domain.NoticeInfo {
			out = append(out, no.Text)
		}
	}
	return out
}

type fakeBlobBackend struct {
	listing     domain.BlobListing
	listErr     error
	listCalls   int
	onList      func()
	uploadErr   error
	uploads     []domain.UploadFile
	downloadErr map[string]error
	downloads   []string
}

func (f *fakeBlobBackend) ListBlobs(context.Context) (domain.BlobListing, error) {
	f.listCalls++
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listing, nil
}

func (f *fakeBlobBackend) UploadBlob(_ context.Context, _ domain.ContainerName, file domain.UploadFile) (*domain.UploadResult, error) {
	f.uploads = append(f.uploads, file)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &domain.UploadResult{Message: "Upload successful"}, nil
}

func (f *fakeBlobBackend) DownloadBlob(_ context.Context, _ domain.ContainerName, name string) (io.ReadCloser, error) {
	f.downloads = append(f.downloads, name)
	if err := f.downloadErr[name]; err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewBufferString("content of " + name)), nil
}

type memorySaver struct {
	files map[string]string
	order []string
}

func (m *memorySaver) Save(_ context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.files[name] = string(data)
	m.order = append(m.order, name)
	return nil
}

type fakeProcessingBackend struct {
	calls []domain.ProcessingRequest
	res   *domain.ProcessingResult
	err   error
}

func (f *fakeProcessingBackend) Process(_ context.Context, _ domain.Pipeline, req domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

var errTransport = errors.New("connection refused")
