package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dskvich/doc-reviewer/pkg/auth"
	"github.com/dskvich/doc-reviewer/pkg/backend"
	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/filesaver"
	"github.com/dskvich/doc-reviewer/pkg/period"
	"github.com/dskvich/doc-reviewer/pkg/repository"
	"github.com/dskvich/doc-reviewer/pkg/services"
)

type BlobBrowser interface {
	Refresh(ctx context.Context) error
	Containers() []domain.ContainerName
	Label(container domain.ContainerName) string
	Listing(container domain.ContainerName) []domain.BlobItem
	ToggleSelection(container domain.ContainerName, blob domain.BlobItem) []domain.SelectedBlob
	Selection() []domain.SelectedBlob
	StaleSelections() []domain.SelectedBlob
	Upload(ctx context.Context, container domain.ContainerName, file domain.UploadFile) error
	DownloadSelected(ctx context.Context, container domain.ContainerName) error
}

type ProcessingInvoker interface {
	Pipelines() []domain.Pipeline
	Invoke(ctx context.Context, name string) (*domain.ProcessingResult, error)
}

type PromptManager interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, name, systemPrompt, userPrompt string) (*domain.Prompt, error)
	Update(ctx context.Context, id, systemPrompt, userPrompt string) (*domain.Prompt, error)
	Select(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ImportYAML(ctx context.Context, name string, r io.Reader) (*domain.Prompt, error)
	Prompts() []domain.Prompt
	Live() (domain.Prompt, bool)
	Alternates() []domain.Prompt
	LastRefresh() time.Time
}

type IdentityClient interface {
	WhoAmI(ctx context.Context) (*domain.Identity, error)
}

// session is the in-memory state of one user action: the period form, the
// blob browser and the prompt manager sharing one backend client.
type session struct {
	cfg      Config
	selector *period.Selector
	browser  BlobBrowser
	invoker  ProcessingInvoker
	prompts  PromptManager
	identity IdentityClient
}

func newSession(cfg Config, notifier services.Notifier) (*session, error) {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = cfg.BackendTimeout

	opts := []backend.Option{
		backend.WithHTTPClient(hc),
		backend.WithAPIPrefix(cfg.APIPrefix),
	}
	if cfg.FunctionKey != "" {
		opts = append(opts, backend.WithHeader(backend.FunctionKeyHeader, cfg.FunctionKey))
	}
	if cfg.Principal != "" {
		opts = append(opts, backend.WithHeader(auth.PrincipalHeader, cfg.Principal))
	}

	client, err := backend.NewClient(cfg.BackendURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	saver, err := filesaver.NewDirSaver(cfg.DownloadDir)
	if err != nil {
		return nil, err
	}

	selector := period.NewSelector()
	browser := services.NewBlobBrowser(client, saver, selector, notifier, services.BrowserConfig{
		Containers: cfg.containerNames(),
		Labels:     domain.DefaultContainerLabels,
	})

	return &session{
		cfg:      cfg,
		selector: selector,
		browser:  browser,
		invoker:  services.NewProcessingInvoker(client, browser, notifier, domain.DefaultPipelines),
		prompts:  services.NewPromptManager(client, repository.NewPromptCache(), notifier),
		identity: client,
	}, nil
}
