package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/logger"
)

const (
	uploadSuccessMessage = "Upload successful!"
	uploadFailedMessage  = "Upload failed."
	unknownErrorReason   = "Unknown error"
)

type BlobBackend interface {
	ListBlobs(ctx context.Context) (domain.BlobListing, error)
	UploadBlob(ctx context.Context, container domain.ContainerName, file domain.UploadFile) (*domain.UploadResult, error)
	DownloadBlob(ctx context.Context, container domain.ContainerName, name string) (io.ReadCloser, error)
}

type FileSaver interface {
	Save(ctx context.Context, name string, r io.Reader) error
}

type PeriodSelector interface {
	Reset()
	SelectedDates() domain.PeriodDates
}

type BrowserConfig struct {
	Containers []domain.ContainerName
	Labels     map[domain.ContainerName]string
}

type blobBrowser struct {
	backend  BlobBackend
	saver    FileSaver
	selector PeriodSelector
	notifier Notifier
	cfg      BrowserConfig

	mu        sync.Mutex
	listing   domain.BlobListing
	selection []domain.SelectedBlob
	loading   bool
	lastErr   string
}

func NewBlobBrowser(
	backend BlobBackend,
	saver FileSaver,
	selector PeriodSelector,
	notifier Notifier,
	cfg BrowserConfig,
) *blobBrowser {
	if len(cfg.Containers) == 0 {
		cfg.Containers = domain.DefaultContainers
	}

	listing := make(domain.BlobListing, len(cfg.Containers))
	for _, c := range cfg.Containers {
		listing[c] = nil
	}

	return &blobBrowser{
		backend:  backend,
		saver:    saver,
		selector: selector,
		notifier: notifier,
		cfg:      cfg,
		listing:  listing,
	}
}

// Refresh reloads every container listing. Whatever the outcome, the period
// form is reset to empty and unlocked.
func (b *blobBrowser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.lastErr = ""
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
		b.selector.Reset()
	}()

	listing, err := b.backend.ListBlobs(ctx)
	if err != nil {
		msg := "Error: " + err.Error()
		b.mu.Lock()
		b.lastErr = msg
		b.mu.Unlock()

		slog.ErrorContext(ctx, "refreshing blob listing", logger.Err(err))
		b.notifier.Notify(ctx, domain.ErrorNotice(msg))
		return fmt.Errorf("refreshing blobs: %w", err)
	}

	b.mu.Lock()
	b.listing = listing
	stale := b.staleLocked()
	b.mu.Unlock()

	slog.InfoContext(ctx, "blob listing refreshed", "containers", len(listing))
	if len(stale) > 0 {
		slog.WarnContext(ctx, "selection references blobs missing from listing", "count", len(stale))
	}
	return nil
}

func (b *blobBrowser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *blobBrowser) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *blobBrowser) Containers() []domain.ContainerName {
	return slices.Clone(b.cfg.Containers)
}

func (b *blobBrowser) Label(container domain.ContainerName) string {
	if label, ok := b.cfg.Labels[container]; ok {
		return label
	}
	return string(container)
}

func (b *blobBrowser) Listing(container domain.ContainerName) []domain.BlobItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.listing[container])
}

// ToggleSelection adds the (name, container) pair when absent and removes it
// when present. It returns the resulting selection.
func (b *blobBrowser) ToggleSelection(container domain.ContainerName, blob domain.BlobItem) []domain.SelectedBlob {
	b.mu.Lock()
	defer b.mu.Unlock()

	isBlob := func(s domain.SelectedBlob) bool { return s.Is(container, blob.Name) }

	if lo.ContainsBy(b.selection, isBlob) {
		b.selection = lo.Reject(b.selection, func(s domain.SelectedBlob, _ int) bool { return isBlob(s) })
	} else {
		b.selection = append(b.selection, domain.NewSelectedBlob(container, blob))
	}

	return slices.Clone(b.selection)
}

func (b *blobBrowser) IsSelected(container domain.ContainerName, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return lo.ContainsBy(b.selection, func(s domain.SelectedBlob) bool { return s.Is(container, name) })
}

func (b *blobBrowser) Selection() []domain.SelectedBlob {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.selection)
}

// StaleSelections lists selected blobs that the latest listing no longer
// contains. Refresh does not drop them.
func (b *blobBrowser) StaleSelections() []domain.SelectedBlob {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.staleLocked()
}

func (b *blobBrowser) staleLocked() []domain.SelectedBlob {
	return lo.Filter(b.selection, func(s domain.SelectedBlob, _ int) bool {
		return !lo.ContainsBy(b.listing[s.Container], func(item domain.BlobItem) bool {
			return item.Name == s.Name
		})
	})
}

// SelectedDates pulls the period dates from the form at call time.
func (b *blobBrowser) SelectedDates() domain.PeriodDates {
	return b.selector.SelectedDates()
}

// Upload sends a single file to container and refreshes the listing on success.
func (b *blobBrowser) Upload(ctx context.Context, container domain.ContainerName, file domain.UploadFile) error {
	if !slices.Contains(b.cfg.Containers, container) {
		return fmt.Errorf("uploading to %q: %w", container, domain.ErrUnknownContainer)
	}
	if file.Name == "" {
		return reject(ctx, b.notifier, "Please choose a file to upload")
	}

	res, err := b.backend.UploadBlob(ctx, container, file)
	if err != nil {
		slog.ErrorContext(ctx, "uploading blob", "container", container, "name", file.Name, logger.Err(err))
		b.notifier.Notify(ctx, domain.ErrorNotice(uploadFailureMessage(err)))
		return err
	}

	slog.InfoContext(ctx, "blob uploaded", "container", container, "name", file.Name, "url", res.URL)
	b.notifier.Notify(ctx, domain.InfoNotice(uploadSuccessMessage))

	if err := b.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "refreshing after upload", logger.Err(err))
	}
	return nil
}

func uploadFailureMessage(err error) string {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return uploadFailedMessage
	}

	reason := apiErr.Reason()
	if reason == "" {
		reason = unknownErrorReason
	}
	return "Upload failed: " + reason
}

// DownloadSelected fetches every selected blob of container one after
// another. A failed file is reported and skipped; the rest still run.
func (b *blobBrowser) DownloadSelected(ctx context.Context, container domain.ContainerName) error {
	files := lo.Filter(b.Selection(), func(s domain.SelectedBlob, _ int) bool {
		return s.Container == container
	})
	if len(files) == 0 {
		return reject(ctx, b.notifier, fmt.Sprintf("Please select a file in the %s container to download", container))
	}

	var result error
	for _, blob := range files {
		if err := b.download(ctx, blob); err != nil {
			slog.ErrorContext(ctx, "downloading blob", "container", blob.Container, "name", blob.Name, logger.Err(err))
			b.notifier.Notify(ctx, domain.ErrorNotice("Error downloading "+blob.Name))
			result = multierror.Append(result, fmt.Errorf("%s: %w", blob.Name, err))
		}
	}

	return result
}

func (b *blobBrowser) download(ctx context.Context, blob domain.SelectedBlob) error {
	body, err := b.backend.DownloadBlob(ctx, blob.Container, blob.Name)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := b.saver.Save(ctx, blob.Name, body); err != nil {
		return fmt.Errorf("saving: %w", err)
	}

	slog.InfoContext(ctx, "blob downloaded", "container", blob.Container, "name", blob.Name)
	return nil
}
