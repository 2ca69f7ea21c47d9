package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/period"
)

var (
	silverA = domain.BlobItem{Name: "a.xlsx", URL: "https://x/silver/a.xlsx"}
	silverB = domain.BlobItem{Name: "b.html", URL: "https://x/silver/b.html"}
	goldA   = domain.BlobItem{Name: "a_validated.xlsx", URL: "https://x/gold/a_validated.xlsx"}
)

func newTestBrowser(backend *fakeBlobBackend) (*blobBrowser, *period.Selector, *recordingNotifier, *memorySaver) {
	selector := period.NewSelector()
	notifier := &recordingNotifier{}
	saver := &memorySaver{}
	b := NewBlobBrowser(backend, saver, selector, notifier, BrowserConfig{
		Containers: []domain.ContainerName{domain.ContainerSilver, domain.ContainerGold},
		Labels:     domain.DefaultContainerLabels,
	})
	return b, selector, notifier, saver
}

func TestRefreshReplacesListing(t *testing.T) {
	backend := &fakeBlobBackend{listing: domain.BlobListing{
		domain.ContainerSilver: {silverA, silverB},
		domain.ContainerGold:   {goldA},
	}}
	b, _, _, _ := newTestBrowser(backend)

	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, []domain.BlobItem{silverA, silverB}, b.Listing(domain.ContainerSilver))
	assert.Equal(t, []domain.BlobItem{goldA}, b.Listing(domain.ContainerGold))
	assert.False(t, b.Loading())
	assert.Empty(t, b.LastError())

	backend.listing = domain.BlobListing{domain.ContainerSilver: {silverB}}
	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, []domain.BlobItem{silverB}, b.Listing(domain.ContainerSilver))
	assert.Empty(t, b.Listing(domain.ContainerGold))
}

func TestRefreshFailureKeepsListing(t *testing.T) {
	backend := &fakeBlobBackend{listing: domain.BlobListing{domain.ContainerSilver: {silverA}}}
	b, _, notifier, _ := newTestBrowser(backend)
	require.NoError(t, b.Refresh(context.Background()))

	backend.listErr = errTransport
	err := b.Refresh(context.Background())

	require.ErrorIs(t, err, errTransport)
	assert.Equal(t, []domain.BlobItem{silverA}, b.Listing(domain.ContainerSilver))
	assert.Equal(t, "Error: connection refused", b.LastError())
	assert.Equal(t, []string{"Error: connection refused"}, notifier.errors())
	assert.False(t, b.Loading())
}

func TestRefreshAlwaysResetsDates(t *testing.T) {
	for _, listErr := range []error{nil, errTransport} {
		t.Run(fmt.Sprint(listErr), func(t *testing.T) {
			backend := &fakeBlobBackend{listing: domain.BlobListing{}, listErr: listErr}
			b, selector, _, _ := newTestBrowser(backend)

			selector.SetEndDateCurrent("2024-12-31")
			require.True(t, selector.Locked())

			_ = b.Refresh(context.Background())

			assert.True(t, b.SelectedDates().IsEmpty())
			assert.False(t, selector.Locked())
			assert.False(t, selector.AwaitingConfirmation())
		})
	}
}

func TestLoadingDuringRefresh(t *testing.T) {
	for _, listErr := range []error{nil, errTransport} {
		t.Run(fmt.Sprint(listErr), func(t *testing.T) {
			backend := &fakeBlobBackend{listing: domain.BlobListing{}, listErr: listErr}
			b, _, _, _ := newTestBrowser(backend)

			var during []bool
			backend.onList = func() { during = append(during, b.Loading()) }

			assert.False(t, b.Loading())
			_ = b.Refresh(context.Background())

			assert.Equal(t, []bool{true}, during)
			assert.False(t, b.Loading())
		})
	}
}

func TestToggleSelectionIsInvolutive(t *testing.T) {
	b, _, _, _ := newTestBrowser(&fakeBlobBackend{})

	b.ToggleSelection(domain.ContainerSilver, silverA)
	before := b.Selection()

	b.ToggleSelection(domain.ContainerGold, goldA)
	b.ToggleSelection(domain.ContainerGold, goldA)

	assert.ElementsMatch(t, before, b.Selection())
}

func TestToggleSelectionIdentityIsNameAndContainer(t *testing.T) {
	b, _, _, _ := newTestBrowser(&fakeBlobBackend{})

	b.ToggleSelection(domain.ContainerSilver, silverA)
	sel := b.ToggleSelection(domain.ContainerGold, domain.BlobItem{Name: silverA.Name})

	require.Len(t, sel, 2)
	assert.True(t, b.IsSelected(domain.ContainerSilver, silverA.Name))
	assert.True(t, b.IsSelected(domain.ContainerGold, silverA.Name))

	sel = b.ToggleSelection(domain.ContainerSilver, silverA)
	assert.Equal(t, []domain.SelectedBlob{{Name: silverA.Name, Container: domain.ContainerGold}}, sel)
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	backend := &fakeBlobBackend{listing: domain.BlobListing{domain.ContainerSilver: {silverA, silverB}}}
	b, _, _, _ := newTestBrowser(backend)
	require.NoError(t, b.Refresh(context.Background()))
	b.ToggleSelection(domain.ContainerSilver, silverA)
	b.ToggleSelection(domain.ContainerSilver, silverB)

	backend.listing = domain.BlobListing{domain.ContainerSilver: {silverB}}
	require.NoError(t, b.Refresh(context.Background()))

	assert.Len(t, b.Selection(), 2)
	assert.Equal(t, []domain.SelectedBlob{domain.NewSelectedBlob(domain.ContainerSilver, silverA)}, b.StaleSelections())
}

func TestUploadSuccessRefreshes(t *testing.T) {
	backend := &fakeBlobBackend{listing: domain.BlobListing{domain.ContainerSilver: {silverA}}}
	b, selector, notifier, _ := newTestBrowser(backend)
	selector.SetEndDateCurrent("2024-12-31")

	err := b.Upload(context.Background(), domain.ContainerSilver, domain.UploadFile{Name: "a.xlsx", Content: []byte("x")})

	require.NoError(t, err)
	assert.Len(t, backend.uploads, 1)
	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, []string{"Upload successful!"}, notifier.infos())
	assert.True(t, b.SelectedDates().IsEmpty())
}

func TestUploadFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"backend reason", fmt.Errorf("uploading: %w", &domain.APIError{StatusCode: 400, Message: "Missing required fields"}), "Upload failed: Missing required fields"},
		{"no reason", &domain.APIError{StatusCode: 500}, "Upload failed: Unknown error"},
		{"transport", errTransport, "Upload failed."},
		{"bad body", domain.ErrUnexpectedResponse, "Upload failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBlobBackend{uploadErr: tt.err}
			b, _, notifier, _ := newTestBrowser(backend)

			err := b.Upload(context.Background(), domain.ContainerSilver, domain.UploadFile{Name: "a.xlsx"})

			require.Error(t, err)
			assert.Equal(t, []string{tt.expected}, notifier.errors())
			assert.Zero(t, backend.listCalls)
		})
	}
}

func TestUploadRejectsUnknownContainerAndEmptyFile(t *testing.T) {
	backend := &fakeBlobBackend{}
	b, _, _, _ := newTestBrowser(backend)

	err := b.Upload(context.Background(), domain.ContainerBronze, domain.UploadFile{Name: "a"})
	assert.ErrorIs(t, err, domain.ErrUnknownContainer)

	err = b.Upload(context.Background(), domain.ContainerSilver, domain.UploadFile{})
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))

	assert.Empty(t, backend.uploads)
}

func TestDownloadSelectedDoesNotShortCircuit(t *testing.T) {
	backend := &fakeBlobBackend{downloadErr: map[string]error{
		"2.xlsx": &domain.APIError{StatusCode: 404},
	}}
	b, _, notifier, saver := newTestBrowser(backend)
	for _, name := range []string{"1.xlsx", "2.xlsx", "3.xlsx"} {
		b.ToggleSelection(domain.ContainerGold, domain.BlobItem{Name: name})
	}
	b.ToggleSelection(domain.ContainerSilver, silverA)

	err := b.DownloadSelected(context.Background(), domain.ContainerGold)

	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)

	assert.Equal(t, []string{"1.xlsx", "2.xlsx", "3.xlsx"}, backend.downloads)
	assert.Equal(t, []string{"1.xlsx", "3.xlsx"}, saver.order)
	assert.Equal(t, "content of 3.xlsx", saver.files["3.xlsx"])
	assert.Equal(t, []string{"Error downloading 2.xlsx"}, notifier.errors())
}

func TestDownloadSelectedRequiresSelection(t *testing.T) {
	backend := &fakeBlobBackend{}
	b, _, notifier, _ := newTestBrowser(backend)
	b.ToggleSelection(domain.ContainerSilver, silverA)

	err := b.DownloadSelected(context.Background(), domain.ContainerGold)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Empty(t, backend.downloads)
	assert.Len(t, notifier.errors(), 1)
}

func TestLabel(t *testing.T) {
	b, _, _, _ := newTestBrowser(&fakeBlobBackend{})

	assert.Equal(t, "Input", b.Label(domain.ContainerSilver))
	assert.Equal(t, "Output", b.Label(domain.ContainerGold))
	assert.Equal(t, "bronze", b.Label(domain.ContainerBronze))
}
