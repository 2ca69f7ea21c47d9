package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/repository"
)

type fakePromptBackend struct {
	list      *domain.PromptList
	err       error
	created   []domain.Prompt
	updated   []domain.Prompt
	selected  []string
	deleted   []string
	mutateErr error
}

func (f *fakePromptBackend) ListPrompts(context.Context) (*domain.PromptList, error) {
	return f.list, f.err
}

func (f *fakePromptBackend) CreatePrompt(_ context.Context, p domain.Prompt) (*domain.Prompt, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakePromptBackend) UpdatePrompt(_ context.Context, p domain.Prompt) (*domain.Prompt, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.updated = append(f.updated, p)
	return &p, nil
}

func (f *fakePromptBackend) SelectLivePrompt(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.selected = append(f.selected, id)
	return nil
}

func (f *fakePromptBackend) DeletePrompt(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestPromptManager(backend *fakePromptBackend) (*promptManager, *recordingNotifier) {
	notifier := &recordingNotifier{}
	m := NewPromptManager(backend, repository.NewPromptCache(), notifier)
	m.newID = func() string { return "new-id" }
	return m, notifier
}

func seededBackend() *fakePromptBackend {
	live := "p1"
	return &fakePromptBackend{list: &domain.PromptList{
		Prompts: []domain.Prompt{
			{ID: "p1", Name: "default", SystemPrompt: "s1", UserPrompt: "u1"},
			{ID: "p2", Name: "strict", SystemPrompt: "s2", UserPrompt: "u2"},
		},
		LivePromptID: &live,
	}}
}

func TestPromptManagerRefresh(t *testing.T) {
	m, _ := newTestPromptManager(seededBackend())

	require.NoError(t, m.Refresh(context.Background()))

	live, ok := m.Live()
	require.True(t, ok)
	assert.Equal(t, "p1", live.ID)
	assert.Equal(t, []string{"p2"}, promptIDs(m.Alternates()))
	assert.WithinDuration(t, time.Now(), m.LastRefresh(), time.Minute)
}

func TestPromptManagerRefreshFailure(t *testing.T) {
	m, notifier := newTestPromptManager(&fakePromptBackend{err: errTransport})

	err := m.Refresh(context.Background())

	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, []string{"Error retrieving prompts"}, notifier.errors())
	assert.True(t, m.LastRefresh().IsZero())
}

func TestPromptManagerNoLivePrompt(t *testing.T) {
	m, _ := newTestPromptManager(&fakePromptBackend{list: &domain.PromptList{Prompts: []domain.Prompt{{ID: "a"}}}})
	require.NoError(t, m.Refresh(context.Background()))

	_, ok := m.Live()
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, promptIDs(m.Alternates()))
}

func TestPromptManagerCreate(t *testing.T) {
	backend := seededBackend()
	m, _ := newTestPromptManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	p, err := m.Create(context.Background(), "lenient", "sys", "usr")

	require.NoError(t, err)
	assert.Equal(t, domain.Prompt{ID: "new-id", Name: "lenient", SystemPrompt: "sys", UserPrompt: "usr"}, *p)
	assert.Equal(t, []string{"p1", "p2", "new-id"}, promptIDs(m.Prompts()))
}

func TestPromptManagerCreateUsesUUID(t *testing.T) {
	backend := &fakePromptBackend{}
	m := NewPromptManager(backend, repository.NewPromptCache(), &recordingNotifier{})

	p, err := m.Create(context.Background(), "n", "s", "u")

	require.NoError(t, err)
	assert.Len(t, p.ID, 36)
}

func TestPromptManagerUpdate(t *testing.T) {
	backend := seededBackend()
	m, _ := newTestPromptManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	_, err := m.Update(context.Background(), "p2", "s2b", "u2b")

	require.NoError(t, err)
	require.Len(t, backend.updated, 1)
	assert.Equal(t, domain.Prompt{ID: "p2", Name: "strict", SystemPrompt: "s2b", UserPrompt: "u2b"}, backend.updated[0])
	assert.Equal(t, "u2b", m.Alternates()[0].UserPrompt)
}

func TestPromptManagerUpdateUnknown(t *testing.T) {
	backend := seededBackend()
	m, notifier := newTestPromptManager(backend)

	_, err := m.Update(context.Background(), "p9", "s", "u")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, backend.updated)
	assert.Equal(t, []string{"Error updating prompt"}, notifier.errors())
}

func TestPromptManagerSelectAndDelete(t *testing.T) {
	backend := seededBackend()
	m, _ := newTestPromptManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	require.NoError(t, m.Select(context.Background(), "p2"))
	live, ok := m.Live()
	require.True(t, ok)
	assert.Equal(t, "p2", live.ID)

	require.NoError(t, m.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"p2"}, promptIDs(m.Prompts()))
	assert.Empty(t, m.Alternates())
}

func TestPromptManagerMutationFailuresLeaveCache(t *testing.T) {
	backend := seededBackend()
	m, notifier := newTestPromptManager(backend)
	require.NoError(t, m.Refresh(context.Background()))
	backend.mutateErr = &domain.APIError{StatusCode: 500}

	assert.Error(t, m.Select(context.Background(), "p2"))
	assert.Error(t, m.Delete(context.Background(), "p2"))
	_, err := m.Create(context.Background(), "n", "s", "u")
	assert.Error(t, err)

	live, _ := m.Live()
	assert.Equal(t, "p1", live.ID)
	assert.Equal(t, []string{"p1", "p2"}, promptIDs(m.Prompts()))
	assert.Equal(t, []string{"Error selecting live prompt", "Error deleting prompt", "Error creating prompt"}, notifier.errors())
}

func TestPromptManagerImportYAML(t *testing.T) {
	backend := &fakePromptBackend{}
	m, _ := newTestPromptManager(backend)

	doc := "system_prompt: |\n  You review iXBRL filings.\nuser_prompt: \"Validate {data}\"\n"
	p, err := m.ImportYAML(context.Background(), "from-file", strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, "You review iXBRL filings.\n", p.SystemPrompt)
	assert.Equal(t, "Validate {data}", p.UserPrompt)
	assert.Len(t, backend.created, 1)
}

func TestPromptManagerImportYAMLMissingKey(t *testing.T) {
	backend := &fakePromptBackend{}
	m, notifier := newTestPromptManager(backend)

	_, err := m.ImportYAML(context.Background(), "x", strings.NewReader("system_prompt: only\n"))

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Missing required prompt key: user_prompt", vErr.Message)
	assert.Empty(t, backend.created)
	assert.Len(t, notifier.errors(), 1)
}

func promptIDs(prompts []domain.Prompt) []string {
	ids := make([]string, 0, len(prompts))
	for _, p := range prompts {
		ids = append(ids, p.ID)
	}
	return ids
}
