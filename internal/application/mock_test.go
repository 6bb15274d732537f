//go:build !integration

package application_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"telegram-subscription-admin/internal/application"
	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/domain/ports/repository"
	"telegram-subscription-admin/internal/infra/catalog"
	"telegram-subscription-admin/internal/infra/i18n"
	"telegram-subscription-admin/internal/infra/state"
	"telegram-subscription-admin/internal/infra/worker"
	"telegram-subscription-admin/internal/usecase"
)

const adminID int64 = 1000

// -----------------------------
// Mocks for the outer edges
// -----------------------------

type mockUserRepo struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) GetOrCreate(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[tgID]; ok {
		cp := *u
		return &cp, nil
	}
	u, err := model.NewUser(tgID, profile.Username, profile.FirstName, profile.LastName)
	if err != nil {
		return nil, err
	}
	m.users[tgID] = u
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Find(ctx context.Context, tgID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Update(ctx context.Context, tgID int64, patch model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[tgID]
	if !ok {
		return domain.ErrNotFound
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.Language != nil {
		u.Language = *patch.Language
	}
	if patch.TestUsed != nil {
		u.TestUsed = *patch.TestUsed
	}
	return nil
}

func (m *mockUserRepo) IDsByStatus(ctx context.Context, status model.UserStatus) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, u := range m.users {
		if u.Status == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockUserRepo) AllIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id := range m.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockUserRepo) TestUserIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, u := range m.users {
		if u.TestUsed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type mockBroadcastRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*model.BroadcastRecord
}

var _ repository.BroadcastRepository = (*mockBroadcastRepo)(nil)

func newMockBroadcastRepo() *mockBroadcastRepo {
	return &mockBroadcastRepo{records: make(map[int64]*model.BroadcastRecord)}
}

func (m *mockBroadcastRepo) Create(ctx context.Context, audience model.Audience, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.records[m.nextID] = &model.BroadcastRecord{ID: m.nextID, Audience: audience, MessageText: text}
	return m.nextID, nil
}

func (m *mockBroadcastRepo) UpdateStats(ctx context.Context, id int64, sent, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.SentCount, rec.FailedCount = sent, failed
	return nil
}

func (m *mockBroadcastRepo) Find(ctx context.Context, id int64) (*model.BroadcastRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockBroadcastRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type mockTransport struct {
	mu   sync.Mutex
	sent []adapter.Instruction
}

var _ adapter.MessageTransport = (*mockTransport)(nil)

func (m *mockTransport) Send(ctx context.Context, in adapter.Instruction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, in)
	return nil
}

func (m *mockTransport) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockArchive struct {
	mu      sync.Mutex
	backups int
	staged  []byte
}

var _ adapter.ArchiveService = (*mockArchive)(nil)

func (m *mockArchive) CreateBackup(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups++
	return "/data/backups/ajib-backup-20260101-000000.tar.gz", nil
}

func (m *mockArchive) StageUpload(ctx context.Context, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = b
	return "/data/backups/restore-uploaded.tar.gz", nil
}

// -----------------------------
// Harness
// -----------------------------

type harness struct {
	flow        *application.AdminFlow
	sessions    *state.MemoryStore
	users       *mockUserRepo
	history     *mockBroadcastRepo
	transport   *mockTransport
	archive     *mockArchive
	catalogPath string
	tr          *i18n.Translator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zerolog.Nop()
	return newHarnessWithLogger(t, &logger)
}

func newHarnessWithLogger(t *testing.T, logger *zerolog.Logger) *harness {
	t.Helper()

	tr, err := i18n.NewTranslator(i18n.LocalesFS)
	if err != nil {
		t.Fatalf("translator: %v", err)
	}

	pool := worker.NewPool(4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	h := &harness{
		sessions:    state.NewMemoryStore(),
		users:       newMockUserRepo(),
		history:     newMockBroadcastRepo(),
		transport:   &mockTransport{},
		archive:     &mockArchive{},
		catalogPath: filepath.Join(t.TempDir(), "plans.json"),
		tr:          tr,
	}
	cat := catalog.NewFileCatalog(h.catalogPath)

	h.flow = application.NewAdminFlow(
		h.sessions,
		usecase.NewUserUseCase(h.users, logger),
		usecase.NewBroadcastUseCase(h.users, h.history, h.transport, pool, logger),
		usecase.NewPlanUseCase(cat, logger),
		usecase.NewBackupUseCase(h.archive, logger),
		tr,
		logger,
	)
	return h
}

// label returns the English button text for an action.
func (h *harness) label(a model.Action) string {
	return h.tr.T(model.LangEN, string(a))
}

func (h *harness) text(t *testing.T, text string) []adapter.Instruction {
	t.Helper()
	return h.flow.HandleEvent(context.Background(), adapter.Event{
		ActorID: adminID,
		Kind:    adapter.EventText,
		Text:    text,
	})
}

func (h *harness) press(t *testing.T, a model.Action) []adapter.Instruction {
	t.Helper()
	return h.text(t, h.label(a))
}

func (h *harness) command(t *testing.T, cmd string) []adapter.Instruction {
	t.Helper()
	return h.flow.HandleEvent(context.Background(), adapter.Event{
		ActorID: adminID,
		Kind:    adapter.EventCommand,
		Text:    cmd,
	})
}

func (h *harness) upload(t *testing.T, content string) []adapter.Instruction {
	t.Helper()
	return h.flow.HandleEvent(context.Background(), adapter.Event{
		ActorID:  adminID,
		Kind:     adapter.EventFile,
		Document: strings.NewReader(content),
	})
}

// wantReply asserts the first instruction carries the given locale key's text.
func wantReply(t *testing.T, h *harness, out []adapter.Instruction, key string, args ...any) {
	t.Helper()
	if len(out) == 0 {
		t.Fatalf("expected a reply for %q", key)
	}
	want := h.tr.T(model.LangEN, key, args...)
	if out[0].Text != want {
		t.Fatalf("reply mismatch:\n got %q\nwant %q", out[0].Text, want)
	}
}
