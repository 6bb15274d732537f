//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// -----------------------------
// Mock user repository
// -----------------------------

type MockUserRepo struct {
	mu    sync.Mutex
	Users map[int64]*model.User

	GetOrCreateFunc func(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error)
	IDsByStatusFunc func(ctx context.Context, status model.UserStatus) ([]int64, error)
	AllIDsFunc      func(ctx context.Context) ([]int64, error)
	TestUserIDsFunc func(ctx context.Context) ([]int64, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Users: make(map[int64]*model.User)}
}

func (m *MockUserRepo) GetOrCreate(ctx context.Context, tgID int64, profile repository.UserProfile) (*model.User, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, tgID, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[tgID]; ok {
		cp := *u
		return &cp, nil
	}
	u, err := model.NewUser(tgID, profile.Username, profile.FirstName, profile.LastName)
	if err != nil {
		return nil, err
	}
	m.Users[tgID] = u
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) Find(ctx context.Context, tgID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) Update(ctx context.Context, tgID int64, patch model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[tgID]
	if !ok {
		return domain.ErrNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Language != nil {
		u.Language = *patch.Language
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.TestUsed != nil {
		u.TestUsed = *patch.TestUsed
	}
	return nil
}

func (m *MockUserRepo) IDsByStatus(ctx context.Context, status model.UserStatus) ([]int64, error) {
	if m.IDsByStatusFunc != nil {
		return m.IDsByStatusFunc(ctx, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, u := range m.Users {
		if u.Status == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockUserRepo) AllIDs(ctx context.Context) ([]int64, error) {
	if m.AllIDsFunc != nil {
		return m.AllIDsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id := range m.Users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockUserRepo) TestUserIDs(ctx context.Context) ([]int64, error) {
	if m.TestUserIDsFunc != nil {
		return m.TestUserIDsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, u := range m.Users {
		if u.TestUsed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// -----------------------------
// Mock broadcast repository
// -----------------------------

type broadcastEntry struct {
	Audience model.Audience
	Text     string
	Sent     int
	Failed   int
	Updated  bool
}

type MockBroadcastRepo struct {
	mu      sync.Mutex
	nextID  int64
	Records map[int64]*broadcastEntry

	CreateFunc      func(ctx context.Context, audience model.Audience, text string) (int64, error)
	UpdateStatsFunc func(ctx context.Context, id int64, sent, failed int) error
}

var _ repository.BroadcastRepository = (*MockBroadcastRepo)(nil)

func NewMockBroadcastRepo() *MockBroadcastRepo {
	return &MockBroadcastRepo{Records: make(map[int64]*broadcastEntry)}
}

func (m *MockBroadcastRepo) Create(ctx context.Context, audience model.Audience, text string) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audience, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.Records[m.nextID] = &broadcastEntry{Audience: audience, Text: text}
	return m.nextID, nil
}

func (m *MockBroadcastRepo) UpdateStats(ctx context.Context, id int64, sent, failed int) error {
	if m.UpdateStatsFunc != nil {
		return m.UpdateStatsFunc(ctx, id, sent, failed)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Sent, rec.Failed, rec.Updated = sent, failed, true
	return nil
}

func (m *MockBroadcastRepo) Find(ctx context.Context, id int64) (*model.BroadcastRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &model.BroadcastRecord{
		ID:          id,
		Audience:    rec.Audience,
		MessageText: rec.Text,
		SentCount:   rec.Sent,
		FailedCount: rec.Failed,
	}, nil
}

// -----------------------------
// Mock transport
// -----------------------------

type MockTransport struct {
	mu   sync.Mutex
	Sent []adapter.Instruction

	SendFunc func(ctx context.Context, in adapter.Instruction) error
}

var _ adapter.MessageTransport = (*MockTransport)(nil)

func (m *MockTransport) Send(ctx context.Context, in adapter.Instruction) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, in); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, in)
	return nil
}

func (m *MockTransport) SentTo() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.Sent))
	for i, in := range m.Sent {
		out[i] = in.ActorID
	}
	return out
}

// -----------------------------
// Mock plan catalog
// -----------------------------

type MockCatalog struct {
	mu        sync.Mutex
	Plans     []model.Plan
	SaveCalls int

	LoadErr error
	SaveErr error
}

var _ repository.PlanCatalog = (*MockCatalog)(nil)

func (m *MockCatalog) Load(ctx context.Context) ([]model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	out := make([]model.Plan, len(m.Plans))
	copy(out, m.Plans)
	return out, nil
}

func (m *MockCatalog) Save(ctx context.Context, plans []model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	m.Plans = make([]model.Plan, len(plans))
	copy(m.Plans, plans)
	return nil
}

// -----------------------------
// Mock archive service
// -----------------------------

type MockArchive struct {
	mu          sync.Mutex
	Backups     int
	Staged      []byte
	BackupPath  string
	StagingPath string

	CreateErr error
	StageErr  error
}

var _ adapter.ArchiveService = (*MockArchive)(nil)

func (m *MockArchive) CreateBackup(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Backups++
	if m.BackupPath == "" {
		m.BackupPath = "/tmp/backup.tar.gz"
	}
	return m.BackupPath, nil
}

func (m *MockArchive) StageUpload(ctx context.Context, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StageErr != nil {
		return "", m.StageErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.Staged = b
	if m.StagingPath == "" {
		m.StagingPath = "/tmp/restore-uploaded.tar.gz"
	}
	return m.StagingPath, nil
}
