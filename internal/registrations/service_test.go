package registrations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/events"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	byID      map[string]*domain.Registration
	createErr error
	existsErr error
	nextID    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{byID: make(map[string]*domain.Registration)}
}

func (m *mockRepository) Create(_ context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.UserID == reg.UserID && existing.EventID == reg.EventID {
			return ErrAlreadyRegistered
		}
	}
	m.nextID++
	reg.ID = fmt.Sprintf("reg-%d", m.nextID)
	m.byID[reg.ID] = reg
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	if reg, ok := m.byID[id]; ok {
		return reg, nil
	}
	return nil, ErrRegistrationNotFound
}

func (m *mockRepository) ExistsByUserAndEvent(_ context.Context, userID, eventID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, reg := range m.byID {
		if reg.UserID == userID && reg.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) ListByUser(_ context.Context, userID string) ([]*domain.Registration, error) {
	list := make([]*domain.Registration, 0)
	for _, reg := range m.byID {
		if reg.UserID == userID {
			list = append(list, reg)
		}
	}
	return list, nil
}

func (m *mockRepository) ListAll(_ context.Context) ([]*domain.Registration, error) {
	list := make([]*domain.Registration, 0, len(m.byID))
	for _, reg := range m.byID {
		list = append(list, reg)
	}
	return list, nil
}

func (m *mockRepository) DeleteOwned(_ context.Context, id, userID string) error {
	reg, ok := m.byID[id]
	if !ok || reg.UserID != userID {
		return ErrRegistrationNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockRepository) CountRegistrations(_ context.Context) (int, error) {
	return len(m.byID), nil
}

// stubEvents implements EventChecker for testing.
type stubEvents struct {
	exists bool
	err    error
}

func (s *stubEvents) EventExists(_ context.Context, _ string) (bool, error) {
	return s.exists, s.err
}

func TestRegister_Succeeds(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	reg, err := service.Register(context.Background(), "user-1", "event-1")

	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, "user-1", reg.UserID)
	assert.Equal(t, "event-1", reg.EventID)
	assert.Equal(t, domain.RegistrationStatusRegistered, reg.Status)
}

func TestRegister_EventMissing(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: false})

	reg, err := service.Register(context.Background(), "user-1", "event-missing")

	assert.Nil(t, reg)
	assert.ErrorIs(t, err, events.ErrEventNotFound)
	assert.Empty(t, repo.byID, "no registration should be created")
}

func TestRegister_DuplicateCaughtByPrecheck(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	_, err := service.Register(context.Background(), "user-1", "event-1")
	require.NoError(t, err)

	reg, err := service.Register(context.Background(), "user-1", "event-1")

	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegister_DuplicateCaughtByUniqueIndex(t *testing.T) {
	// The pre-check passes but the insert reports a conflict, as when two
	// requests race for the same (user, event) pair.
	repo := newMockRepository()
	repo.createErr = ErrAlreadyRegistered
	service := NewService(repo, &stubEvents{exists: true})

	reg, err := service.Register(context.Background(), "user-1", "event-1")

	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegister_SameUserDifferentEvents(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	_, err := service.Register(context.Background(), "user-1", "event-1")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "user-1", "event-2")
	require.NoError(t, err)

	list, err := service.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRegister_EventCheckFailure(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{err: errors.New("database down")})

	reg, err := service.Register(context.Background(), "user-1", "event-1")

	assert.Nil(t, reg)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, events.ErrEventNotFound)
}

func TestRegister_ExistenceCheckFailure(t *testing.T) {
	repo := newMockRepository()
	repo.existsErr = errors.New("database down")
	service := NewService(repo, &stubEvents{exists: true})

	reg, err := service.Register(context.Background(), "user-1", "event-1")

	assert.Nil(t, reg)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRegistered)
}

func TestCancel_OwnRegistration(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	reg, err := service.Register(context.Background(), "user-1", "event-1")
	require.NoError(t, err)

	err = service.Cancel(context.Background(), reg.ID, "user-1")
	require.NoError(t, err)

	list, err := service.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCancel_ForeignRegistrationLooksAbsent(t *testing.T) {
	// Another user's registration id must produce the same error as a
	// nonexistent one, never a permission error.
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	reg, err := service.Register(context.Background(), "user-1", "event-1")
	require.NoError(t, err)

	err = service.Cancel(context.Background(), reg.ID, "user-2")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	list, err := service.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1, "registration must survive the foreign cancel")
}

func TestCancel_UnknownID(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &stubEvents{exists: true})

	err := service.Cancel(context.Background(), "reg-missing", "user-1")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}
