package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/usecase"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// memUserRepo implementación en memoria de repository.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[int64]*entity.User{}} }

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u.ID = m.seq
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetActiveByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestUserCreate_HasheaYValida(t *testing.T) {
	repo := newMemUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "joana", Password: "123456", Role: entity.RoleStock})
	require.NoError(t, err)
	assert.True(t, u.Active, "activo por defecto")

	stored, _ := repo.GetByID(ctx, u.ID)
	assert.NotEqual(t, "123456", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("123456")))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "joana", Password: "abcdef", Role: entity.RoleStock})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "x", Password: "123", Role: entity.RoleStock})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "senha corta")

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "y", Password: "123456", Role: "root"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "perfil inválido")
}

func TestUserUpdate_Parcial(t *testing.T) {
	repo := newMemUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "123456", Role: entity.RoleStock})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "bia", Password: "123456", Role: entity.RoleStock})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateUserRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "ningún campo")

	_, err = uc.Update(ctx, a.ID, dto.UpdateUserRequest{Username: ptr("bia")})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	updated, err := uc.Update(ctx, a.ID, dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin), Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, updated.Role)
	assert.False(t, updated.Active)
	assert.Equal(t, "ana", updated.Username)

	_, err = uc.Update(ctx, a.ID, dto.UpdateUserRequest{Password: ptr("nova-senha")})
	require.NoError(t, err)
	stored, _ := repo.GetByID(ctx, a.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nova-senha")))

	_, err = uc.Update(ctx, 99, dto.UpdateUserRequest{Active: ptr(true)})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestUserDelete_NoPuedeBorrarseASiMismo(t *testing.T) {
	repo := newMemUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	admin, err := uc.Create(ctx, dto.CreateUserRequest{Username: "admin", Password: "123456", Role: entity.RoleAdmin})
	require.NoError(t, err)
	other, err := uc.Create(ctx, dto.CreateUserRequest{Username: "op", Password: "123456", Role: entity.RoleStock})
	require.NoError(t, err)

	assert.True(t, errors.Is(uc.Delete(ctx, admin.ID, admin.ID), domain.ErrInvalidInput))
	require.NoError(t, uc.Delete(ctx, admin.ID, other.ID))
	assert.True(t, errors.Is(uc.Delete(ctx, admin.ID, other.ID), domain.ErrUserNotFound))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
