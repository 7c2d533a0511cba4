package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users map[uuid.UUID]*User
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if v, ok := updates["first_name"]; ok {
		u.FirstName = v.(string)
	}
	if v, ok := updates["last_name"]; ok {
		u.LastName = v.(string)
	}
	if v, ok := updates["phone"]; ok {
		u.Phone = v.(string)
	}
	return nil
}

func (f *fakeRepo) List(_ context.Context, _, _ int) ([]User, int64, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func TestUpdateProfileOnlyTouchesProvidedFields(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{users: map[uuid.UUID]*User{
		id: {ID: id, FirstName: "Lan", LastName: "Nguyen", Email: "lan@example.com", Role: RoleUser},
	}}
	svc := NewService(repo)

	phone := "0901234567"
	got, err := svc.UpdateProfile(context.Background(), id, UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "Lan", got.FirstName)
	assert.Equal(t, "Nguyen", got.LastName)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "USER", got.Role)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{users: map[uuid.UUID]*User{}})

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("ADMIN"))
	assert.True(t, IsValidRole("USER"))
	assert.False(t, IsValidRole("admin"))
}
