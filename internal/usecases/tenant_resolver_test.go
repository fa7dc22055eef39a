package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp_crm/internal/entities"
)

func TestTenantResolver_ResolveTenant(t *testing.T) {
	ctx := context.Background()
	store := new(MockTenantStore)
	store.On("GetByPhoneNumberID", ctx, "111").Return(&entities.Tenant{ID: 7}, nil)
	store.On("GetByPhoneNumberID", ctx, "222").Return(nil, entities.ErrNotFound)
	store.On("GetByPhoneNumberID", ctx, "333").Return(nil, entities.ErrPersistence)

	r := NewTenantResolver(store, 1)

	id, err := r.ResolveTenant(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = r.ResolveTenant(ctx, "222")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "unclaimed numbers go to the default tenant")

	id, err = r.ResolveTenant(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = r.ResolveTenant(ctx, "333")
	assert.ErrorIs(t, err, entities.ErrPersistence)

	store.AssertNumberOfCalls(t, "GetByPhoneNumberID", 3)
}
