package usecases

import (
	"context"
	"errors"
	"fmt"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/interfaces"
)

// TenantResolver maps the receiving business number to its owning tenant.
// Numbers no tenant has claimed belong to the default tenant.
type TenantResolver struct {
	tenants   interfaces.TenantStore
	defaultID int64
}

func NewTenantResolver(tenants interfaces.TenantStore, defaultID int64) *TenantResolver {
	return &TenantResolver{tenants: tenants, defaultID: defaultID}
}

func (r *TenantResolver) ResolveTenant(ctx context.Context, phoneNumberID string) (int64, error) {
	if phoneNumberID == "" {
		return r.defaultID, nil
	}
	t, err := r.tenants.GetByPhoneNumberID(ctx, phoneNumberID)
	if errors.Is(err, entities.ErrNotFound) {
		return r.defaultID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resolve tenant for %s: %w", phoneNumberID, err)
	}
	return t.ID, nil
}
