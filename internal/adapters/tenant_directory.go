// Package adapters bridges module ports without letting bounded contexts
// import each other's internals directly.
package adapters

import (
	"context"

	leadssvc "resto_admin_backend/internal/leads/service"
	restsvc "resto_admin_backend/internal/restaurants/service"
	taskssvc "resto_admin_backend/internal/tasks/service"

	"github.com/google/uuid"
)

// TenantDirectory adapts the restaurants lookup to the ports the tasks and
// leads modules consume.
type TenantDirectory struct {
	lookup *restsvc.Lookup
}

// NewTenantDirectory creates the tenant directory adapter.
func NewTenantDirectory(lookup *restsvc.Lookup) *TenantDirectory {
	return &TenantDirectory{lookup: lookup}
}

// TenantByID resolves a tenant for the tasks module.
func (d *TenantDirectory) TenantByID(ctx context.Context, id uuid.UUID) (taskssvc.Tenant, error) {
	rest, err := d.lookup.GetByID(ctx, id)
	if err != nil {
		return taskssvc.Tenant{}, err
	}
	return taskssvc.Tenant{ID: rest.ID, Name: rest.Name, IsActive: rest.IsActive}, nil
}

// ActiveTenantsByCompany resolves a company's active tenants for fan-out.
func (d *TenantDirectory) ActiveTenantsByCompany(ctx context.Context, companyID uuid.UUID) ([]taskssvc.Tenant, error) {
	rests, err := d.lookup.ActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	tenants := make([]taskssvc.Tenant, 0, len(rests))
	for _, rest := range rests {
		tenants = append(tenants, taskssvc.Tenant{ID: rest.ID, Name: rest.Name, IsActive: rest.IsActive})
	}
	return tenants, nil
}

// UserIsActiveInTenant reports active membership of a user in a tenant.
func (d *TenantDirectory) UserIsActiveInTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	return d.lookup.UserIsActiveInRestaurant(ctx, userID, tenantID)
}

// Compile-time check against the tasks port.
var _ taskssvc.TenantDirectory = (*TenantDirectory)(nil)

// TenantResolver adapts the restaurants lookup to the leads conversion port.
type TenantResolver struct {
	lookup *restsvc.Lookup
}

// NewTenantResolver creates the tenant resolver adapter.
func NewTenantResolver(lookup *restsvc.Lookup) *TenantResolver {
	return &TenantResolver{lookup: lookup}
}

// TenantByID resolves an explicit conversion target.
func (r *TenantResolver) TenantByID(ctx context.Context, id uuid.UUID) (leadssvc.Tenant, error) {
	rest, err := r.lookup.GetByID(ctx, id)
	if err != nil {
		return leadssvc.Tenant{}, err
	}
	return leadssvc.Tenant{ID: rest.ID, Name: rest.Name}, nil
}

// FindActiveTenantByName resolves a conversion target by organization name.
func (r *TenantResolver) FindActiveTenantByName(ctx context.Context, name string) (leadssvc.Tenant, error) {
	rest, err := r.lookup.FindActiveByName(ctx, name)
	if err != nil {
		return leadssvc.Tenant{}, err
	}
	return leadssvc.Tenant{ID: rest.ID, Name: rest.Name}, nil
}

// Compile-time check against the leads port.
var _ leadssvc.TenantResolver = (*TenantResolver)(nil)
