// Package schema declares the database contract the admin core depends on
// and verifies it once at startup. Modules never probe column presence per
// request; optional capabilities are resolved here and injected as flags.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// requirement is a table plus the columns the core reads or writes.
type requirement struct {
	table   string
	columns []string
}

// required is the closed set of tables and columns every deployment must have.
var required = []requirement{
	{table: "restaurants", columns: []string{"id", "name", "company_id", "is_active", "created_at", "updated_at"}},
	{table: "users", columns: []string{"id", "restaurant_id", "is_active"}},
	{table: "orders", columns: []string{"id", "restaurant_id", "status", "customer_name", "customer_email", "customer_phone", "total_cents", "created_at", "updated_at"}},
	{table: "campaigns", columns: []string{"id", "restaurant_id", "name", "status", "rejection_reason", "scheduled_at", "created_at", "updated_at"}},
	{table: "tasks", columns: []string{"id", "scope", "restaurant_id", "company_id", "parent_task_group_id", "title", "description", "status", "priority", "task_type", "assigned_to", "due_date", "completed_at", "created_at", "updated_at"}},
	{table: "demo_bookings", columns: []string{"id", "contact_name", "contact_email", "contact_phone", "organization_name", "status", "conversion_stage", "converted_task_id", "created_at", "updated_at"}},
	{table: "audit_log", columns: []string{"id", "restaurant_id", "actor_id", "action", "entity_type", "entity_id", "details", "created_at"}},
	{table: "idempotency_keys", columns: []string{"entity_id", "action", "idem_key", "audit_log_id", "created_at"}},
}

// Capabilities reports which optional columns the connected database carries.
type Capabilities struct {
	CampaignActivation bool
}

// SupportsCampaignActivation reports whether campaigns carry an is_active
// flag that cascading restaurant deactivation may propagate to.
func (c Capabilities) SupportsCampaignActivation() bool {
	return c.CampaignActivation
}

// Verify checks that every required table and column exists and resolves
// optional capabilities. It is called once from the composition root; a
// missing requirement aborts startup.
func Verify(ctx context.Context, pool *pgxpool.Pool) (Capabilities, error) {
	present, err := loadColumns(ctx, pool)
	if err != nil {
		return Capabilities{}, fmt.Errorf("load schema columns: %w", err)
	}

	var missing []string
	for _, req := range required {
		cols, ok := present[req.table]
		if !ok {
			missing = append(missing, req.table)
			continue
		}
		for _, col := range req.columns {
			if !cols[col] {
				missing = append(missing, req.table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		return Capabilities{}, fmt.Errorf("schema contract violated, missing: %s", strings.Join(missing, ", "))
	}

	caps := Capabilities{
		CampaignActivation: present["campaigns"]["is_active"],
	}
	return caps, nil
}

func loadColumns(ctx context.Context, pool *pgxpool.Pool) (map[string]map[string]bool, error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		if present[table] == nil {
			present[table] = make(map[string]bool)
		}
		present[table][column] = true
	}
	return present, rows.Err()
}
