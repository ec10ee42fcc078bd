package service

import (
	"context"
	"testing"

	"resto_admin_backend/internal/audit/domain"
	"resto_admin_backend/internal/audit/repository"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type guardRepo struct {
	prior map[string]domain.Entry
}

func (r *guardRepo) Append(context.Context, domain.Entry) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (r *guardRepo) AppendTx(context.Context, pgx.Tx, domain.Entry) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (r *guardRepo) InsertIdempotencyKeyTx(context.Context, pgx.Tx, uuid.UUID, string, string, uuid.UUID) error {
	return nil
}

func (r *guardRepo) FindByIdempotencyKey(_ context.Context, entityID uuid.UUID, action, key string) (domain.Entry, bool, error) {
	entry, ok := r.prior[entityID.String()+"|"+action+"|"+key]
	return entry, ok, nil
}

func (r *guardRepo) List(context.Context, repository.ListFilters) ([]domain.Entry, int, error) {
	return nil, 0, nil
}

func TestGuardRequiresKey(t *testing.T) {
	guard := NewGuard(nil, &guardRepo{}, logger.New("test"))

	for _, key := range []string{"", "   ", "\t"} {
		_, err := guard.Run(context.Background(), Request{
			EntityType: domain.EntityOrder,
			EntityID:   uuid.New(),
			Action:     domain.ActionOrderCancel,
			Key:        key,
		}, func(context.Context, pgx.Tx) (Execution, error) {
			t.Fatal("guarded function ran without a key")
			return Execution{}, nil
		})
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Errorf("key %q: error kind = %v, want validation", key, apperr.GetKind(err))
		}
	}
}

func TestGuardReplaysPriorEntry(t *testing.T) {
	entityID := uuid.New()
	details, err := domain.EncodeDetail(domain.ActionOrderCancel, "retry-1", domain.StatusChangeDetail{
		PreviousStatus: "pending",
		NewStatus:      "cancelled",
	})
	if err != nil {
		t.Fatal(err)
	}
	prior := domain.Entry{ID: uuid.New(), Action: domain.ActionOrderCancel, Details: details}
	repo := &guardRepo{prior: map[string]domain.Entry{
		entityID.String() + "|" + domain.ActionOrderCancel + "|retry-1": prior,
	}}
	guard := NewGuard(nil, repo, logger.New("test"))

	result, err := guard.Run(context.Background(), Request{
		EntityType: domain.EntityOrder,
		EntityID:   entityID,
		Action:     domain.ActionOrderCancel,
		Key:        "retry-1",
		ActorID:    uuid.New(),
	}, func(context.Context, pgx.Tx) (Execution, error) {
		t.Fatal("guarded function ran on a replay")
		return Execution{}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Replayed {
		t.Error("Replayed = false, want true")
	}
	if result.EntryID != prior.ID {
		t.Errorf("EntryID = %v, want the prior entry %v", result.EntryID, prior.ID)
	}
	if string(result.Details) != string(details) {
		t.Errorf("Details = %s, want the originally stored payload", result.Details)
	}
}
