package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-service/internal/domain"
)

// RegistrationRepository persists registrations. Implementations must reject a
// second registration for the same (event, participant) pair with ErrDuplicate.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error)
	ListByParticipant(ctx context.Context, participantID string) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository constructs repository.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationColumns = `id, event_id, participant_id, status, created_at, updated_at`

func (r *registrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	const query = `
        INSERT INTO registrations (event_id, participant_id, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		registration.EventID,
		registration.ParticipantID,
		registration.Status,
		registration.CreatedAt,
		registration.UpdatedAt,
	).Scan(&registration.ID)
	return mapPgError(err)
}

func (r *registrationRepository) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id=$1 AND participant_id=$2`
	var registration domain.Registration
	if err := scanRegistration(r.pool.QueryRow(ctx, query, eventID, participantID), &registration); err != nil {
		return nil, mapPgError(err)
	}
	return &registration, nil
}

func (r *registrationRepository) ListByParticipant(ctx context.Context, participantID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE participant_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, participantID)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) list(ctx context.Context, query string, arg any) ([]domain.Registration, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	result := []domain.Registration{}
	for rows.Next() {
		var registration domain.Registration
		if err := scanRegistration(rows, &registration); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		result = append(result, registration)
	}
	return result, rows.Err()
}

func scanRegistration(row pgx.Row, registration *domain.Registration) error {
	return row.Scan(
		&registration.ID,
		&registration.EventID,
		&registration.ParticipantID,
		&registration.Status,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	)
}
