package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/service"
)

const (
	incidentsCacheKey        = "incidents:all"
	incidentsCacheVersionKey = "incidents:version"

	// foreign_key_violation
	pgForeignKeyViolation = "23503"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

const selectIncidents = `
	SELECT
		id,
		type,
		tag,
		priority,
		status,
		address,
		description,
		lat,
		lon,
		assigned_vehicles,
		created_at
	FROM incidents
`

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (id, type, tag, priority, status, address, description, lat, lon, assigned_vehicles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		incident.ID,
		incident.Type,
		incident.Tag,
		incident.Priority.String(),
		incident.Status.String(),
		incident.Address,
		incident.Description,
		incident.Location.Lat,
		incident.Location.Lon,
		vehiclesOrEmpty(incident.AssignedVehicles),
		incident.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент вместе с журналом заметок
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	row := r.db.QueryRow(ctx, selectIncidents+` WHERE id = $1;`, id)
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	notes, err := r.notesByIncident(ctx, `WHERE incident_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if n, ok := notes[id]; ok {
		incident.Notes = n
	}
	return &incident, nil
}

// Update сохраняет изменяемые поля инцидента
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			type = $1,
			tag = $2,
			priority = $3,
			status = $4,
			address = $5,
			description = $6,
			assigned_vehicles = $7,
			updated_at = NOW()
		WHERE id = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		incident.Type,
		incident.Tag,
		incident.Priority.String(),
		incident.Status.String(),
		incident.Address,
		incident.Description,
		vehiclesOrEmpty(incident.AssignedVehicles),
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", incident.ID, service.ErrNotFound)
	}
	return nil
}

// Delete удаляет инцидент; заметки удаляются каскадом
func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// List возвращает все инциденты, новые первыми
func (r *IncidentRepository) List(ctx context.Context) ([]models.Incident, error) {
	rows, err := r.db.Query(ctx, selectIncidents+` ORDER BY created_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}

	notes, err := r.notesByIncident(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range incidents {
		if n, ok := notes[incidents[i].ID]; ok {
			incidents[i].Notes = n
		}
	}
	return incidents, nil
}

// AddNote сохраняет заметку в журнал инцидента
func (r *IncidentRepository) AddNote(ctx context.Context, incidentID string, note *models.Note) error {
	query := `
		INSERT INTO incident_notes (id, incident_id, author, content, attachment_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		note.ID,
		incidentID,
		note.Author,
		note.Content,
		note.AttachmentURL,
		note.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("incident with id %s: %w", incidentID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

// notesByIncident читает заметки в порядке добавления, сгруппированные по инциденту
func (r *IncidentRepository) notesByIncident(ctx context.Context, where string, args ...any) (map[string][]models.Note, error) {
	query := `
		SELECT incident_id, id, author, content, attachment_url, created_at
		FROM incident_notes
		` + where + `
		ORDER BY seq;
	`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make(map[string][]models.Note)
	for rows.Next() {
		var incidentID string
		var n models.Note
		if err := rows.Scan(&incidentID, &n.ID, &n.Author, &n.Content, &n.AttachmentURL, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes[incidentID] = append(notes[incidentID], n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error notes iteration: %w", err)
	}
	return notes, nil
}

func scanIncident(row pgx.Row) (models.Incident, error) {
	var (
		inc              models.Incident
		priority, status string
	)
	err := row.Scan(
		&inc.ID,
		&inc.Type,
		&inc.Tag,
		&priority,
		&status,
		&inc.Address,
		&inc.Description,
		&inc.Location.Lat,
		&inc.Location.Lon,
		&inc.AssignedVehicles,
		&inc.Timestamp,
	)
	if err != nil {
		return models.Incident{}, err
	}

	if inc.Priority, err = models.ParsePriority(priority); err != nil {
		return models.Incident{}, err
	}
	if inc.Status, err = models.ParseIncidentStatus(status); err != nil {
		return models.Incident{}, err
	}
	inc.AssignedVehicles = vehiclesOrEmpty(inc.AssignedVehicles)
	inc.Notes = []models.Note{}
	return inc, nil
}

func vehiclesOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// GetIncidentsFromCache возвращает список из Redis; nil без ошибки означает промах
func (r *IncidentRepository) GetIncidentsFromCache(ctx context.Context) ([]models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incidents from cache: %w", err)
	}

	incidents := make([]models.Incident, 0)
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incidents from cache: %w", err)
	}
	return incidents, nil
}

// IncidentsCacheVersion возвращает текущее поколение кэша списка.
// Каждая инвалидация увеличивает его на единицу.
func (r *IncidentRepository) IncidentsCacheVersion(ctx context.Context) (int64, error) {
	v, err := cacheVersion(ctx, r.redisClient)
	if err != nil {
		return 0, fmt.Errorf("failed to get incidents cache version: %w", err)
	}
	return v, nil
}

// SetIncidentsCache сохраняет список в Redis на cacheTTL, только если с момента
// чтения version кэш не инвалидировали. Иначе возвращает service.ErrStaleCache.
func (r *IncidentRepository) SetIncidentsCache(ctx context.Context, incidents []models.Incident, version int64) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incidents for cache: %w", err)
	}

	err = r.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := cacheVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return service.ErrStaleCache
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, incidentsCacheKey, val, r.cacheTTL)
			return nil
		})
		return err
	}, incidentsCacheVersionKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrStaleCache):
		return err
	case errors.Is(err, redis.TxFailedErr):
		// версию изменили между WATCH и EXEC
		return service.ErrStaleCache
	default:
		return fmt.Errorf("failed to set incidents in cache: %w", err)
	}
}

// InvalidateIncidentsCache удаляет список из Redis и сдвигает поколение кэша
func (r *IncidentRepository) InvalidateIncidentsCache(ctx context.Context) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, incidentsCacheVersionKey)
		pipe.Del(ctx, incidentsCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate incidents cache: %w", err)
	}
	return nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func cacheVersion(ctx context.Context, c stringGetter) (int64, error) {
	v, err := c.Get(ctx, incidentsCacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
