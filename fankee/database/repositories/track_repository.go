package repositories

import (
	"context"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/uptrace/bun"
)

type TrackRepository interface {
	Create(ctx context.Context, track *models.Track) error
	GetByID(ctx context.Context, id int64) (*models.Track, error)
	GetAll(ctx context.Context) ([]*models.Track, error)
	Update(ctx context.Context, track *models.Track) error
	Delete(ctx context.Context, id int64) error
}

type trackRepository struct {
	db *bun.DB
}

func NewTrackRepository(db *bun.DB) TrackRepository {
	return &trackRepository{db: db}
}

func (r *trackRepository) Create(ctx context.Context, track *models.Track) error {
	_, err := r.db.NewInsert().Model(track).Exec(ctx)
	return err
}

func (r *trackRepository) GetByID(ctx context.Context, id int64) (*models.Track, error) {
	track := new(models.Track)
	err := r.db.NewSelect().
		Model(track).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (r *trackRepository) GetAll(ctx context.Context) ([]*models.Track, error) {
	var tracks []*models.Track
	err := r.db.NewSelect().
		Model(&tracks).
		Order("id ASC").
		Scan(ctx)
	return tracks, err
}

func (r *trackRepository) Update(ctx context.Context, track *models.Track) error {
	_, err := r.db.NewUpdate().
		Model(track).
		WherePK().
		Exec(ctx)
	return err
}

func (r *trackRepository) Delete(ctx context.Context, id int64) error {
	// Missions and completions hanging off the track go with it via the
	// fk_missions_track / fk_completed_missions_mission cascades
	_, err := r.db.NewDelete().
		Model((*models.Track)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
