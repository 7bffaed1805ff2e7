package repositories

import (
	"context"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/uptrace/bun"
)

type MissionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByID(ctx context.Context, id int64) (*models.Mission, error)
	GetAll(ctx context.Context) ([]*models.Mission, error)
	GetByTrackID(ctx context.Context, trackID int64) ([]*models.Mission, error)
	Update(ctx context.Context, mission *models.Mission) error
	Delete(ctx context.Context, id int64) error
}

type missionRepository struct {
	db *bun.DB
}

func NewMissionRepository(db *bun.DB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) Create(ctx context.Context, mission *models.Mission) error {
	_, err := r.db.NewInsert().Model(mission).Exec(ctx)
	return err
}

func (r *missionRepository) GetByID(ctx context.Context, id int64) (*models.Mission, error) {
	mission := new(models.Mission)
	err := r.db.NewSelect().
		Model(mission).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return mission, nil
}

func (r *missionRepository) GetAll(ctx context.Context) ([]*models.Mission, error) {
	var missions []*models.Mission
	err := r.db.NewSelect().
		Model(&missions).
		Order("id ASC").
		Scan(ctx)
	return missions, err
}

func (r *missionRepository) GetByTrackID(ctx context.Context, trackID int64) ([]*models.Mission, error) {
	var missions []*models.Mission
	err := r.db.NewSelect().
		Model(&missions).
		Where("track_id = ?", trackID).
		Order("id ASC").
		Scan(ctx)
	return missions, err
}

func (r *missionRepository) Update(ctx context.Context, mission *models.Mission) error {
	_, err := r.db.NewUpdate().
		Model(mission).
		WherePK().
		Exec(ctx)
	return err
}

func (r *missionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Mission)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
