package repositories

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/uptrace/bun"
)

type CompletionRepository interface {
	Create(ctx context.Context, completion *models.CompletedMission) error
	GetByID(ctx context.Context, id int64) (*models.CompletedMission, error)
	GetAll(ctx context.Context) ([]*models.CompletedMission, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.CompletedMission, error)
	ExistsForPair(ctx context.Context, userID, missionID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	GetUserPoints(ctx context.Context, userID int64) (int64, error)
	GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type completionRepository struct {
	db *bun.DB
}

func NewCompletionRepository(db *bun.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Create(ctx context.Context, completion *models.CompletedMission) error {
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(completion).Exec(ctx)
	return err
}

func (r *completionRepository) GetByID(ctx context.Context, id int64) (*models.CompletedMission, error) {
	completion := new(models.CompletedMission)
	err := r.db.NewSelect().
		Model(completion).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func (r *completionRepository) GetAll(ctx context.Context) ([]*models.CompletedMission, error) {
	var completions []*models.CompletedMission
	err := r.db.NewSelect().
		Model(&completions).
		Order("id ASC").
		Scan(ctx)
	return completions, err
}

func (r *completionRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.CompletedMission, error) {
	var completions []*models.CompletedMission
	err := r.db.NewSelect().
		Model(&completions).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	return completions, err
}

func (r *completionRepository) ExistsForPair(ctx context.Context, userID, missionID int64) (bool, error) {
	return r.db.NewSelect().
		Model((*models.CompletedMission)(nil)).
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Exists(ctx)
}

func (r *completionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.CompletedMission)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// GetUserPoints sums mission points over the user's completions. The database
// is the only place totals are ever derived.
func (r *completionRepository) GetUserPoints(ctx context.Context, userID int64) (int64, error) {
	var points int64
	err := r.db.NewRaw(`
		SELECT COALESCE(SUM(m.points), 0)
		FROM missions m
		JOIN completed_missions cm ON cm.mission_id = m.id
		WHERE cm.user_id = ?`, userID).
		Scan(ctx, &points)
	return points, err
}

// GetLeaderboard returns every user with at least one completion, ordered by
// total points descending. Ordering is decided here; clients must not re-sort.
func (r *completionRepository) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries := make([]models.LeaderboardEntry, 0)
	err := r.db.NewRaw(`
		SELECT u.nickname AS nickname, COALESCE(SUM(m.points), 0) AS points
		FROM users u
		JOIN completed_missions cm ON cm.user_id = u.id
		JOIN missions m ON m.id = cm.mission_id
		GROUP BY u.id
		ORDER BY SUM(m.points) DESC`).
		Scan(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
