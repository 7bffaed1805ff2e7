package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CompletedMission records that a user finished a mission. Its existence is
// the completion flag; there is no boolean stored anywhere else. The
// (user_id, mission_id) pair is unique at the database level.
type CompletedMission struct {
	bun.BaseModel `bun:"table:completed_missions,alias:cm"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64     `bun:"user_id,notnull" json:"user_id"`
	MissionID   int64     `bun:"mission_id,notnull" json:"mission_id"`
	CompletedAt time.Time `bun:"completed_at,notnull,default:current_timestamp" json:"completed_at"`
}
