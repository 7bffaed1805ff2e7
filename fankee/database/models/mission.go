package models

import (
	"github.com/uptrace/bun"
)

type Mission struct {
	bun.BaseModel `bun:"table:missions,alias:m"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	TrackID int64  `bun:"track_id,notnull" json:"track_id"`
	Title   string `bun:"title,notnull" json:"title"`
	Points  int64  `bun:"points,notnull,default:0" json:"points"`
}
