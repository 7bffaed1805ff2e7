package models

import (
	"github.com/uptrace/bun"
)

type Track struct {
	bun.BaseModel `bun:"table:tracks,alias:t"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Title      string `bun:"title,notnull" json:"title"`
	ArtistName string `bun:"artist_name,notnull" json:"artist_name"`
}
