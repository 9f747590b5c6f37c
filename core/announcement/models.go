package announcement

import (
	"time"

	"github.com/trezcool/masomo/core"
)

// Ordering lists announcements newest first. Ties go to the latest created.
var Ordering = []core.DBOrdering{{Field: "posted_at", Ascending: false}, {Field: "id", Ascending: false}}

type Announcement struct {
	ID       int64     `db:"id"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`
	PostedAt time.Time `db:"posted_at"` // UTC, server assigned
}

func (Announcement) TableName() string { return "announcement" }
func (a Announcement) PrimaryKey() int64 { return a.ID }
func (a *Announcement) SetPrimaryKey(id int64) { a.ID = id }

// DTO is the public representation of an Announcement.
// ID is only read on updates and PostedAt is never read.
type DTO struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title" validate:"required,max=200"`
	Body     string    `json:"body" validate:"required"`
	PostedAt time.Time `json:"posted_at"`
}

func ToDTO(a *Announcement) DTO {
	return DTO{
		ID:       a.ID,
		Title:    a.Title,
		Body:     a.Body,
		PostedAt: a.PostedAt.UTC(),
	}
}

// New builds an Announcement posted at `now`.
func New(dto DTO, now time.Time) *Announcement {
	return &Announcement{
		Title:    dto.Title,
		Body:     dto.Body,
		PostedAt: now.UTC(),
	}
}

// Apply copies the mutable fields of dto into a.
func Apply(a *Announcement, dto DTO) {
	a.Title = dto.Title
	a.Body = dto.Body
}
