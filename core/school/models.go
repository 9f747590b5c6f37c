package school

import (
	"time"
)

type Level struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"` // UTC
}

func (Level) TableName() string { return "school_level" }
func (l Level) PrimaryKey() int64 { return l.ID }
func (l *Level) SetPrimaryKey(id int64) { l.ID = id }

// Grade belongs to exactly one Level; deleting the Level deletes its grades.
type Grade struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	SchoolLevelID int64     `db:"school_level_id"`
	CreatedAt     time.Time `db:"created_at"` // UTC
}

func (Grade) TableName() string { return "grade" }
func (g Grade) PrimaryKey() int64 { return g.ID }
func (g *Grade) SetPrimaryKey(id int64) { g.ID = id }

type LevelDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	CreatedAt time.Time `json:"created_at"`
}

func LevelToDTO(l *Level) LevelDTO {
	return LevelDTO{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt.UTC()}
}

func NewLevel(dto LevelDTO, now time.Time) *Level {
	return &Level{Name: dto.Name, CreatedAt: now.UTC()}
}

func ApplyLevel(l *Level, dto LevelDTO) {
	l.Name = dto.Name
}

type GradeDTO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required,max=100"`
	SchoolLevelID int64     `json:"school_level_id" validate:"required"`
	CreatedAt     time.Time `json:"created_at"`
}

func GradeToDTO(g *Grade) GradeDTO {
	return GradeDTO{ID: g.ID, Name: g.Name, SchoolLevelID: g.SchoolLevelID, CreatedAt: g.CreatedAt.UTC()}
}

func NewGrade(dto GradeDTO, now time.Time) *Grade {
	return &Grade{Name: dto.Name, SchoolLevelID: dto.SchoolLevelID, CreatedAt: now.UTC()}
}

func ApplyGrade(g *Grade, dto GradeDTO) {
	g.Name = dto.Name
	g.SchoolLevelID = dto.SchoolLevelID
}
