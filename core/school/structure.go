package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
)

// ErrNoGrades is returned by GradesByLevel when the level has no grade.
// The level itself is not looked up: an unknown level and an empty one look the same.
var ErrNoGrades = errors.New("no grades found for this school level")

type (
	// Summary is the {id, name} projection of levels and grades.
	Summary struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	LevelStructure struct {
		ID     int64     `json:"id"`
		Name   string    `json:"name"`
		Grades []Summary `json:"grades"`
	}
)

// Levels returns every level ordered by id.
func Levels(ctx context.Context, levels core.Repository[Level]) ([]Summary, error) {
	all, err := levels.Query().OrderBy(core.OrderByID).All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying school levels")
	}
	res := make([]Summary, 0, len(all))
	for _, l := range all {
		res = append(res, Summary{ID: l.ID, Name: l.Name})
	}
	return res, nil
}

// GradesByLevel returns the grades of a level ordered by id, or ErrNoGrades.
func GradesByLevel(ctx context.Context, grades core.Repository[Grade], levelID int64) ([]Summary, error) {
	res, err := gradesOf(ctx, grades, levelID)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrNoGrades
	}
	return res, nil
}

// CompleteStructure inlines the ordered grades of every level.
// Grades are fetched with one query per level.
func CompleteStructure(ctx context.Context, levels core.Repository[Level], grades core.Repository[Grade]) ([]LevelStructure, error) {
	all, err := levels.Query().OrderBy(core.OrderByID).All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying school levels")
	}
	res := make([]LevelStructure, 0, len(all))
	for _, l := range all {
		lg, err := gradesOf(ctx, grades, l.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, LevelStructure{ID: l.ID, Name: l.Name, Grades: lg})
	}
	return res, nil
}

func gradesOf(ctx context.Context, grades core.Repository[Grade], levelID int64) ([]Summary, error) {
	all, err := grades.Query().
		Filter("school_level_id", levelID).
		OrderBy(core.OrderByID).
		All(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "querying grades of school level %d", levelID)
	}
	res := make([]Summary, 0, len(all))
	for _, g := range all {
		res = append(res, Summary{ID: g.ID, Name: g.Name})
	}
	return res, nil
}
