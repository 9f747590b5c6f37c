package database

import (
	"context"
	"io/fs"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/announcement"
	"github.com/trezcool/masomo/core/school"
	appfs "github.com/trezcool/masomo/fs"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

type seedData struct {
	Levels []struct {
		Name   string   `yaml:"name"`
		Grades []string `yaml:"grades"`
	} `yaml:"levels"`
	Announcements []struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"announcements"`
}

func loadSeed(fsys fs.FS, name string) (*seedData, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	data := new(seedData)
	if err = yaml.Unmarshal(raw, data); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	return data, nil
}

// Seed populates an empty store with the embedded school structure and announcements.
// Tables that already hold rows are left untouched, so it is safe to call on every start.
func Seed(ctx context.Context, db *sqlxstore.DB, logger core.Logger, now time.Time) error {
	return seed(ctx, db, logger, appfs.FS, appfs.SchoolSeedFile, now)
}

func seed(ctx context.Context, db *sqlxstore.DB, logger core.Logger, fsys fs.FS, name string, now time.Time) error {
	data, err := loadSeed(fsys, name)
	if err != nil {
		return err
	}
	c := db.NewContext()

	levelCount, err := sqlxstore.Set[school.Level](c).Count(ctx)
	if err != nil {
		return errors.Wrap(err, "counting school levels")
	}
	if levelCount == 0 {
		// levels are saved first: grades need their ids
		levels := make([]*school.Level, 0, len(data.Levels))
		for _, l := range data.Levels {
			lvl := school.NewLevel(school.LevelDTO{Name: l.Name}, now)
			levels = append(levels, lvl)
			c.Add(lvl)
		}
		if err = c.Save(ctx); err != nil {
			return errors.Wrap(err, "seeding school levels")
		}

		for i, l := range data.Levels {
			for _, name := range l.Grades {
				c.Add(school.NewGrade(school.GradeDTO{Name: name, SchoolLevelID: levels[i].ID}, now))
			}
		}
		if err = c.Save(ctx); err != nil {
			return errors.Wrap(err, "seeding grades")
		}
		logger.Info("seeded school structure", map[string]interface{}{"levels": len(levels)})
	}

	annCount, err := sqlxstore.Set[announcement.Announcement](c).Count(ctx)
	if err != nil {
		return errors.Wrap(err, "counting announcements")
	}
	if annCount == 0 {
		for _, a := range data.Announcements {
			c.Add(announcement.New(announcement.DTO{Title: a.Title, Body: a.Body}, now))
		}
		if err = c.Save(ctx); err != nil {
			return errors.Wrap(err, "seeding announcements")
		}
		logger.Info("seeded announcements", map[string]interface{}{"announcements": len(data.Announcements)})
	}
	return nil
}
