// Package catalog imports curated reading lists and yearly challenges from
// JSON files and keeps them in sync with the store while the server runs.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/match"
)

// File kinds. Every catalog file declares one.
const (
	KindReadingList = "reading-list"
	KindChallenge   = "challenge"
)

// file is the top-level JSON shape shared by both kinds.
type file struct {
	Kind string `json:"kind"`

	// Reading list fields.
	Slug        string      `json:"slug,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Levels      []levelFile `json:"levels,omitempty"`

	// Challenge fields.
	Year   int         `json:"year,omitempty"`
	Months []monthFile `json:"months,omitempty"`
}

type levelFile struct {
	ID      string      `json:"id,omitempty"`
	Name    string      `json:"name"`
	Entries []entryFile `json:"entries"`
}

type entryFile struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}

type monthFile struct {
	Month int        `json:"month"`
	Theme string     `json:"theme,omitempty"`
	Books []bookFile `json:"books"`
}

type bookFile struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
}

// slugify derives a URL- and ID-safe token from free text. It reuses the
// matching normalizer so Turkish titles produce ASCII slugs.
func slugify(s string) string {
	return strings.ReplaceAll(match.Normalize(s), " ", "-")
}

// toReadingList converts a decoded file into the domain model. IDs omitted
// in the file are derived from slug and title, so they stay stable across
// re-imports and reorderings; links depend on that stability.
func (f *file) toReadingList(now time.Time) (*domain.ReadingList, error) {
	if f.Slug == "" {
		return nil, fmt.Errorf("reading list requires a slug")
	}
	if f.Title == "" {
		return nil, fmt.Errorf("reading list %q requires a title", f.Slug)
	}

	list := &domain.ReadingList{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          f.Slug,
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
	}

	seen := make(map[string]bool)
	for i, lf := range f.Levels {
		levelID := lf.ID
		if levelID == "" {
			levelID = f.Slug + "/" + slugify(lf.Name)
		}
		level := &domain.Level{
			ID:       levelID,
			ListID:   f.Slug,
			Name:     lf.Name,
			Position: i,
		}
		for j, ef := range lf.Entries {
			if ef.Title == "" {
				return nil, fmt.Errorf("list %q level %q: entry %d has no title", f.Slug, lf.Name, j)
			}
			entryID := ef.ID
			if entryID == "" {
				entryID = f.Slug + "/" + slugify(ef.Title)
			}
			if seen[entryID] {
				return nil, fmt.Errorf("list %q: duplicate entry id %q", f.Slug, entryID)
			}
			seen[entryID] = true

			level.Entries = append(level.Entries, &domain.CatalogEntry{
				ID:        entryID,
				LevelID:   levelID,
				Title:     ef.Title,
				Author:    ef.Author,
				Rationale: ef.Rationale,
				Position:  j,
			})
		}
		list.Levels = append(list.Levels, level)
	}

	return list, nil
}

// toChallenge converts a decoded file into the domain model, deriving stable
// IDs the same way reading lists do.
func (f *file) toChallenge(now time.Time) (*domain.Challenge, error) {
	if f.Year < 2000 || f.Year > 2200 {
		return nil, fmt.Errorf("challenge year %d out of range", f.Year)
	}

	challengeID := fmt.Sprintf("challenge-%d", f.Year)
	challenge := &domain.Challenge{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        challengeID,
		Year:      f.Year,
		Title:     f.Title,
	}

	seen := make(map[string]bool)
	for _, mf := range f.Months {
		if mf.Month < 1 || mf.Month > 12 {
			return nil, fmt.Errorf("challenge %d: month %d out of range", f.Year, mf.Month)
		}
		monthID := fmt.Sprintf("%s/%02d", challengeID, mf.Month)
		month := &domain.ChallengeMonth{
			ID:          monthID,
			ChallengeID: challengeID,
			Month:       mf.Month,
			Theme:       mf.Theme,
		}
		for j, bf := range mf.Books {
			if bf.Title == "" {
				return nil, fmt.Errorf("challenge %d month %d: book %d has no title", f.Year, mf.Month, j)
			}
			bookID := bf.ID
			if bookID == "" {
				bookID = monthID + "/" + slugify(bf.Title)
			}
			if seen[bookID] {
				return nil, fmt.Errorf("challenge %d: duplicate book id %q", f.Year, bookID)
			}
			seen[bookID] = true

			month.Books = append(month.Books, &domain.ChallengeBook{
				ID:       bookID,
				MonthID:  monthID,
				Title:    bf.Title,
				Author:   bf.Author,
				Position: j,
			})
		}
		challenge.Months = append(challenge.Months, month)
	}

	return challenge, nil
}
