package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/match"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// ResolverService batch-matches a user's unlinked books against a list's
// unlinked entries and creates links for confident matches.
type ResolverService struct {
	store      store.Store
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewResolverService creates a new resolver service.
func NewResolverService(st store.Store, dispatcher *cache.Dispatcher, logger *slog.Logger) *ResolverService {
	return &ResolverService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ResolveOptions configures a resolution run.
type ResolveOptions struct {
	// DryRun reports what would be linked without persisting anything.
	DryRun bool
}

// ResolvedMatch is one entry/book pairing produced by a run.
type ResolvedMatch struct {
	EntryID    string     `json:"entry_id"`
	EntryTitle string     `json:"entry_title"`
	BookID     string     `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	Tier       match.Tier `json:"tier"`
	Score      float64    `json:"score"`
	Linked     bool       `json:"linked"`
}

// ResolveReport summarizes a resolution run.
type ResolveReport struct {
	RunID       string          `json:"run_id"`
	ListSlug    string          `json:"list_slug"`
	StartedAt   time.Time       `json:"started_at"`
	DryRun      bool            `json:"dry_run"`
	Matches     []ResolvedMatch `json:"matches"`
	Suggestions []ResolvedMatch `json:"suggestions"`
	LinkedCount int             `json:"linked_count"`
	Conflicts   int             `json:"conflicts"`
}

// candidate is a scored entry/book pair awaiting greedy selection.
type candidate struct {
	entryIdx   int
	bookIdx    int
	confidence match.Confidence
	bookTitle  string // normalized, for deterministic tie-breaking
}

// Resolve links a user's unlinked books to a list's unlinked entries.
//
// The run is deterministic: candidate pairs are scored, sorted by score
// descending with ties broken by entry position then normalized book title,
// and consumed greedily so each entry and each book participates at most
// once. Only auto-linkable matches are persisted; medium and low confidence
// pairs are reported as suggestions. Re-running after completion is a no-op
// because linked entries and books no longer appear in the inputs.
func (s *ResolverService) Resolve(ctx context.Context, userID, listSlug string, opts ResolveOptions) (*ResolveReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetReadingList(ctx, listSlug); err != nil {
		return nil, err
	}

	entries, err := s.store.FindUnlinkedEntries(ctx, userID, listSlug)
	if err != nil {
		return nil, err
	}
	books, err := s.store.FindUnlinkedBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ResolveReport{
		RunID:     uuid.NewString(),
		ListSlug:  listSlug,
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}

	candidates := s.scorePairs(entries, books)

	entryUsed := make([]bool, len(entries))
	bookUsed := make([]bool, len(books))

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entryUsed[c.entryIdx] || bookUsed[c.bookIdx] {
			continue
		}
		entryUsed[c.entryIdx] = true
		bookUsed[c.bookIdx] = true

		entry := entries[c.entryIdx]
		book := books[c.bookIdx]
		resolved := ResolvedMatch{
			EntryID:    entry.ID,
			EntryTitle: entry.Title,
			BookID:     book.ID,
			BookTitle:  book.Title,
			Tier:       c.confidence.Tier,
			Score:      c.confidence.Score,
		}

		if !c.confidence.AutoLinkable {
			report.Suggestions = append(report.Suggestions, resolved)
			continue
		}

		if !opts.DryRun {
			link := &domain.CatalogLink{
				CreatedAt: time.Now(),
				UserID:    userID,
				EntryID:   entry.ID,
				BookID:    &book.ID,
			}
			if err := s.store.CreateLink(ctx, link); err != nil {
				if domainerrors.Is(err, store.ErrAlreadyLinked) {
					// A concurrent manual link won this pair; skip it.
					report.Conflicts++
					continue
				}
				return nil, err
			}
			resolved.Linked = true
			report.LinkedCount++
		}

		report.Matches = append(report.Matches, resolved)
	}

	s.logger.Info("resolution run finished",
		"run_id", report.RunID,
		"user_id", userID,
		"list", listSlug,
		"dry_run", opts.DryRun,
		"linked", report.LinkedCount,
		"suggestions", len(report.Suggestions),
		"conflicts", report.Conflicts,
	)

	if report.LinkedCount > 0 {
		if err := s.dispatcher.LinkChanged(userID, ""); err != nil {
			s.logger.Warn("cache invalidation after resolve failed", "user_id", userID, "error", err)
		}
	}

	return report, nil
}

// scorePairs builds the sorted candidate list. Books without a title and
// pairs below the low-confidence threshold never become candidates.
func (s *ResolverService) scorePairs(entries []*domain.CatalogEntry, books []*domain.Book) []candidate {
	var candidates []candidate
	for ei, entry := range entries {
		for bi, book := range books {
			if !book.HasTitle() {
				continue
			}

			titleScore := match.MatchTitle(entry.Title, book.Title)

			var authorScore *float64
			if entry.Author != "" && book.Author != "" {
				score := match.MatchAuthor(entry.Author, book.Author)
				authorScore = &score
			}

			conf := match.Classify(titleScore, authorScore)
			if !conf.AutoLinkable && !conf.SuggestionWorthy {
				continue
			}

			candidates = append(candidates, candidate{
				entryIdx:   ei,
				bookIdx:    bi,
				confidence: conf,
				bookTitle:  match.Normalize(book.Title),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.confidence.Score != b.confidence.Score {
			return a.confidence.Score > b.confidence.Score
		}
		if a.entryIdx != b.entryIdx {
			// Entries arrive in level/position order.
			return a.entryIdx < b.entryIdx
		}
		if a.bookTitle != b.bookTitle {
			return a.bookTitle < b.bookTitle
		}
		return a.bookIdx < b.bookIdx
	})

	return candidates
}
