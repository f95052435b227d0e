package service

import (
	"context"
	"testing"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
)

func newBookService(env *testEnv) *BookService {
	return NewBookService(env.store, env.index, env.cache, env.dispatcher, env.logger)
}

func TestCreateBook_Defaults(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	svc := newBookService(env)

	book, err := svc.CreateBook(context.Background(), "user-1", CreateBookInput{
		Title:  "Tutunamayanlar",
		Author: "Oğuz Atay",
	})
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if book.Status != domain.StatusToRead {
		t.Errorf("default status: got %s", book.Status)
	}
	if book.ID == "" {
		t.Error("no ID assigned")
	}
}

func TestCreateBook_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	svc := newBookService(env)
	ctx := context.Background()

	if _, err := svc.CreateBook(ctx, "user-1", CreateBookInput{}); !domainerrors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("empty title: got %v", err)
	}

	pages := -5
	_, err := svc.CreateBook(ctx, "user-1", CreateBookInput{Title: "X", PageCount: &pages})
	if !domainerrors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("negative page count: got %v", err)
	}

	_, err = svc.CreateBook(ctx, "user-1", CreateBookInput{Title: "X", Status: "paused"})
	if !domainerrors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("unknown status: got %v", err)
	}
}

func TestGetBook_HiddenFromOtherUser(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")
	env.addBook(t, "book-1", "user-1", "Saatleri Ayarlama Enstitüsü", "Ahmet Hamdi Tanpınar")

	svc := newBookService(env)
	if _, err := svc.GetBook(context.Background(), "user-2", "book-1"); !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetProgress_CompletesAtFinalPage(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	svc := newBookService(env)
	ctx := context.Background()

	pages := 200
	book, err := svc.CreateBook(ctx, "user-1", CreateBookInput{Title: "İnce Memed", PageCount: &pages})
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	book, err = svc.SetProgress(ctx, "user-1", book.ID, 50)
	if err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	if book.Status != domain.StatusReading {
		t.Errorf("status after first pages: got %s, want reading", book.Status)
	}

	book, err = svc.SetProgress(ctx, "user-1", book.ID, 200)
	if err != nil {
		t.Fatalf("SetProgress to end: %v", err)
	}
	if book.Status != domain.StatusCompleted {
		t.Errorf("status at final page: got %s, want completed", book.Status)
	}

	if _, err := svc.SetProgress(ctx, "user-1", book.ID, 250); !domainerrors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("past-the-end progress: got %v", err)
	}
}

func TestSetGoal_BothOrNeither(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	svc := newBookService(env)
	ctx := context.Background()

	pages := 300
	book, err := svc.CreateBook(ctx, "user-1", CreateBookInput{Title: "Kürk Mantolu Madonna", PageCount: &pages})
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	start := time.Now()
	if _, err := svc.SetGoal(ctx, "user-1", book.ID, &start, nil); !domainerrors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("start without days: got %v", err)
	}

	days := 30
	if _, err := svc.SetGoal(ctx, "user-1", book.ID, &start, &days); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}

	goal, err := svc.GetGoal(ctx, "user-1", book.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if goal == nil {
		t.Fatal("expected goal info")
	}

	// Clearing the goal makes GetGoal return nil, which is not an error.
	if _, err := svc.SetGoal(ctx, "user-1", book.ID, nil, nil); err != nil {
		t.Fatalf("clear goal: %v", err)
	}
	goal, err = svc.GetGoal(ctx, "user-1", book.ID)
	if err != nil {
		t.Fatalf("GetGoal after clear: %v", err)
	}
	if goal != nil {
		t.Errorf("expected nil goal after clearing, got %+v", goal)
	}
}
