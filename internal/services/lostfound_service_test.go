package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-classifieds/internal/models"
)

func validLostItemInput() LostItemInput {
	return LostItemInput{
		ItemType:    "keys",
		ItemName:    "Dorm key bundle",
		Description: "Three keys on a red lanyard",
		Location:    "Main library, second floor",
		City:        "Legon",
		DateLost:    time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
		Status:      models.ItemLost,
		ContactInfo: "room 12b",
	}
}

func TestLostItemCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewLostFoundService(db, mediaService, nil)
	reporter := createUser(t, db, "reporter", models.RoleStudent)

	// Reports can start as lost or found, nothing else
	in := validLostItemInput()
	in.Status = models.ItemReturned
	_, err := service.Create(context.Background(), actorFor(reporter), in)
	assertValidationField(t, err, "status")

	in = validLostItemInput()
	in.Status = models.ItemFound
	item, err := service.Create(context.Background(), actorFor(reporter), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if item.Status != models.ItemFound {
		t.Errorf("expected a found report, got %s", item.Status)
	}

	// The loss date cannot be in the future
	in = validLostItemInput()
	in.DateLost = time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	_, err = service.Create(context.Background(), actorFor(reporter), in)
	assertValidationField(t, err, "date_lost")

	in = validLostItemInput()
	in.DateLost = "not-a-date"
	_, err = service.Create(context.Background(), actorFor(reporter), in)
	assertValidationField(t, err, "date_lost")
}

func TestLostItemMarkReturned(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewLostFoundService(db, mediaService, nil)

	reporter := createUser(t, db, "reporter", models.RoleStudent)
	stranger := createUser(t, db, "stranger", models.RoleStudent)

	item, err := service.Create(context.Background(), actorFor(reporter), validLostItemInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var perr *PermissionError
	if _, err := service.MarkReturned(actorFor(stranger), item.ID); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for non-reporter, got %v", err)
	}

	returned, err := service.MarkReturned(actorFor(reporter), item.ID)
	if err != nil {
		t.Fatalf("MarkReturned failed: %v", err)
	}
	if returned.Status != models.ItemReturned || returned.ReturnedAt == nil {
		t.Errorf("expected returned with timestamp, got %s %v", returned.Status, returned.ReturnedAt)
	}

	firstReturnedAt := *returned.ReturnedAt
	again, err := service.MarkReturned(actorFor(reporter), item.ID)
	if err != nil {
		t.Fatalf("second MarkReturned failed: %v", err)
	}
	if !again.ReturnedAt.Equal(firstReturnedAt) {
		t.Error("expected repeated MarkReturned to keep the original timestamp")
	}
}

func TestLostItemUpdateKeepsReturnedState(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewLostFoundService(db, mediaService, nil)

	reporter := createUser(t, db, "reporter", models.RoleStudent)
	item, err := service.Create(context.Background(), actorFor(reporter), validLostItemInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := service.MarkReturned(actorFor(reporter), item.ID); err != nil {
		t.Fatalf("MarkReturned failed: %v", err)
	}

	// An edit cannot resurrect a returned report
	in := validLostItemInput()
	in.Status = models.ItemLost
	updated, err := service.Update(context.Background(), actorFor(reporter), item.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.ItemReturned {
		t.Errorf("expected returned to stick, got %s", updated.Status)
	}
	if updated.ReturnedAt == nil {
		t.Error("expected the returned timestamp preserved")
	}
}

func TestLostItemSearch(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewLostFoundService(db, mediaService, nil)

	reporter := createUser(t, db, "reporter", models.RoleStudent)

	lost, err := service.Create(context.Background(), actorFor(reporter), validLostItemInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	in := validLostItemInput()
	in.ItemName = "Black wallet"
	in.ItemType = "wallet"
	in.Status = models.ItemFound
	if _, err := service.Create(context.Background(), actorFor(reporter), in); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	in = validLostItemInput()
	in.ItemName = "Old umbrella"
	in.ItemType = "other"
	returned, err := service.Create(context.Background(), actorFor(reporter), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := service.MarkReturned(actorFor(reporter), returned.ID); err != nil {
		t.Fatalf("MarkReturned failed: %v", err)
	}

	// Returned reports are out of the default feed
	_, total, _, err := service.Search(LostItemSearchParams{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected returned items excluded by default, got %d", total)
	}

	// But the archive is reachable on request
	_, total, _, err = service.Search(LostItemSearchParams{IncludeReturned: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected returned items included, got %d", total)
	}

	results, total, _, err := service.Search(LostItemSearchParams{Status: models.ItemLost})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || results[0].ID != lost.ID {
		t.Errorf("expected only the lost report, got %d", total)
	}

	_, total, _, err = service.Search(LostItemSearchParams{ItemType: "wallet"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected the item type filter applied, got %d", total)
	}

	// Location text is searchable
	_, total, _, err = service.Search(LostItemSearchParams{Query: "library"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected location matches, got %d", total)
	}
}
