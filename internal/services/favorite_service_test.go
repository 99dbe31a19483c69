package services

import (
	"context"
	"errors"
	"testing"

	"campus-classifieds/internal/models"
)

func TestFavoriteToggle(t *testing.T) {
	db := setupTestDB(t)
	service := NewFavoriteService(db)

	owner := createUser(t, db, "owner", models.RoleStudent)
	fan := createUser(t, db, "fan", models.RoleStudent)
	property := createProperty(t, db, owner.ID, "Nice flat", "600")

	saved, err := service.Toggle(actorFor(fan), property.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !saved {
		t.Error("expected first toggle to save the property")
	}

	if favorited, err := service.IsFavorited(actorFor(fan), property.ID); err != nil || !favorited {
		t.Errorf("expected IsFavorited true, got %v %v", favorited, err)
	}

	// Toggling again unsaves
	saved, err = service.Toggle(actorFor(fan), property.ID)
	if err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if saved {
		t.Error("expected second toggle to unsave the property")
	}
	if favorited, _ := service.IsFavorited(actorFor(fan), property.ID); favorited {
		t.Error("expected IsFavorited false after unsave")
	}

	var nfe *NotFoundError
	if _, err := service.Toggle(actorFor(fan), 999); !errors.As(err, &nfe) {
		t.Errorf("expected NotFoundError for a missing property, got %v", err)
	}
}

func TestFavoritesRemovedWithProperty(t *testing.T) {
	db := setupTestDB(t)
	service := NewFavoriteService(db)
	mediaService, _ := newTestMedia()
	housing := NewHousingService(db, mediaService, nil)

	owner := createUser(t, db, "owner", models.RoleStudent)
	fan := createUser(t, db, "fan", models.RoleStudent)
	property := createProperty(t, db, owner.ID, "Short-lived flat", "500")

	if _, err := service.Toggle(actorFor(fan), property.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if err := housing.Delete(context.Background(), actorFor(owner), property.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Favorite{}).Where("property_id = ?", property.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected favorites removed with the property, got %d rows", count)
	}

	properties, err := service.ListProperties(actorFor(fan))
	if err != nil {
		t.Fatalf("ListProperties failed: %v", err)
	}
	if len(properties) != 0 {
		t.Errorf("expected an empty favorites list, got %d", len(properties))
	}
}

func TestFavoriteListOrder(t *testing.T) {
	db := setupTestDB(t)
	service := NewFavoriteService(db)

	owner := createUser(t, db, "owner", models.RoleStudent)
	fan := createUser(t, db, "fan", models.RoleStudent)
	first := createProperty(t, db, owner.ID, "First", "100")
	second := createProperty(t, db, owner.ID, "Second", "200")

	if _, err := service.Toggle(actorFor(fan), first.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if _, err := service.Toggle(actorFor(fan), second.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	properties, err := service.ListProperties(actorFor(fan))
	if err != nil {
		t.Fatalf("ListProperties failed: %v", err)
	}
	if len(properties) != 2 {
		t.Fatalf("expected 2 saved properties, got %d", len(properties))
	}
	if properties[0].ID != second.ID {
		t.Errorf("expected most recently saved first, got %q", properties[0].Title)
	}
}
