package services

import (
	"context"
	"errors"
	"testing"

	"campus-classifieds/internal/models"
)

func validRestaurantInput() RestaurantInput {
	return RestaurantInput{
		Name:        "Night Market Grill",
		Description: "Open late",
		Cuisine:     "local",
		Address:     "3 Campus Drive",
		City:        "Legon",
		Phone:       "0200000001",
	}
}

func TestRestaurantCreateStartsUnverified(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewFoodService(db, mediaService)

	owner := createUser(t, db, "owner", models.RoleVendor)

	restaurant, err := service.Create(actorFor(owner), validRestaurantInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if restaurant.IsVerified {
		t.Error("expected a new restaurant to start unverified")
	}
	if restaurant.Status != models.RestaurantActive {
		t.Errorf("expected active status, got %s", restaurant.Status)
	}
}

func TestRestaurantVerifyIsStaffOnly(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewFoodService(db, mediaService)

	owner := createUser(t, db, "owner", models.RoleVendor)
	staff := createUser(t, db, "mod", models.RoleStaff)
	restaurant := createRestaurant(t, db, owner.ID, "Corner Chop Bar")

	// Not even the owner can self-verify
	var perr *PermissionError
	if _, err := service.SetVerified(actorFor(owner), restaurant.ID, true); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for the owner, got %v", err)
	}

	verified, err := service.SetVerified(actorFor(staff), restaurant.ID, true)
	if err != nil {
		t.Fatalf("SetVerified failed: %v", err)
	}
	if !verified.IsVerified {
		t.Error("expected the restaurant to be verified")
	}
}

func TestRestaurantCloseIdempotent(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewFoodService(db, mediaService)

	owner := createUser(t, db, "owner", models.RoleVendor)
	restaurant := createRestaurant(t, db, owner.ID, "Closing Soon")

	closed, err := service.Close(actorFor(owner), restaurant.ID)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.Status != models.RestaurantClosed || closed.ClosedAt == nil {
		t.Errorf("expected closed with timestamp, got %s %v", closed.Status, closed.ClosedAt)
	}

	firstClosedAt := *closed.ClosedAt
	again, err := service.Close(actorFor(owner), restaurant.ID)
	if err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if !again.ClosedAt.Equal(firstClosedAt) {
		t.Error("expected repeated Close to keep the original timestamp")
	}
}

func TestMenuItemLifecycle(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewFoodService(db, mediaService)

	owner := createUser(t, db, "owner", models.RoleVendor)
	stranger := createUser(t, db, "stranger", models.RoleStudent)
	restaurant := createRestaurant(t, db, owner.ID, "Jollof Palace")

	item, err := service.AddMenuItem(actorFor(owner), restaurant.ID, MenuItemInput{
		Name:        "Jollof rice",
		Price:       "12.50",
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}

	// Menu mutations run under the restaurant's ownership guard
	var perr *PermissionError
	_, err = service.AddMenuItem(actorFor(stranger), restaurant.ID, MenuItemInput{Name: "x", Price: "1"})
	if !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for non-owner, got %v", err)
	}
	if _, err := service.UpdateMenuItem(actorFor(stranger), item.ID, MenuItemInput{Name: "x", Price: "1"}); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for non-owner update, got %v", err)
	}

	updated, err := service.UpdateMenuItem(actorFor(owner), item.ID, MenuItemInput{
		Name:        "Jollof rice with chicken",
		Price:       "15",
		IsAvailable: false,
	})
	if err != nil {
		t.Fatalf("UpdateMenuItem failed: %v", err)
	}
	if updated.IsAvailable {
		t.Error("expected the item to be marked unavailable")
	}

	if err := service.DeleteMenuItem(context.Background(), actorFor(owner), item.ID); err != nil {
		t.Fatalf("DeleteMenuItem failed: %v", err)
	}
	menu, err := service.ListMenu(restaurant.ID)
	if err != nil {
		t.Fatalf("ListMenu failed: %v", err)
	}
	if len(menu) != 0 {
		t.Errorf("expected an empty menu, got %d items", len(menu))
	}
}

func TestRestaurantDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	mediaService, store := newTestMedia()
	service := NewFoodService(db, mediaService)
	reviews := NewReviewService(db)

	owner := createUser(t, db, "owner", models.RoleVendor)
	diner := createUser(t, db, "diner", models.RoleStudent)
	restaurant := createRestaurant(t, db, owner.ID, "Doomed Diner")
	restaurant.ImageID = "campus/restaurants/front"
	db.Save(restaurant)

	_, err := service.AddMenuItem(actorFor(owner), restaurant.ID, MenuItemInput{
		Name:    "Waakye",
		Price:   "10",
		ImageID: "campus/menu/waakye",
	})
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}
	if _, err := reviews.Upsert(actorFor(diner), restaurant.ID, 4, "solid"); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if err := service.Delete(context.Background(), actorFor(owner), restaurant.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var menuCount, reviewCount int64
	db.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurant.ID).Count(&menuCount)
	db.Model(&models.Review{}).Where("restaurant_id = ?", restaurant.ID).Count(&reviewCount)
	if menuCount != 0 || reviewCount != 0 {
		t.Errorf("expected menu and reviews removed, got %d menu %d reviews", menuCount, reviewCount)
	}

	destroyed := store.Destroyed()
	if len(destroyed) != 2 {
		t.Fatalf("expected the restaurant and menu images destroyed, got %v", destroyed)
	}
}
