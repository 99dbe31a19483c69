package services

import (
	"fmt"
	"testing"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

func TestProductSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewProductService(db, mediaService)

	seller := createUser(t, db, "seller", models.RoleStudent)
	books := createCategory(t, db, "Books & Textbooks")
	electronics := createCategory(t, db, "Electronics & Gadgets")

	createProduct(t, db, seller.ID, books.ID, "Linear Algebra", "40")
	createProduct(t, db, seller.ID, books.ID, "Organic Chemistry", "55")
	phone := createProduct(t, db, seller.ID, electronics.ID, "Used phone", "120")
	phone.Description = "cracked screen but works"
	db.Save(phone)

	anon := auth.Actor{}

	// Category narrows the result set
	results, total, _, err := service.Search(anon, ProductSearchParams{CategoryID: books.ID})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Errorf("expected 2 book listings, got total=%d len=%d", total, len(results))
	}

	// min == max matches listings priced exactly at the bound
	results, total, _, err = service.Search(anon, ProductSearchParams{MinPrice: "55", MaxPrice: "55"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || results[0].Title != "Organic Chemistry" {
		t.Errorf("expected the exactly-priced listing, got total=%d", total)
	}

	// A description-only token match qualifies the row
	_, total, _, err = service.Search(anon, ProductSearchParams{Query: "cracked"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected description match, got total=%d", total)
	}

	// Unknown category matches nothing instead of erroring
	_, total, _, err = service.Search(anon, ProductSearchParams{CategoryID: 999})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected empty result for unknown category, got total=%d", total)
	}
}

func TestProductSearchExcludesSold(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewProductService(db, mediaService)

	seller := createUser(t, db, "seller", models.RoleStudent)
	staff := createUser(t, db, "mod", models.RoleStaff)
	category := createCategory(t, db, "Other")
	createProduct(t, db, seller.ID, category.ID, "Lamp", "15")
	soldProduct := createProduct(t, db, seller.ID, category.ID, "Rug", "25")
	if _, err := service.MarkSold(actorFor(seller), soldProduct.ID); err != nil {
		t.Fatalf("MarkSold failed: %v", err)
	}

	_, total, _, err := service.Search(auth.Actor{}, ProductSearchParams{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected sold listings hidden from the public feed, got total=%d", total)
	}

	// AllStatuses is honored for staff only
	_, total, _, err = service.Search(auth.Actor{}, ProductSearchParams{AllStatuses: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected AllStatuses ignored for anonymous callers, got total=%d", total)
	}

	_, total, _, err = service.Search(actorFor(staff), ProductSearchParams{AllStatuses: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected staff to see sold listings, got total=%d", total)
	}
}

func TestProductSearchSortFallback(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewProductService(db, mediaService)

	seller := createUser(t, db, "seller", models.RoleStudent)
	category := createCategory(t, db, "Other")
	createProduct(t, db, seller.ID, category.ID, "Cheap", "5")
	createProduct(t, db, seller.ID, category.ID, "Expensive", "500")

	anon := auth.Actor{}

	results, _, _, err := service.Search(anon, ProductSearchParams{Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results[0].Title != "Cheap" {
		t.Errorf("expected price_asc to put the cheap listing first")
	}

	// Anything outside the closed sort set falls back to newest
	results, _, _, err = service.Search(anon, ProductSearchParams{Sort: "bogus; DROP TABLE products"})
	if err != nil {
		t.Fatalf("Search with unknown sort failed: %v", err)
	}
	if results[0].Title != "Expensive" {
		t.Errorf("expected unknown sort to fall back to newest-first")
	}
}

func TestSearchPaginationClampsPastEnd(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewProductService(db, mediaService)

	seller := createUser(t, db, "seller", models.RoleStudent)
	category := createCategory(t, db, "Other")
	for i := 0; i < PageSize+3; i++ {
		createProduct(t, db, seller.ID, category.ID, fmt.Sprintf("Item %02d", i), "10")
	}

	anon := auth.Actor{}

	results, total, page, err := service.Search(anon, ProductSearchParams{Page: 1})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != PageSize || total != int64(PageSize+3) || page != 1 {
		t.Errorf("expected a full first page, got len=%d total=%d page=%d", len(results), total, page)
	}

	// A page past the end is clamped to the last page, never empty
	results, _, page, err = service.Search(anon, ProductSearchParams{Page: 50})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page != 2 || len(results) != 3 {
		t.Errorf("expected clamp to page 2 with 3 rows, got page=%d len=%d", page, len(results))
	}

	// Page zero and negatives normalize to the first page
	_, _, page, err = service.Search(anon, ProductSearchParams{Page: -4})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page != 1 {
		t.Errorf("expected negative page to normalize to 1, got %d", page)
	}
}

func TestRestaurantSearchTopRated(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewFoodService(db, mediaService)
	reviews := NewReviewService(db)

	owner := createUser(t, db, "owner", models.RoleVendor)
	alice := createUser(t, db, "alice", models.RoleStudent)
	bob := createUser(t, db, "bob", models.RoleStudent)

	lowRated := createRestaurant(t, db, owner.ID, "Average Eats")
	topRated := createRestaurant(t, db, owner.ID, "Campus Kitchen")
	unrated := createRestaurant(t, db, owner.ID, "New Spot")

	if _, err := reviews.Upsert(actorFor(alice), lowRated.ID, 2, ""); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if _, err := reviews.Upsert(actorFor(alice), topRated.ID, 5, "great"); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if _, err := reviews.Upsert(actorFor(bob), topRated.ID, 4, ""); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	results, total, _, err := service.Search(auth.Actor{}, RestaurantSearchParams{Sort: SortTopRated})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 restaurants, got %d", total)
	}
	if results[0].ID != topRated.ID || results[1].ID != lowRated.ID {
		t.Errorf("expected rating order, got %s then %s", results[0].Name, results[1].Name)
	}
	if results[2].ID != unrated.ID {
		t.Errorf("expected the unrated restaurant last, got %s", results[2].Name)
	}
}
