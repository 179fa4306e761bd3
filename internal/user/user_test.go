package user

import "testing"

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestHealProfileCompleteRecord(t *testing.T) {
	u := User{
		ID:           7,
		Email:        "ana@example.com",
		DisplayName:  strPtr("Ana"),
		IsStoreOwner: boolPtr(true),
		Credits:      intPtr(4),
	}

	profile, patch := HealProfile(u)

	if !patch.IsEmpty() {
		t.Fatalf("expected empty patch for complete record, got %+v", patch)
	}
	if profile.DisplayName != "Ana" || !profile.IsStoreOwner || profile.Credits != 4 {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.UserID != 7 || profile.Email != "ana@example.com" {
		t.Fatalf("identity fields not carried over: %+v", profile)
	}
}

func TestHealProfileBackfillsMissingFields(t *testing.T) {
	u := User{ID: 3, Email: "old@example.com"}

	profile, patch := HealProfile(u)

	if profile.DisplayName != "" || profile.IsStoreOwner || profile.Credits != 0 {
		t.Fatalf("expected zero-value defaults, got %+v", profile)
	}
	if patch.DisplayName == nil || patch.IsStoreOwner == nil || patch.Credits == nil {
		t.Fatalf("expected patch to cover every missing field, got %+v", patch)
	}
}

func TestHealProfilePatchIsMinimal(t *testing.T) {
	u := User{
		ID:          5,
		Email:       "partial@example.com",
		DisplayName: strPtr("Partial"),
		Credits:     intPtr(2),
	}

	profile, patch := HealProfile(u)

	if patch.DisplayName != nil || patch.Credits != nil {
		t.Fatalf("patch should not touch fields already present: %+v", patch)
	}
	if patch.IsStoreOwner == nil {
		t.Fatal("patch should backfill the missing store-owner flag")
	}
	if profile.DisplayName != "Partial" || profile.Credits != 2 {
		t.Fatalf("present fields must survive healing: %+v", profile)
	}
}
