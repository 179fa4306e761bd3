package user

// User is an account row. The profile columns are nullable on purpose:
// accounts created by older versions may miss them, and the profile read
// path backfills them individually (see HealProfile).
type User struct {
	ID           int     `json:"userId"`
	Email        string  `json:"email"`
	Password     string  `json:"password,omitempty"`
	DisplayName  *string `json:"displayName,omitempty"`
	IsStoreOwner *bool   `json:"isStoreOwner,omitempty"`
	Credits      *int    `json:"credits,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// Profile is the complete, healed profile view handed to callers.
type Profile struct {
	UserID       int    `json:"userId"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	IsStoreOwner bool   `json:"isStoreOwner"`
	Credits      int    `json:"credits"`
}

// ProfilePatch carries a partial profile write; nil fields stay untouched.
type ProfilePatch struct {
	DisplayName  *string `json:"displayName,omitempty"`
	IsStoreOwner *bool   `json:"isStoreOwner,omitempty"`
	Credits      *int    `json:"credits,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p ProfilePatch) IsEmpty() bool {
	return p.DisplayName == nil && p.IsStoreOwner == nil && p.Credits == nil
}

// HealProfile completes a partially-populated account record. It returns the
// full profile view plus the minimal patch that must be persisted to make the
// stored record complete; the patch is empty when the record already is.
func HealProfile(u User) (Profile, ProfilePatch) {
	profile := Profile{UserID: u.ID, Email: u.Email}
	patch := ProfilePatch{}

	if u.DisplayName != nil {
		profile.DisplayName = *u.DisplayName
	} else {
		patch.DisplayName = &profile.DisplayName
	}
	if u.IsStoreOwner != nil {
		profile.IsStoreOwner = *u.IsStoreOwner
	} else {
		patch.IsStoreOwner = &profile.IsStoreOwner
	}
	if u.Credits != nil {
		profile.Credits = *u.Credits
	} else {
		patch.Credits = &profile.Credits
	}
	return profile, patch
}
