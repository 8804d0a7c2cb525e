package loyalty

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/lotus/internal/models"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testUser(opts ...func(*models.User)) *models.User {
	u := &models.User{
		FirstName: "Linh",
		Phone:     "+84900000001",
		TierLevel: 1,
		JoinedAt:  testNow.Add(-90 * 24 * time.Hour),
	}
	u.ID = uuid.New()
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func TestParseAudience(t *testing.T) {
	tests := []struct {
		in   string
		want Audience
	}{
		{"All", Audience{Kind: AudienceAll}},
		{"New Clients", Audience{Kind: AudienceNewClients}},
		{"Birthday", Audience{Kind: AudienceBirthday}},
		{"VIP", Audience{Kind: AudienceVIP}},
		{"Tier Level 3", Audience{Kind: AudienceTier, TierLevel: 3}},
		{"Tier Level 10", Audience{Kind: AudienceTier, TierLevel: 10}},
		{" Tier Level 2 ", Audience{Kind: AudienceTier, TierLevel: 2}},
		{"Tier Level x", Audience{Kind: AudienceInvalid}},
		{"Tier Level -1", Audience{Kind: AudienceInvalid}},
		{"", Audience{Kind: AudienceInvalid}},
		{"Gold Members", Audience{Kind: AudienceInvalid}},
	}

	for _, tt := range tests {
		if got := ParseAudience(tt.in); got != tt.want {
			t.Errorf("ParseAudience(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAudienceAllAlwaysMatches(t *testing.T) {
	users := []*models.User{
		testUser(),
		testUser(func(u *models.User) { u.TierLevel = 0 }),
		testUser(func(u *models.User) { u.TierLevel = 10 }),
		testUser(func(u *models.User) { u.JoinedAt = testNow }),
	}

	for _, u := range users {
		if !Eligible("All", u, testNow) {
			t.Errorf("All audience must match every user, failed for tier %d", u.TierLevel)
		}
	}
}

func TestAudienceNewClients(t *testing.T) {
	tests := []struct {
		joinedDaysAgo int
		want          bool
	}{
		{0, true},
		{10, true},
		{29, true},
		{30, false},
		{40, false},
	}

	for _, tt := range tests {
		u := testUser(func(u *models.User) {
			u.JoinedAt = testNow.Add(-time.Duration(tt.joinedDaysAgo) * 24 * time.Hour)
		})
		if got := Eligible("New Clients", u, testNow); got != tt.want {
			t.Errorf("joined %d days ago: eligible = %v, want %v", tt.joinedDaysAgo, got, tt.want)
		}
	}
}

func TestAudienceBirthday(t *testing.T) {
	match := testUser(func(u *models.User) { u.BirthMonth = 3; u.BirthDay = 15 })
	wrongDay := testUser(func(u *models.User) { u.BirthMonth = 3; u.BirthDay = 16 })
	wrongMonth := testUser(func(u *models.User) { u.BirthMonth = 4; u.BirthDay = 15 })
	unset := testUser()

	if !Eligible("Birthday", match, testNow) {
		t.Error("birthday on now's month-day must match")
	}
	for _, u := range []*models.User{wrongDay, wrongMonth, unset} {
		if Eligible("Birthday", u, testNow) {
			t.Errorf("birthday %d-%d must not match on %v", u.BirthMonth, u.BirthDay, testNow)
		}
	}
}

func TestAudienceTierLevels(t *testing.T) {
	for n := 1; n <= 8; n++ {
		audience := fmt.Sprintf("Tier Level %d", n)
		for level := 0; level <= 10; level++ {
			u := testUser(func(u *models.User) { u.TierLevel = level })
			want := level >= n
			if got := Eligible(audience, u, testNow); got != want {
				t.Errorf("audience %q, tier %d: eligible = %v, want %v", audience, level, got, want)
			}
		}
	}
}

func TestAudienceVIP(t *testing.T) {
	for level := 0; level <= 10; level++ {
		u := testUser(func(u *models.User) { u.TierLevel = level })
		want := level >= VIPTierLevel
		if got := Eligible("VIP", u, testNow); got != want {
			t.Errorf("VIP, tier %d: eligible = %v, want %v", level, got, want)
		}
	}
}

func TestAudienceNilUser(t *testing.T) {
	if Eligible("All", nil, testNow) {
		t.Error("nil user must never be eligible")
	}
}

func TestAvailablePromotions(t *testing.T) {
	newClientPromo := models.Promotion{
		Code:           "WELCOME10",
		ExpiresAt:      testNow.Add(60 * 24 * time.Hour),
		TargetAudience: "New Clients",
	}
	newClientPromo.ID = uuid.New()

	expiredPromo := models.Promotion{
		Code:           "GONE",
		ExpiresAt:      testNow.Add(-time.Hour),
		TargetAudience: "All",
	}
	expiredPromo.ID = uuid.New()

	openPromo := models.Promotion{
		Code:           "SPRING",
		ExpiresAt:      testNow.Add(24 * time.Hour),
		TargetAudience: "All",
	}
	openPromo.ID = uuid.New()

	promos := []models.Promotion{newClientPromo, expiredPromo, openPromo}

	freshUser := testUser(func(u *models.User) { u.JoinedAt = testNow.Add(-10 * 24 * time.Hour) })
	oldUser := testUser(func(u *models.User) { u.JoinedAt = testNow.Add(-40 * 24 * time.Hour) })

	got := AvailablePromotions(promos, freshUser, nil, testNow)
	if len(got) != 2 || got[0].Code != "WELCOME10" || got[1].Code != "SPRING" {
		t.Fatalf("fresh user: got %d promos %v, want [WELCOME10 SPRING] in input order", len(got), codes(got))
	}

	got = AvailablePromotions(promos, oldUser, nil, testNow)
	if len(got) != 1 || got[0].Code != "SPRING" {
		t.Fatalf("user joined 40 days ago: got %v, want [SPRING]", codes(got))
	}

	claimed := map[uuid.UUID]bool{openPromo.ID: true}
	got = AvailablePromotions(promos, oldUser, claimed, testNow)
	if len(got) != 0 {
		t.Fatalf("claimed promotions must be excluded, got %v", codes(got))
	}
}

func codes(promos []models.Promotion) []string {
	out := make([]string, len(promos))
	for i, p := range promos {
		out[i] = p.Code
	}
	return out
}
