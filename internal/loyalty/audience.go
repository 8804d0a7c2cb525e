package loyalty

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/lotus/internal/models"
)

// NewClientWindow is how long after joining a user counts as a new client.
const NewClientWindow = 30 * 24 * time.Hour

// AudienceKind identifies which eligibility rule an audience applies.
type AudienceKind int

const (
	AudienceInvalid AudienceKind = iota
	AudienceAll
	AudienceNewClients
	AudienceBirthday
	AudienceVIP
	AudienceTier
)

// Audience strings as stored on promotions and vouchers.
const (
	audienceAllLabel        = "All"
	audienceNewClientsLabel = "New Clients"
	audienceBirthdayLabel   = "Birthday"
	audienceVIPLabel        = "VIP"
	audienceTierPrefix      = "Tier Level "
)

// VIPTierLevel is the minimum tier level for the VIP audience.
const VIPTierLevel = 5

// Audience is the decoded form of a target-audience string. Audience
// strings are human-entered, so they are parsed once here instead of
// repeatedly inside the business rules.
type Audience struct {
	Kind      AudienceKind
	TierLevel int
}

// ParseAudience decodes an audience string. Unknown strings and
// unparseable tier levels yield AudienceInvalid, which never matches.
func ParseAudience(s string) Audience {
	switch strings.TrimSpace(s) {
	case audienceAllLabel:
		return Audience{Kind: AudienceAll}
	case audienceNewClientsLabel:
		return Audience{Kind: AudienceNewClients}
	case audienceBirthdayLabel:
		return Audience{Kind: AudienceBirthday}
	case audienceVIPLabel:
		return Audience{Kind: AudienceVIP}
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, audienceTierPrefix) {
		level, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, audienceTierPrefix)))
		if err != nil || level < 0 {
			return Audience{Kind: AudienceInvalid}
		}
		return Audience{Kind: AudienceTier, TierLevel: level}
	}

	return Audience{Kind: AudienceInvalid}
}

// String renders the audience back into its stored form.
func (a Audience) String() string {
	switch a.Kind {
	case AudienceAll:
		return audienceAllLabel
	case AudienceNewClients:
		return audienceNewClientsLabel
	case AudienceBirthday:
		return audienceBirthdayLabel
	case AudienceVIP:
		return audienceVIPLabel
	case AudienceTier:
		return audienceTierPrefix + strconv.Itoa(a.TierLevel)
	}
	return "Invalid"
}

// Matches reports whether the user belongs to the audience at the given
// instant. Pure; callers must re-evaluate on every read since both now
// and the user's tier level move between calls.
func (a Audience) Matches(user *models.User, now time.Time) bool {
	if user == nil {
		return false
	}

	switch a.Kind {
	case AudienceAll:
		return true
	case AudienceNewClients:
		return now.Sub(user.JoinedAt) < NewClientWindow
	case AudienceBirthday:
		return int(now.Month()) == user.BirthMonth && now.Day() == user.BirthDay
	case AudienceVIP:
		return user.TierLevel >= VIPTierLevel
	case AudienceTier:
		return user.TierLevel >= a.TierLevel
	}

	return false
}

// Eligible is the string-level convenience used at handler boundaries.
func Eligible(audience string, user *models.User, now time.Time) bool {
	return ParseAudience(audience).Matches(user, now)
}

// AvailablePromotions filters the canonical promotion list down to those
// the user can still claim: not expired, not already claimed, audience
// matched. Input order is preserved.
func AvailablePromotions(promos []models.Promotion, user *models.User, claimed map[uuid.UUID]bool, now time.Time) []models.Promotion {
	available := make([]models.Promotion, 0, len(promos))
	for _, p := range promos {
		if !p.ExpiresAt.After(now) {
			continue
		}
		if claimed[p.ID] {
			continue
		}
		if !Eligible(p.TargetAudience, user, now) {
			continue
		}
		available = append(available, p)
	}
	return available
}
