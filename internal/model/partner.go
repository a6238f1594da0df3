package model

type SponsorTier string

const (
	SponsorTierPlatinum SponsorTier = "platinum"
	SponsorTierGold     SponsorTier = "gold"
	SponsorTierSilver   SponsorTier = "silver"
	SponsorTierBronze   SponsorTier = "bronze"
)

// Rank orders tiers for listing, lower first.
func (t SponsorTier) Rank() int {
	switch t {
	case SponsorTierPlatinum:
		return 0
	case SponsorTierGold:
		return 1
	case SponsorTierSilver:
		return 2
	case SponsorTierBronze:
		return 3
	default:
		return 4
	}
}

type Sponsor struct {
	ID      string      `json:"id"`
	Name    string      `json:"name" validate:"required,max=120"`
	LogoURL string      `json:"logo_url,omitempty"`
	Website string      `json:"website,omitempty" validate:"omitempty,url"`
	Tier    SponsorTier `json:"tier" validate:"required,oneof=platinum gold silver bronze"`
	Order   int         `json:"order"`
}

type MediaPartner struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required,max=120"`
	LogoURL string `json:"logo_url,omitempty"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
	Order   int    `json:"order"`
}
