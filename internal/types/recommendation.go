package types

// Recommendation is one entry of the ranked shortlist returned to the
// conversational layer. Field names are rendered directly by the downstream
// presentation layer and must stay stable.
type Recommendation struct {
	CardName         string   `json:"card_name"`
	ImageURL         string   `json:"image_url"`
	KeyReasons       []string `json:"key_reasons"`
	RewardSimulation string   `json:"reward_simulation"`
	NetBenefit       float64  `json:"net_benefit"`
	AffiliateLink    string   `json:"affiliate_link"`
}
