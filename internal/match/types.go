package match

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Profile carries the self-description a party shares for matching.
type Profile struct {
	Tags     []string `json:"tags"`
	FoodPref []string `json:"food_pref"`
}

// Party describes one side of an invitation. Address is always present (may
// be empty); Location is nil when geolocation was unavailable.
type Party struct {
	Location *Location `json:"location,omitempty"`
	Address  string    `json:"address"`
	Profile  Profile   `json:"profile"`
	Purpose  string    `json:"purpose,omitempty"`
	Budget   string    `json:"budget,omitempty"`
}

// Context carries shared circumstances of the meeting.
type Context struct {
	Time    string `json:"time"`
	Purpose string `json:"purpose"`
}

// Request is the structured input for one recommendation attempt.
type Request struct {
	Host    Party   `json:"host"`
	Guest   Party   `json:"guest"`
	Context Context `json:"context"`
}

// Candidate types. Any raw value other than exactly "sponsored" is folded
// into organic during normalization.
const (
	TypeOrganic   = "organic"
	TypeSponsored = "sponsored"
)

// Candidate is one suggested venue in its canonical, post-normalization shape.
type Candidate struct {
	VenueName            string   `json:"venue_name"`
	Address              string   `json:"address"`
	Location             Location `json:"location"`
	Type                 string   `json:"type"`
	RecommendationReason string   `json:"recommendation_reason"`
	EstimatedCost        float64  `json:"estimated_cost"`
	BestFor              []string `json:"best_for"`
	SuggestedItem        string   `json:"suggested_item"`
	ImgURL               string   `json:"imgUrl,omitempty"`
}

// Recommendation is the validated result returned to callers.
type Recommendation struct {
	MidpointAnalysis string      `json:"midpoint_analysis"`
	Candidates       []Candidate `json:"candidates"`
}
