package nlp

// Wire types for the classifier HTTP surface. These shapes are a system
// boundary and must stay bit-compatible with the deployed service.

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	TotalManagers int    `json:"total_managers,omitempty"`
}

type analyzeRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

type analyzeResponse struct {
	CrisisLevel     string   `json:"crisis_level"`
	ConfidenceScore float64  `json:"confidence_score"`
	// CrisisScore is the sentiment-adjusted score added in newer service
	// versions; nil on older deployments.
	CrisisScore        *float64 `json:"crisis_score,omitempty"`
	ProcessingTimeMS   float64  `json:"processing_time_ms,omitempty"`
	Method             string   `json:"method,omitempty"`
	Reasoning          string   `json:"reasoning,omitempty"`
	DetectedCategories []string `json:"detected_categories,omitempty"`
}

type setWeightsResponse struct {
	Weights map[string]float64 `json:"weights"`
}

type currentLabelsResponse struct {
	CurrentSet string `json:"current_set"`
}

type labelSetEntry struct {
	Name string `json:"name"`
}

// listLabelsResponse accepts both shapes the service has shipped:
// {sets: [{name,...}]} and the older {available_sets: [name,...]}.
type listLabelsResponse struct {
	Sets          []labelSetEntry `json:"sets,omitempty"`
	AvailableSets []string        `json:"available_sets,omitempty"`
}

type switchLabelsRequest struct {
	LabelSet string `json:"label_set"`
}

type switchLabelsResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
