package stage_models

// SafetyDocument is the contract for the safety stage.
type SafetyDocument struct {
	SafetyConcerns []string `json:"safety_concerns"`
	PackingList    []string `json:"packing_list"`
}
