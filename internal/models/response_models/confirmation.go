package response_models

type ConfirmResult struct {
	Itinerary              *Itinerary      `json:"itinerary"`
	Confirmations          ConfirmationSet `json:"confirmations"`
	NextComponentToConfirm *string         `json:"next_component_to_confirm"`
	FinalReview            *FinalReview    `json:"final_review"`
}

type FinalApprovalResult struct {
	Approved         bool   `json:"approved"`
	Message          string `json:"message"`
	NoPurchasePolicy string `json:"no_purchase_policy"`
}
