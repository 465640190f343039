package request_models

type ConfirmRequest struct {
	Component string `json:"component"`
	OptionID  string `json:"option_id"`
}

type FinalApprovalRequest struct {
	Approved *bool `json:"approved"`
}
