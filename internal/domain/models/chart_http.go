package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

type SelectAssetRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type ChartRequest struct {
	Limit int `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=10000"`
}
