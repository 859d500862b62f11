package dto

// MoveRequest is the abstract "reorder intent" event: any host — pointer
// drag, keyboard, or scripted — produces the same shape.
type MoveRequest struct {
	FeatureID  string `json:"feature_id"  validate:"required,uuid"`
	TargetLane string `json:"target_lane" validate:"required"`
	// TargetIndex is the insertion slot in the target lane; nil means end.
	TargetIndex *int `json:"target_index" validate:"omitempty,min=0"`
}

type ReorderRequest struct {
	Lane      string `json:"lane"       validate:"required"`
	FromIndex int    `json:"from_index" validate:"min=0"`
	ToIndex   int    `json:"to_index"   validate:"min=0"`
}

type MoveResponse struct {
	NoOp      bool   `json:"no_op"`
	FeatureID string `json:"feature_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	// Ops is how many changed field tuples the move persisted.
	Ops int `json:"ops"`
}

type ConnectorResponse struct {
	FeatureID string `json:"feature_id"`
	Connector string `json:"connector"`
}

// BoardResponse is the whole placement board, one entry list per lane in
// display order.
type BoardResponse struct {
	Lanes map[string][]FeatureResponse `json:"lanes"`
}
