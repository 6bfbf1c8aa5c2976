package model

type DeliverRandomnessRequest struct {
	RequestID  string `json:"request_id"`
	RandomWord string `json:"random_word"`
}

type DeliverRandomnessResponse struct {
	CollectionID int64 `json:"collection_id"`
}

// RandomnessRequestEvent is published when a collection asks the oracle for a
// random word.
type RandomnessRequestEvent struct {
	RequestID    string            `json:"request_id"`
	CollectionID int64             `json:"collection_id"`
	Params       map[string]string `json:"params"`
}

// RandomnessFulfilledEvent is consumed from the oracle.
type RandomnessFulfilledEvent struct {
	RequestID  string `json:"request_id"`
	RandomWord string `json:"random_word"`
}
