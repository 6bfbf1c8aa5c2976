package model

const (
	RandomnessRequestTopic   = "randomness_request"
	RandomnessFulfilledTopic = "randomness_fulfilled"
)
