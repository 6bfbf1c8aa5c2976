package model

// AccessToken is the object signed into bearer tokens.
type AccessToken struct {
	Address string `json:"address"`
}
