package model

type SetAddressRequest struct {
	Address string `json:"address"`
}

type SetAddressResponse struct{}
