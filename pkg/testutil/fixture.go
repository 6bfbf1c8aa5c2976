package testutil

// Accounts used across tests. They only contain digits so their checksummed
// form is themselves.
const (
	Master         = "0x0000000000000000000000000000000000000001"
	Admin          = "0x0000000000000000000000000000000000000002"
	Oracle         = "0x0000000000000000000000000000000000000003"
	FeeTo          = "0x0000000000000000000000000000000000000004"
	Curator        = "0x1000000000000000000000000000000000000001"
	Artist         = "0x1000000000000000000000000000000000000002"
	Buyer0         = "0x1000000000000000000000000000000000000003"
	Buyer1         = "0x1000000000000000000000000000000000000004"
	RandomGuy      = "0x1000000000000000000000000000000000000005"
	BaseToken      = "0x2000000000000000000000000000000000000001"
	SecondaryToken = "0x2000000000000000000000000000000000000002"
	CatToken       = "0x3000000000000000000000000000000000000001"
	DogToken       = "0x3000000000000000000000000000000000000002"
)
