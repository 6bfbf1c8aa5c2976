package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009

	// Collection lifecycle codes
	AlreadyPublished Code = 200001
	NotPublished     Code = 200002
	SoldOut          Code = 200003
	NotExpired       Code = 200004

	// Drawing codes
	PendingRandomness Code = 300001
	NoBuyers          Code = 300002

	// Settlement codes
	AlreadyClaimed        Code = 400001
	InsufficientBalance   Code = 400002
	InsufficientAllowance Code = 400003
	InvalidAsset          Code = 400004
)
