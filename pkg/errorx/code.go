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
	TooManyRequests  Code = 100010

	// NFT lifecycle codes
	AlreadyDeployed     Code = 200001
	AlreadyLoading      Code = 200002
	NotEdited           Code = 200003
	NotCreator          Code = 200004
	Locked              Code = 200005
	InsufficientMembers Code = 200006

	// Marketplace codes
	PriceMismatch       Code = 300001
	InsufficientBalance Code = 300002
	AlreadyLiked        Code = 300003
	NotLiked            Code = 300004

	// Verification codes
	DuplicateRequest Code = 400001
	BadAuthCode      Code = 400002
)
