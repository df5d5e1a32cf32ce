package domain

// PrincipalKind names one of the two disjoint trust domains.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

func (k PrincipalKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// Principal is an authenticated identity that can be attached to a request.
type Principal interface {
	PrincipalID() int64
	PrincipalEmail() string
	Kind() PrincipalKind
	Active() bool
}
