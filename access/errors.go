package access

import "errors"

var (
	// ErrUnauthorized indicates the caller does not hold the role the operation requires.
	ErrUnauthorized = errors.New("access: caller lacks required role")

	// ErrUnknownRole indicates a role name or value outside Admin, Issuer, Verifier.
	ErrUnknownRole = errors.New("access: unknown role")

	// ErrZeroAccount indicates a role grant to the unset identity.
	ErrZeroAccount = errors.New("access: cannot grant role to zero account")
)
