package auth

// AuthorizeUserAccess decides whether the principal may view the target
// user's data: allowed for ADMIN, or when the principal is the resource
// owner. Everything else, including an unauthenticated (zero) principal,
// is ErrAccessDenied.
func AuthorizeUserAccess(p Principal, targetLogin string) error {
	if p.HasAuthority(RoleAdmin) {
		return nil
	}
	if p.Subject != "" && p.Subject == targetLogin {
		return nil
	}
	return ErrAccessDenied
}

// AuthorizeRoleMutation decides whether the principal may change role
// assignments for any user. ADMIN only.
func AuthorizeRoleMutation(p Principal) error {
	if p.HasAuthority(RoleAdmin) {
		return nil
	}
	return ErrAccessDenied
}
