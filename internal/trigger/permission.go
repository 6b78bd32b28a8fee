package trigger

// MemberPermissions carries the caller's platform-level permission flags,
// resolved by the platform adapter.
type MemberPermissions struct {
	// Administrator is the platform's top-level permission; it always
	// authorizes trigger management.
	Administrator bool
	// ManageGuild is the "manage server" permission, used as the
	// fallback when no admin role is configured.
	ManageGuild bool
}

// Authorized decides whether a caller may manage a guild's triggers.
// Evaluated fresh on every privileged call, in this order:
//
//  1. Platform administrators are always authorized.
//  2. When the guild configured an admin role, only holders of that
//     role are authorized.
//  3. Otherwise, callers with the manage-guild permission are.
func Authorized(callerRoles []uint64, perms MemberPermissions, adminRole *uint64) bool {
	if perms.Administrator {
		return true
	}
	if adminRole != nil {
		for _, r := range callerRoles {
			if r == *adminRole {
				return true
			}
		}
		return false
	}
	return perms.ManageGuild
}
