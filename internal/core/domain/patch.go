package domain

import "github.com/google/uuid"

// FieldMask names the patchable fields a given caller/target pair may
// touch. Fields outside the mask are silently dropped, never errored.
type FieldMask struct {
	Name  bool
	Roles bool
}

// Intersect returns the mask limited to the fields also present in other.
func (m FieldMask) Intersect(other FieldMask) FieldMask {
	return FieldMask{
		Name:  m.Name && other.Name,
		Roles: m.Roles && other.Roles,
	}
}

// FieldNames lists the masked fields by payload name.
func (m FieldMask) FieldNames() []string {
	names := make([]string, 0, 2)
	if m.Name {
		names = append(names, "name")
	}
	if m.Roles {
		names = append(names, "roles")
	}
	return names
}

// Patch is a parsed partial update. A field participates only when its
// Set flag is true; Name may then still be nil (an explicit JSON null),
// which is a validation failure rather than an omission.
type Patch struct {
	Name     *string
	NameSet  bool
	Roles    []Role
	RolesSet bool
	Version  int64
}

// Requested returns the mask of fields present in the patch payload.
func (p Patch) Requested() FieldMask {
	return FieldMask{Name: p.NameSet, Roles: p.RolesSet}
}

// AuthorizePatch classifies the caller against the target and returns the
// fields this pair is permitted to touch:
//
//   - self-update: the display name only — an admin may not alter its own
//     role set through this path;
//   - another user's record: name and roles, but only for a caller whose
//     admin capability is intact (ADMIN held, not unverified, not blocked).
//
// Any other pairing is forbidden outright.
func AuthorizePatch(caller Principal, targetID string) (FieldMask, error) {
	if caller.UserID == targetID {
		return FieldMask{Name: true}, nil
	}
	if caller.CanActAsAdmin() {
		return FieldMask{Name: true, Roles: true}, nil
	}
	return FieldMask{}, ErrForbidden
}

// ApplyPatch validates every masked field and then mutates the record,
// all-or-nothing: the record is untouched when any field fails.
func ApplyPatch(u *User, mask FieldMask, p Patch, maxNameLen int) error {
	if mask.Name && p.NameSet {
		if p.Name == nil || *p.Name == "" || len(*p.Name) > maxNameLen {
			return ErrInvalidName
		}
	}
	if mask.Roles && p.RolesSet {
		if len(p.Roles) == 0 {
			return ErrInvalidRoles
		}
		for _, r := range p.Roles {
			if !r.IsValid() {
				return ErrInvalidRoles
			}
		}
	}

	if mask.Name && p.NameSet {
		u.Name = *p.Name
	}
	if mask.Roles && p.RolesSet {
		u.Roles = dedupeRoles(p.Roles)
	}
	return nil
}

// ReconcileRoles applies the side effects of a role-set change, given
// whether the record held UNVERIFIED before the patch. Gaining the role
// issues a fresh verification code, losing it clears the code; any other
// role change leaves the code untouched. Must only run when the field
// mask included roles.
func ReconcileRoles(hadUnverified bool, u *User) {
	switch {
	case u.Unverified() && !hadUnverified:
		u.VerificationCode = uuid.NewString()
	case !u.Unverified() && hadUnverified:
		u.VerificationCode = ""
	}
}

func dedupeRoles(roles []Role) []Role {
	seen := make(map[Role]struct{}, len(roles))
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
