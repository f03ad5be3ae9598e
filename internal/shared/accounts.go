package shared

// Coarse account kinds. The staff/owner split is a routing-level gate
// checked before any fine-grained permission lookup.
const (
	AccountKindAdmin = "admin"
	AccountKindAgent = "agent"
	AccountKindOwner = "owner"
)

// IsStaffKind reports whether the account kind belongs to the staff portal.
func IsStaffKind(kind string) bool {
	return kind == AccountKindAdmin || kind == AccountKindAgent
}
