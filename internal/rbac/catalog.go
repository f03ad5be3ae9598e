// Package rbac implements the permission model for the back office:
// a static resource/operation catalog, role storage with system-role
// protection, user-to-role assignment and the access evaluator that
// answers per-action permission queries.
package rbac

// Resource identifies a protected functional area of the back office.
type Resource string

// Operation is an action kind applicable to a resource.
type Operation string

// Protected resources. The set is fixed at build time.
const (
	ResourceDashboard Resource = "dashboard"
	ResourceBookings  Resource = "bookings"
	ResourceRooms     Resource = "rooms"
	ResourceGuests    Resource = "guests"
	ResourceOwners    Resource = "owners"
	ResourceUsers     Resource = "users"
	ResourceReports   Resource = "reports"
	ResourceAuditLogs Resource = "audit_logs"
	ResourceCleaning  Resource = "cleaning"
	ResourceExpenses  Resource = "expenses"
	ResourceSettings  Resource = "settings"
)

// Operation vocabulary.
const (
	OpView   Operation = "view"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpExport Operation = "export"
)

// ResourceSpec describes one catalog entry: a resource, its display label
// and the ordered operations it supports.
type ResourceSpec struct {
	Resource   Resource    `json:"resource"`
	Label      string      `json:"label"`
	Operations []Operation `json:"operations"`
}

var catalog = []ResourceSpec{
	{ResourceDashboard, "Dashboard", []Operation{OpView}},
	{ResourceBookings, "Bookings", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceRooms, "Rooms", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceGuests, "Guests", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceOwners, "Owners", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceUsers, "Users", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceReports, "Reports", []Operation{OpView, OpExport}},
	{ResourceAuditLogs, "Audit Logs", []Operation{OpView}},
	{ResourceCleaning, "Cleaning", []Operation{OpView, OpUpdate}},
	{ResourceExpenses, "Expenses", []Operation{OpView, OpCreate, OpUpdate, OpDelete}},
	{ResourceSettings, "Settings", []Operation{OpView, OpUpdate}},
}

var catalogIndex = buildCatalogIndex()

func buildCatalogIndex() map[Resource]map[Operation]struct{} {
	index := make(map[Resource]map[Operation]struct{}, len(catalog))
	for _, spec := range catalog {
		ops := make(map[Operation]struct{}, len(spec.Operations))
		for _, op := range spec.Operations {
			ops[op] = struct{}{}
		}
		index[spec.Resource] = ops
	}
	return index
}

// Catalog returns the full resource catalog in declaration order.
func Catalog() []ResourceSpec {
	out := make([]ResourceSpec, len(catalog))
	copy(out, catalog)
	return out
}

// OperationsFor returns the ordered operations applicable to a resource.
// Unknown resources yield an empty slice; callers treat that as a
// configuration problem worth logging, not a fatal condition.
func OperationsFor(resource Resource) []Operation {
	for _, spec := range catalog {
		if spec.Resource == resource {
			ops := make([]Operation, len(spec.Operations))
			copy(ops, spec.Operations)
			return ops
		}
	}
	return nil
}

// KnownResource reports whether the resource exists in the catalog.
func KnownResource(resource Resource) bool {
	_, ok := catalogIndex[resource]
	return ok
}

// Applicable reports whether the operation is part of the resource's catalog entry.
func Applicable(resource Resource, op Operation) bool {
	ops, ok := catalogIndex[resource]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}
