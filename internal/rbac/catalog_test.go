package rbac

import "testing"

func TestOperationsForKnownResources(t *testing.T) {
	cases := map[Resource][]Operation{
		ResourceDashboard: {OpView},
		ResourceBookings:  {OpView, OpCreate, OpUpdate, OpDelete},
		ResourceReports:   {OpView, OpExport},
		ResourceCleaning:  {OpView, OpUpdate},
		ResourceSettings:  {OpView, OpUpdate},
	}
	for resource, want := range cases {
		got := OperationsFor(resource)
		if len(got) != len(want) {
			t.Fatalf("%s: expected %d operations, got %d", resource, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: expected %v at %d, got %v", resource, want[i], i, got[i])
			}
		}
	}
}

func TestOperationsForUnknownResourceIsEmpty(t *testing.T) {
	if ops := OperationsFor("minibar"); len(ops) != 0 {
		t.Fatalf("expected empty operations for unknown resource, got %v", ops)
	}
	if KnownResource("minibar") {
		t.Fatal("minibar should not be a known resource")
	}
}

func TestApplicable(t *testing.T) {
	if !Applicable(ResourceBookings, OpDelete) {
		t.Fatal("bookings/delete should be applicable")
	}
	if Applicable(ResourceDashboard, OpExport) {
		t.Fatal("dashboard/export should not be applicable")
	}
	if Applicable("minibar", OpView) {
		t.Fatal("unknown resource should never be applicable")
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0].Operations = nil
	if len(Catalog()[0].Operations) == 0 {
		t.Fatal("mutating the returned catalog must not affect the source")
	}
}
