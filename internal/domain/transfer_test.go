package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		current TransferStatus
		target  TransferStatus
		want    bool
	}{
		{TransferStatusPending, TransferStatusPaid, true},
		{TransferStatusPending, TransferStatusCancelled, true},
		{TransferStatusPending, TransferStatusInProgress, true},
		{TransferStatusInProgress, TransferStatusPaid, true},
		{TransferStatusPaid, TransferStatusCancelled, false},
		{TransferStatusPaid, TransferStatusPending, false},
		{TransferStatusCancelled, TransferStatusPaid, false},
		{TransferStatusCancelled, TransferStatusPending, false},
	}

	for _, tc := range cases {
		if got := CanTransitionTo(tc.current, tc.target); got != tc.want {
			t.Fatalf("CanTransitionTo(%s, %s) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestCountryNormalizers(t *testing.T) {
	for _, country := range []string{"BFA", "Burkina Faso", "burkina faso", " Burkina "} {
		if !IsBurkinaCountry(country) {
			t.Fatalf("expected %q to be recognized as Burkina", country)
		}
	}
	for _, country := range []string{"USA", "usa", "United States", "États-Unis"} {
		if !IsUSACountry(country) {
			t.Fatalf("expected %q to be recognized as USA", country)
		}
	}
	if IsBurkinaCountry("USA") || IsUSACountry("BFA") {
		t.Fatalf("country normalizers overlap")
	}
	if IsBurkinaCountry("") || IsUSACountry("") {
		t.Fatalf("empty country must not match any corridor side")
	}
}

func TestAccountForCountry(t *testing.T) {
	if AccountForCountry("Burkina Faso") != AccountBurkina {
		t.Fatalf("Burkina sender must map to the BURKINA till")
	}
	if AccountForCountry("USA") != AccountUSA {
		t.Fatalf("USA sender must map to the USA till")
	}
	// Unknown countries follow the USA→BFA fallback.
	if AccountForCountry("France") != AccountUSA {
		t.Fatalf("unknown sender country must map to the USA till")
	}
}

func TestUserRoleHelpers(t *testing.T) {
	admin := User{Role: RoleAdmin, Country: "USA"}
	if !admin.IsAdmin() || !admin.CanOverrideCountryRule() {
		t.Fatalf("admin role helpers broken")
	}

	supervisor := User{Role: RoleSupervisor, Country: "USA"}
	if supervisor.IsAdmin() || !supervisor.CanOverrideCountryRule() {
		t.Fatalf("supervisor role helpers broken")
	}

	bfAgent := User{Role: RolePayerAgent, Country: "Burkina Faso"}
	if !bfAgent.RestrictedToBurkinaTill() {
		t.Fatalf("BF payer agent must be restricted to the BURKINA till")
	}

	usAgent := User{Role: RoleSenderAgent, Country: "USA"}
	if usAgent.RestrictedToBurkinaTill() {
		t.Fatalf("USA agent must not be restricted to the BURKINA till")
	}

	bfSupervisor := User{Role: RoleSupervisor, Country: "Burkina Faso"}
	if bfSupervisor.RestrictedToBurkinaTill() {
		t.Fatalf("supervisors are never till-restricted")
	}
}
