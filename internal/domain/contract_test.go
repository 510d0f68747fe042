package domain

import (
	"testing"
	"time"
)

func TestDeriveStatusProjection(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	sig := &Signature{Image: "img", SignedAt: now}

	cases := []struct {
		name     string
		contract Contract
		want     ContractStatus
	}{
		{"empty draft", Contract{Status: ContractStatusDraft}, ContractStatusDraft},
		{"sent", Contract{Status: ContractStatusDraft, SentToTenant: &now}, ContractStatusSentToTenant},
		{"tenant signed", Contract{SentToTenant: &now, TenantSignature: sig}, ContractStatusTenantSigned},
		{"landlord only stays sent", Contract{SentToTenant: &now, LandlordSignature: sig}, ContractStatusSentToTenant},
		{"both signed", Contract{SentToTenant: &now, LandlordSignature: sig, TenantSignature: sig}, ContractStatusFullySigned},
		{"keys collected wins", Contract{LandlordSignature: sig, TenantSignature: sig, KeysCollected: true}, ContractStatusActive},
		{"terminated sticks", Contract{Status: ContractStatusTerminated, LandlordSignature: sig, TenantSignature: sig, KeysCollected: true}, ContractStatusTerminated},
		{"expired sticks", Contract{Status: ContractStatusExpired, KeysCollected: true}, ContractStatusExpired},
	}
	for _, tc := range cases {
		if got := DeriveStatus(tc.contract); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	c := Contract{LandlordID: "landlord-1", TenantID: "tenant-1"}
	if role, ok := c.RoleOf("landlord-1"); !ok || role != PartyRoleLandlord {
		t.Fatalf("expected landlord role, got %s/%v", role, ok)
	}
	if role, ok := c.RoleOf("tenant-1"); !ok || role != PartyRoleTenant {
		t.Fatalf("expected tenant role, got %s/%v", role, ok)
	}
	if _, ok := c.RoleOf("stranger"); ok {
		t.Fatal("stranger must not resolve to a role")
	}
	if _, ok := c.RoleOf(""); ok {
		t.Fatal("empty subject must not resolve to a role")
	}
}

func TestDeletable(t *testing.T) {
	t.Parallel()

	for _, status := range []ContractStatus{ContractStatusDraft, ContractStatusSentToTenant, ContractStatusTenantSigned} {
		if !(Contract{Status: status}).Deletable() {
			t.Fatalf("%s should be deletable", status)
		}
	}
	for _, status := range []ContractStatus{ContractStatusFullySigned, ContractStatusActive, ContractStatusTerminated, ContractStatusExpired} {
		if (Contract{Status: status}).Deletable() {
			t.Fatalf("%s should not be deletable", status)
		}
	}
}
