package domain

import "github.com/google/uuid"

// projectNamespace is the fixed namespace for deterministic project addressing.
// Together with the domain-separation tag it guarantees that project IDs never
// collide with identifiers derived for other record kinds.
var projectNamespace = uuid.MustParse("b1d8f6a2-4c0e-4f7b-9a3d-2e5c8b7a1f90")

const addressDomainTag = "project"

// DeriveProjectID computes the owner's single project address from the owner
// identity alone. The derivation is one-way and stable, so any party can compute
// it without a lookup table; the returned bump byte is persisted on the record.
func DeriveProjectID(ownerID string) (string, uint8) {
	id := uuid.NewSHA1(projectNamespace, []byte(addressDomainTag+":"+ownerID))
	return id.String(), id[15]
}
