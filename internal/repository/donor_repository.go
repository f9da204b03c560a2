package repository

import (
	"context"

	"github.com/charitydrive/backend/internal/model"
)

// DonorRepository reads donor identity and shipping region. Donor rows are
// owned by the donation ledger; this side never writes them.
type DonorRepository interface {
	GetByID(ctx context.Context, id string) (*model.Donor, error)
}
