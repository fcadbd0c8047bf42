package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gridtrade/exchange/internal/models"
	appErr "github.com/gridtrade/exchange/pkg/errors"
)

// Postgres implements Store on top of Gorm. Ids are assigned by the database
// sequences; since they are monotonic, ordering by id reproduces insertion
// order. The seed migration (cmd/migrate) inserts the fixed listings and
// bumps the sequences past them.
type Postgres struct {
	db *gorm.DB
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) GetUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := p.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "user not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get user failed")
	}
	return &u, nil
}

func (p *Postgres) PutUser(ctx context.Context, u *models.User) error {
	if err := p.db.WithContext(ctx).Save(u).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "put user failed")
	}
	return nil
}

func (p *Postgres) Listings(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	if err := p.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list listings failed")
	}
	return out, nil
}

func (p *Postgres) GetListing(ctx context.Context, id int) (*models.Listing, error) {
	var l models.Listing
	if err := p.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "Listing not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get listing failed")
	}
	return &l, nil
}

func (p *Postgres) InsertListing(ctx context.Context, l *models.Listing) error {
	if err := p.db.WithContext(ctx).Create(l).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "insert listing failed")
	}
	return nil
}

func (p *Postgres) DeleteListing(ctx context.Context, id int) error {
	res := p.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete listing failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "Listing not found")
	}
	return nil
}

func (p *Postgres) DecrementListingAmount(ctx context.Context, id int, qty float64) (*models.Listing, error) {
	var out models.Listing
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional update: the amount check and the decrement are one
		// statement, so concurrent purchases serialize on the row.
		res := tx.Model(&models.Listing{}).
			Where("id = ? AND amount >= ?", id, qty).
			UpdateColumn("amount", gorm.Expr("amount - ?", qty))
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "decrement listing failed")
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Listing{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "decrement listing failed")
			}
			if exists == 0 {
				return appErr.New(appErr.CodeNotFound, "Listing not found")
			}
			return appErr.New(appErr.CodeInsufficientSupply, "Not enough energy available in this listing")
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Postgres) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if err := p.db.WithContext(ctx).Create(t).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "insert transaction failed")
	}
	return nil
}

func (p *Postgres) TransactionsByBuyer(ctx context.Context, email string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := p.db.WithContext(ctx).Where("buyer_email = ?", email).Order("id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list transactions failed")
	}
	return out, nil
}
