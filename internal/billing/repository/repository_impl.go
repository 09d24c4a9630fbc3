package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) billingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindInvoiceByNumber(ctx context.Context, number int64, kind billingdomain.DocumentKind) (*billingdomain.Invoice, error) {
	var inv billingdomain.Invoice
	err := r.db.WithContext(ctx).
		Where("number = ? AND kind = ?", number, kind).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: number %d", billingdomain.ErrInvoiceNotFound, number)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindDetails(ctx context.Context, invoice *billingdomain.Invoice) ([]billingdomain.InvoiceDetail, error) {
	var details []billingdomain.InvoiceDetail
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("id ASC").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) FindCustomer(ctx context.Context, id int64) (*billingdomain.Customer, error) {
	var customer billingdomain.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", billingdomain.ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindCompany(ctx context.Context) (*billingdomain.Company, error) {
	var company billingdomain.Company
	err := r.db.WithContext(ctx).Order("id ASC").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billingdomain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindActiveResolution(ctx context.Context, number int64, at time.Time) (*billingdomain.Resolution, error) {
	var res billingdomain.Resolution
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND range_from <= ? AND range_to >= ? AND valid_from <= ? AND valid_to >= ?",
			true, number, number, at, at).
		Order("id ASC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: number %d", billingdomain.ErrNoActiveResolution, number)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
