package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// EbookInput is the admin ebook form.
type EbookInput struct {
	Title       string  `json:"title" validate:"required,min=2,max=200"`
	Author      string  `json:"author" validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category,omitempty"`
	CoverURL    string  `json:"coverUrl,omitempty" validate:"omitempty,url"`
	FileURL     string  `json:"fileUrl" validate:"required,url"`
}

// EbookService wraps /user/ebooks and /admin/ebooks.
type EbookService struct {
	client  *apiclient.Client
	catalog Resource[model.Ebook, struct{}]
	admin   Resource[model.Ebook, EbookInput]
}

// NewEbookService creates a new EbookService.
func NewEbookService(client *apiclient.Client) *EbookService {
	return &EbookService{
		client:  client,
		catalog: newResource[model.Ebook, struct{}](client, "/user/ebooks"),
		admin:   newResource[model.Ebook, EbookInput](client, "/admin/ebooks"),
	}
}

// List returns the ebook catalog.
func (s *EbookService) List(ctx context.Context, q model.ListQuery) ([]model.Ebook, *model.Pagination, error) {
	return s.catalog.List(ctx, q)
}

// MyLibrary returns the ebooks the signed-in user owns.
func (s *EbookService) MyLibrary(ctx context.Context) ([]model.Ebook, error) {
	items, err := apiclient.Call[[]model.Ebook](ctx, s.client, http.MethodGet, "/user/ebooks/my-library", nil, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Ebook{}
	}
	return items, nil
}

// Purchase starts a payment for ebook id.
func (s *EbookService) Purchase(ctx context.Context, id string) (model.PaymentInit, error) {
	if err := requireID(id); err != nil {
		return model.PaymentInit{}, err
	}
	return apiclient.Call[model.PaymentInit](ctx, s.client, http.MethodPost, joinPath("/user/ebooks", id, "purchase"), nil, struct{}{})
}

// VerifyPayment confirms an ebook payment by reference.
func (s *EbookService) VerifyPayment(ctx context.Context, reference string) (model.PaymentReceipt, error) {
	return verifyPayment(ctx, s.client, "/user/ebooks/verify-payment", reference)
}

// Download returns a link to an owned ebook's file.
func (s *EbookService) Download(ctx context.Context, id string) (model.Download, error) {
	if err := requireID(id); err != nil {
		return model.Download{}, err
	}
	return apiclient.Call[model.Download](ctx, s.client, http.MethodGet, joinPath("/user/ebooks", id, "download"), nil, nil)
}

// Admin returns the admin CRUD calls.
func (s *EbookService) Admin() Resource[model.Ebook, EbookInput] {
	return s.admin
}
