package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// CourseInput is the admin course form.
type CourseInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Thumbnail   string  `json:"thumbnail,omitempty" validate:"omitempty,url"`
	FileURL     string  `json:"fileUrl,omitempty" validate:"omitempty,url"`
}

// PaymentVerification is the reference the payment provider sends back.
type PaymentVerification struct {
	Reference string `json:"reference" validate:"required"`
}

// CourseService wraps /user/courses and /admin/courses.
type CourseService struct {
	client  *apiclient.Client
	catalog Resource[model.Course, struct{}]
	admin   Resource[model.Course, CourseInput]
}

// NewCourseService creates a new CourseService.
func NewCourseService(client *apiclient.Client) *CourseService {
	return &CourseService{
		client:  client,
		catalog: newResource[model.Course, struct{}](client, "/user/courses"),
		admin:   newResource[model.Course, CourseInput](client, "/admin/courses"),
	}
}

// List returns the course catalog.
func (s *CourseService) List(ctx context.Context, q model.ListQuery) ([]model.Course, *model.Pagination, error) {
	return s.catalog.List(ctx, q)
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (model.Course, error) {
	return s.catalog.Get(ctx, id)
}

// MyCourses returns the courses the signed-in user bought.
func (s *CourseService) MyCourses(ctx context.Context) ([]model.Course, error) {
	items, err := apiclient.Call[[]model.Course](ctx, s.client, http.MethodGet, "/user/courses/my-courses", nil, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Course{}
	}
	return items, nil
}

// Purchase starts a payment for course id.
func (s *CourseService) Purchase(ctx context.Context, id string) (model.PaymentInit, error) {
	if err := requireID(id); err != nil {
		return model.PaymentInit{}, err
	}
	return apiclient.Call[model.PaymentInit](ctx, s.client, http.MethodPost, joinPath("/user/courses", id, "purchase"), nil, struct{}{})
}

// VerifyPayment confirms a course payment by reference.
func (s *CourseService) VerifyPayment(ctx context.Context, reference string) (model.PaymentReceipt, error) {
	return verifyPayment(ctx, s.client, "/user/courses/verify-payment", reference)
}

// Admin returns the admin CRUD calls.
func (s *CourseService) Admin() Resource[model.Course, CourseInput] {
	return s.admin
}

func verifyPayment(ctx context.Context, client *apiclient.Client, path, reference string) (model.PaymentReceipt, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return model.PaymentReceipt{}, ErrMissingReference
	}
	return apiclient.Call[model.PaymentReceipt](ctx, client, http.MethodPost, path, nil, PaymentVerification{Reference: reference})
}
