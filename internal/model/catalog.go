package model

import "time"

// Course represents a purchasable course.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	IsPurchased bool      `json:"isPurchased"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Ebook represents a purchasable ebook.
type Ebook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	IsPurchased bool      `json:"isPurchased"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentInit is returned when a purchase is started; the browser is sent
// to AuthorizationURL and comes back with Reference.
type PaymentInit struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// PaymentReceipt is the backend's answer to a payment verification.
type PaymentReceipt struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount,omitempty"`
	ItemID    string  `json:"itemId,omitempty"`
}

// Download carries a short-lived link to a purchased file.
type Download struct {
	URL string `json:"downloadUrl"`
}

// FilterCourses matches query against title and category.
func FilterCourses(courses []Course, query string) []Course {
	return filter(courses, query, func(c Course) []string {
		return []string{c.Title, c.Category}
	})
}

// FilterEbooks matches query against title, author and category.
func FilterEbooks(ebooks []Ebook, query string) []Ebook {
	return filter(ebooks, query, func(e Ebook) []string {
		return []string{e.Title, e.Author, e.Category}
	})
}
