package model

import "time"

// Service is an offering shown on the public site and referenced by line items.
type Service struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Duration    int       `db:"duration" json:"duration"`
	Category    *string   `db:"category" json:"category"`
	Features    []string  `db:"features" json:"features"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	SortOrder   int       `db:"sort_order" json:"sortOrder"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type BlogPost struct {
	ID            int        `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Excerpt       *string    `db:"excerpt" json:"excerpt"`
	Content       string     `db:"content" json:"content"`
	FeaturedImage *string    `db:"featured_image" json:"featuredImage"`
	AuthorID      *int       `db:"author_id" json:"authorId"`
	AuthorName    *string    `db:"author_name" json:"authorName,omitempty"`
	Category      *string    `db:"category" json:"category"`
	Tags          []string   `db:"tags" json:"tags"`
	IsPublished   bool       `db:"is_published" json:"isPublished"`
	PublishDate   *time.Time `db:"publish_date" json:"publishDate"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

type Testimonial struct {
	ID           int       `db:"id" json:"id"`
	CustomerName string    `db:"customer_name" json:"customerName"`
	Location     *string   `db:"location" json:"location"`
	Rating       int       `db:"rating" json:"rating"`
	Content      string    `db:"content" json:"content"`
	ServiceType  *string   `db:"service_type" json:"serviceType"`
	IsApproved   bool      `db:"is_approved" json:"isApproved"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type PageContent struct {
	PageID          string    `db:"page_id" json:"pageId"`
	Title           string    `db:"title" json:"title"`
	Content         string    `db:"content" json:"content"`
	MetaDescription *string   `db:"meta_description" json:"metaDescription"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
