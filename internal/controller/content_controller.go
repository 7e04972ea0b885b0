package controller

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// ====== Services ======

type ServiceController struct {
	Repo repository.ServiceRepositoryInterface
}

type serviceRequestBody struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Duration    int      `json:"duration" validate:"gte=1"`
	Category    *string  `json:"category"`
	Features    []string `json:"features"`
	ImageURL    *string  `json:"imageUrl"`
	IsActive    *bool    `json:"isActive"`
	SortOrder   int      `json:"sortOrder"`
}

func (b serviceRequestBody) service(id int) *model.Service {
	active := true
	if b.IsActive != nil {
		active = *b.IsActive
	}
	return &model.Service{
		ID:          id,
		Name:        b.Name,
		Description: b.Description,
		Price:       b.Price,
		Duration:    b.Duration,
		Category:    b.Category,
		Features:    b.Features,
		ImageURL:    b.ImageURL,
		IsActive:    active,
		SortOrder:   b.SortOrder,
	}
}

func (c *ServiceController) List(w http.ResponseWriter, r *http.Request) {
	services, err := c.Repo.List(r.Context(), queryBool(r, "active"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (c *ServiceController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (c *ServiceController) Create(w http.ResponseWriter, r *http.Request) {
	var body serviceRequestBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	s := body.service(0)
	if err := c.Repo.Create(r.Context(), s); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (c *ServiceController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body serviceRequestBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	s := body.service(id)
	if err := c.Repo.Update(r.Context(), s); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (c *ServiceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Service deleted successfully")
}

// ====== Blog ======

type BlogController struct {
	Repo repository.BlogRepositoryInterface
}

type blogRequest struct {
	Title         string   `json:"title" validate:"required"`
	Slug          string   `json:"slug"`
	Excerpt       *string  `json:"excerpt"`
	Content       string   `json:"content" validate:"required"`
	FeaturedImage *string  `json:"featuredImage"`
	Category      *string  `json:"category"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"isPublished"`
	PublishDate   *string  `json:"publishDate"`
}

func (b blogRequest) post(id int) (*model.BlogPost, error) {
	slug := strings.TrimSpace(b.Slug)
	if slug == "" {
		slug = Slugify(b.Title)
	}
	publish, err := parseOptionalTime("publishDate", b.PublishDate)
	if err != nil {
		return nil, err
	}
	return &model.BlogPost{
		ID:            id,
		Title:         b.Title,
		Slug:          slug,
		Excerpt:       b.Excerpt,
		Content:       b.Content,
		FeaturedImage: b.FeaturedImage,
		Category:      b.Category,
		Tags:          b.Tags,
		IsPublished:   b.IsPublished,
		PublishDate:   publish,
	}, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of non-alphanumerics to "-" and
// trims dashes from both ends.
func Slugify(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (c *BlogController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	posts, total, err := c.Repo.List(r.Context(), queryBool(r, "published"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "posts", posts, page, total)
}

func (c *BlogController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := c.Repo.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (c *BlogController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	post, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (c *BlogController) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body blogRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	post, err := body.post(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	post.AuthorID = &p.UserID
	if err := c.Repo.Create(r.Context(), post); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (c *BlogController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body blogRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	post, err := body.post(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Update(r.Context(), post); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (c *BlogController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Blog post deleted successfully")
}

// ====== Testimonials ======

type TestimonialController struct {
	Repo repository.TestimonialRepositoryInterface
}

type testimonialRequest struct {
	CustomerName string  `json:"customerName" validate:"required"`
	Location     *string `json:"location"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Content      string  `json:"content" validate:"required"`
	ServiceType  *string `json:"serviceType"`
	IsApproved   bool    `json:"isApproved"`
}

func (b testimonialRequest) testimonial(id int) *model.Testimonial {
	return &model.Testimonial{
		ID:           id,
		CustomerName: b.CustomerName,
		Location:     b.Location,
		Rating:       b.Rating,
		Content:      b.Content,
		ServiceType:  b.ServiceType,
		IsApproved:   b.IsApproved,
	}
}

func (c *TestimonialController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, total, err := c.Repo.List(r.Context(), queryBool(r, "approved"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "testimonials", items, page, total)
}

func (c *TestimonialController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Create is public; submissions wait for approval.
func (c *TestimonialController) Create(w http.ResponseWriter, r *http.Request) {
	var body testimonialRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	t := body.testimonial(0)
	t.IsApproved = false
	if err := c.Repo.Create(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (c *TestimonialController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body testimonialRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	t := body.testimonial(id)
	if err := c.Repo.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (c *TestimonialController) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	approved := true
	var body struct {
		IsApproved *bool `json:"isApproved"`
	}
	if r.ContentLength > 0 {
		if err := decode(w, r, &body); err != nil {
			writeError(w, r, err)
			return
		}
		if body.IsApproved != nil {
			approved = *body.IsApproved
		}
	}
	t, err := c.Repo.SetApproved(r.Context(), id, approved)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (c *TestimonialController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Testimonial deleted successfully")
}
