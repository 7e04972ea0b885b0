// internal/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/hvac-backend/internal/auth"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// Data is the content of one or more seed files.
type Data struct {
	Settings     map[string]string `yaml:"settings"`
	Pages        []Page            `yaml:"pages"`
	Services     []Service         `yaml:"services"`
	Testimonials []Testimonial     `yaml:"testimonials"`
	Admin        *Admin            `yaml:"admin"`
}

type Page struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Content         string `yaml:"content"`
	MetaDescription string `yaml:"metaDescription"`
}

type Service struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Duration    int      `yaml:"duration"`
	Category    string   `yaml:"category"`
	Features    []string `yaml:"features"`
	SortOrder   int      `yaml:"sortOrder"`
}

type Testimonial struct {
	CustomerName string `yaml:"customerName"`
	Location     string `yaml:"location"`
	Rating       int    `yaml:"rating"`
	Content      string `yaml:"content"`
	ServiceType  string `yaml:"serviceType"`
}

type Admin struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

// LoadDir reads every *.yaml file in dir, in name order, and merges them.
// Later files override earlier settings keys; lists are appended.
func LoadDir(dir string) (*Data, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no seed files in %s", dir)
	}
	sort.Strings(paths)

	merged := &Data{Settings: map[string]string{}}
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var d Data
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		merged.merge(&d)
	}
	return merged, merged.Validate()
}

func (d *Data) merge(o *Data) {
	for k, v := range o.Settings {
		d.Settings[k] = v
	}
	d.Pages = append(d.Pages, o.Pages...)
	d.Services = append(d.Services, o.Services...)
	d.Testimonials = append(d.Testimonials, o.Testimonials...)
	if o.Admin != nil {
		d.Admin = o.Admin
	}
}

// Validate rejects entries the database constraints would refuse.
func (d *Data) Validate() error {
	for i, p := range d.Pages {
		if p.ID == "" || p.Title == "" {
			return fmt.Errorf("pages[%d]: id and title are required", i)
		}
	}
	for i, s := range d.Services {
		if s.Name == "" || s.Description == "" {
			return fmt.Errorf("services[%d]: name and description are required", i)
		}
		if s.Price < 0 || s.Duration < 1 {
			return fmt.Errorf("services[%d] %s: price must be >= 0 and duration >= 1", i, s.Name)
		}
	}
	for i, t := range d.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("testimonials[%d]: rating must be between 1 and 5", i)
		}
	}
	if d.Admin != nil && d.Admin.Email == "" {
		return errors.New("admin: email is required")
	}
	return nil
}

// Store is where seed data is written.
type Store struct {
	Settings     repository.SettingsRepositoryInterface
	Services     repository.ServiceRepositoryInterface
	Testimonials repository.TestimonialRepositoryInterface
	Users        repository.UserRepositoryInterface
}

// Report counts what Apply wrote.
type Report struct {
	Settings     int
	Pages        int
	Services     int
	Testimonials int
	AdminCreated bool
}

// Apply writes d idempotently. Services are matched by name, testimonials
// are only seeded into an empty table, and the admin is only created when
// the email is free. adminPassword may be empty to skip the admin.
func Apply(ctx context.Context, st Store, d *Data, adminPassword string, log *logrus.Entry) (*Report, error) {
	rep := &Report{}

	if len(d.Settings) > 0 {
		if err := st.Settings.Upsert(ctx, d.Settings); err != nil {
			return rep, fmt.Errorf("settings: %w", err)
		}
		rep.Settings = len(d.Settings)
	}

	for _, p := range d.Pages {
		page := &model.PageContent{PageID: p.ID, Title: p.Title, Content: p.Content, MetaDescription: optional(p.MetaDescription)}
		if err := st.Settings.UpsertPage(ctx, page); err != nil {
			return rep, fmt.Errorf("page %s: %w", p.ID, err)
		}
		rep.Pages++
	}

	existing, err := st.Services.List(ctx, false)
	if err != nil {
		return rep, fmt.Errorf("list services: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[strings.ToLower(s.Name)] = true
	}
	for _, s := range d.Services {
		if known[strings.ToLower(s.Name)] {
			continue
		}
		svc := &model.Service{
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Duration:    s.Duration,
			Category:    optional(s.Category),
			Features:    s.Features,
			IsActive:    true,
			SortOrder:   s.SortOrder,
		}
		if err := st.Services.Create(ctx, svc); err != nil {
			return rep, fmt.Errorf("service %s: %w", s.Name, err)
		}
		rep.Services++
	}

	if len(d.Testimonials) > 0 {
		_, total, err := st.Testimonials.List(ctx, false, model.PageRequest{Page: 1, Limit: 1})
		if err != nil {
			return rep, fmt.Errorf("count testimonials: %w", err)
		}
		if total == 0 {
			for _, t := range d.Testimonials {
				err := st.Testimonials.Create(ctx, &model.Testimonial{
					CustomerName: t.CustomerName,
					Location:     optional(t.Location),
					Rating:       t.Rating,
					Content:      t.Content,
					ServiceType:  optional(t.ServiceType),
					IsApproved:   true,
				})
				if err != nil {
					return rep, fmt.Errorf("testimonial from %s: %w", t.CustomerName, err)
				}
				rep.Testimonials++
			}
		}
	}

	if d.Admin != nil {
		if adminPassword == "" {
			log.WithField("email", d.Admin.Email).Warn("no admin password given, admin user not seeded")
		} else {
			_, created, err := EnsureAdmin(ctx, st.Users, d.Admin.Email, adminPassword, d.Admin.FirstName, d.Admin.LastName)
			if err != nil {
				return rep, fmt.Errorf("admin: %w", err)
			}
			rep.AdminCreated = created
		}
	}

	log.WithFields(logrus.Fields{
		"settings":     rep.Settings,
		"pages":        rep.Pages,
		"services":     rep.Services,
		"testimonials": rep.Testimonials,
		"admin":        rep.AdminCreated,
	}).Info("seed applied")
	return rep, nil
}

// EnsureAdmin creates an admin account unless the email is already taken,
// in which case the existing user is returned unchanged.
func EnsureAdmin(ctx context.Context, users repository.UserRepositoryInterface, email, password, firstName, lastName string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	var nf *appErrors.NotFoundError
	if !errors.As(err, &nf) {
		return nil, false, err
	}
	if len(password) < 6 {
		return nil, false, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if firstName == "" {
		firstName = "Admin"
	}
	if lastName == "" {
		lastName = "User"
	}
	u = &model.User{Email: email, PasswordHash: hash, FirstName: firstName, LastName: lastName, Role: model.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
