package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm-import/internal/models"

	gocache "github.com/patrickmn/go-cache"
)

// Placeholder names used when the leads/opportunities flows must create a
// contact without any usable name in the row.
const (
	placeholderFirstName = "Unknown"
	placeholderLastName  = "Contact"
)

var errContactNameRequired = errors.New("contact name is required (map firstName and lastName, or fullName)")

// resolvedID is the cached result of a name/email lookup. Found=false is the
// negative sentinel that suppresses repeat lookups for the same key.
type resolvedID struct {
	ID    int64
	Found bool
}

// resolverSet holds the per-run entity resolvers. The cache lives for one
// execution only; it is built at loop start and discarded with the set.
type resolverSet struct {
	contacts  ContactStore
	customers CustomerStore
	users     UserStore
	cache     *gocache.Cache
}

func newResolverSet(contacts ContactStore, customers CustomerStore, users UserStore) *resolverSet {
	return &resolverSet{
		contacts:  contacts,
		customers: customers,
		users:     users,
		cache:     gocache.New(gocache.NoExpiration, 0),
	}
}

// contactParams carries the optional contact attributes a row may supply.
type contactParams struct {
	Email     string
	FirstName string
	LastName  string
	FullName  string
	Phone     string
	JobTitle  string
	Company   string
	Notes     string
	LinkedIn  string
}

// resolveContact looks up a contact by exact lowercased email and creates one
// when absent. When allowPlaceholder is false and the row carries no usable
// name, creation fails (the contacts import requires a real name; the
// leads/opportunities flows substitute a placeholder instead).
func (rs *resolverSet) resolveContact(ctx context.Context, p contactParams, allowPlaceholder bool) (*models.Contact, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return nil, errors.New("contact email is required")
	}

	existing, err := rs.contacts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("contact lookup failed: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	first, last := p.FirstName, p.LastName
	if first == "" && last == "" {
		first, last = splitFullName(p.FullName)
	}
	if first == "" && last == "" {
		if !allowPlaceholder {
			return nil, errContactNameRequired
		}
		first, last = placeholderFirstName, placeholderLastName
	}

	contact := &models.Contact{
		Email:       email,
		FirstName:   first,
		LastName:    last,
		Phone:       p.Phone,
		JobTitle:    p.JobTitle,
		Company:     p.Company,
		Notes:       p.Notes,
		LinkedInURL: p.LinkedIn,
	}
	if err := rs.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("contact create failed: %w", err)
	}
	return contact, nil
}

// resolveCustomer returns the ID of the customer with the given name, or nil
// when no customer matches. Results, including misses, are cached per run.
func (rs *resolverSet) resolveCustomer(ctx context.Context, name string) (*int64, error) {
	key := "customer:" + strings.ToLower(strings.TrimSpace(name))
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	if cached, ok := rs.cache.Get(key); ok {
		return cached.(resolvedID).ptr(), nil
	}

	customer, err := rs.customers.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}

	result := resolvedID{}
	if customer != nil {
		result = resolvedID{ID: customer.ID, Found: true}
	}
	rs.cache.Set(key, result, gocache.NoExpiration)
	return result.ptr(), nil
}

// resolveUser returns the ID of the user with the given email, or nil when no
// user matches. Results, including misses, are cached per run.
func (rs *resolverSet) resolveUser(ctx context.Context, email string) (*int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	key := "user:" + normalized

	if cached, ok := rs.cache.Get(key); ok {
		return cached.(resolvedID).ptr(), nil
	}

	user, err := rs.users.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	result := resolvedID{}
	if user != nil {
		result = resolvedID{ID: user.ID, Found: true}
	}
	rs.cache.Set(key, result, gocache.NoExpiration)
	return result.ptr(), nil
}

func (r resolvedID) ptr() *int64 {
	if !r.Found {
		return nil
	}
	id := r.ID
	return &id
}
