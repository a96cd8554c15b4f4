package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// contactProcessor upserts contacts keyed by email.
type contactProcessor struct {
	contacts ContactStore
}

func (p *contactProcessor) processRow(ctx context.Context, rs *resolverSet, m mappedRow, opts ExecuteOptions) (rowResult, error) {
	email := strings.ToLower(strings.TrimSpace(m.get(FieldEmail)))
	if email == "" {
		return failed("Contact email is required"), nil
	}

	existing, err := p.contacts.GetByEmail(ctx, email)
	if err != nil {
		return rowResult{}, fmt.Errorf("contact lookup failed: %w", err)
	}

	customerID, err := rs.resolveCustomer(ctx, m.get(FieldCustomerName))
	if err != nil {
		return rowResult{}, err
	}

	if existing != nil {
		if !opts.UpdateExisting {
			return skipped(fmt.Sprintf("Contact %s already exists", email)), nil
		}

		fields := map[string]interface{}{}
		if m.has(FieldFirstName) {
			fields["first_name"] = m.get(FieldFirstName)
		}
		if m.has(FieldLastName) {
			fields["last_name"] = m.get(FieldLastName)
		}
		if !m.has(FieldFirstName) && !m.has(FieldLastName) && m.has(FieldFullName) {
			first, last := splitFullName(m.get(FieldFullName))
			fields["first_name"] = first
			fields["last_name"] = last
		}
		if m.has(FieldPhone) {
			fields["phone"] = m.get(FieldPhone)
		}
		if m.has(FieldJobTitle) {
			fields["job_title"] = m.get(FieldJobTitle)
		}
		if m.has(FieldCompany) {
			fields["company"] = m.get(FieldCompany)
		}
		if m.has(FieldNotes) {
			fields["notes"] = m.get(FieldNotes)
		}
		if m.has(FieldLinkedIn) {
			fields["linkedin_url"] = m.get(FieldLinkedIn)
		}
		// Updates only touch the customer association when the row carries a
		// customer value; the default customer never overwrites an existing
		// association on its own.
		if m.has(FieldCustomerName) {
			if customerID == nil {
				customerID = opts.DefaultCustomerID
			}
			if customerID != nil {
				fields["customer_id"] = *customerID
			}
		}

		if len(fields) > 0 {
			if err := p.contacts.UpdateFields(ctx, existing.ID, fields); err != nil {
				return rowResult{}, fmt.Errorf("contact update failed: %w", err)
			}
		}
		return updated(), nil
	}

	// The contacts import requires a usable name; unlike the leads and
	// opportunities flows it never substitutes a placeholder.
	contact, err := rs.resolveContact(ctx, contactParams{
		Email:     email,
		FirstName: m.get(FieldFirstName),
		LastName:  m.get(FieldLastName),
		FullName:  m.get(FieldFullName),
		Phone:     m.get(FieldPhone),
		JobTitle:  m.get(FieldJobTitle),
		Company:   m.get(FieldCompany),
		Notes:     m.get(FieldNotes),
		LinkedIn:  m.get(FieldLinkedIn),
	}, false)
	if err != nil {
		if errors.Is(err, errContactNameRequired) {
			return failed("Contact name is required: map firstName and lastName, or fullName"), nil
		}
		return rowResult{}, err
	}

	if customerID == nil {
		customerID = opts.DefaultCustomerID
	}
	if customerID != nil {
		if err := p.contacts.UpdateFields(ctx, contact.ID, map[string]interface{}{"customer_id": *customerID}); err != nil {
			return rowResult{}, fmt.Errorf("contact update failed: %w", err)
		}
	}
	return created(), nil
}
