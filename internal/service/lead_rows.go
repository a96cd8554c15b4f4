package service

import (
	"context"
	"fmt"
	"strings"

	"crm-import/internal/models"
)

// leadProcessor upserts leads keyed by (contact, title).
type leadProcessor struct {
	leads LeadStore
}

func (p *leadProcessor) processRow(ctx context.Context, rs *resolverSet, m mappedRow, opts ExecuteOptions) (rowResult, error) {
	title := strings.TrimSpace(m.get(FieldTitle))
	if title == "" {
		return failed("Lead title is required"), nil
	}
	if strings.TrimSpace(m.get(FieldContactEmail)) == "" {
		return failed("Contact email is required"), nil
	}

	contact, err := rs.resolveContact(ctx, contactParams{
		Email:     m.get(FieldContactEmail),
		FirstName: m.get(FieldContactFirstName),
		LastName:  m.get(FieldContactLastName),
		FullName:  m.get(FieldContactFullName),
		Phone:     m.get(FieldContactPhone),
	}, true)
	if err != nil {
		return rowResult{}, err
	}

	customerID, err := rs.resolveCustomer(ctx, m.get(FieldCustomerName))
	if err != nil {
		return rowResult{}, err
	}

	ownerID, err := rs.resolveUser(ctx, m.get(FieldOwnerEmail))
	if err != nil {
		return rowResult{}, err
	}

	existing, err := p.leads.GetByContactAndTitle(ctx, contact.ID, title)
	if err != nil {
		return rowResult{}, fmt.Errorf("lead lookup failed: %w", err)
	}

	if existing != nil {
		if !opts.UpdateExisting {
			return skipped(fmt.Sprintf("Lead %q already exists for contact %s", title, contact.Email)), nil
		}

		fields := map[string]interface{}{}
		if m.has(FieldStatus) {
			fields["status"] = strings.ToUpper(strings.TrimSpace(m.get(FieldStatus)))
		}
		if m.has(FieldSource) {
			fields["source"] = m.get(FieldSource)
		}
		if m.has(FieldNotes) {
			fields["notes"] = m.get(FieldNotes)
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
		if ownerID != nil {
			fields["assigned_user_id"] = *ownerID
		}

		if len(fields) > 0 {
			if err := p.leads.UpdateFields(ctx, existing.ID, fields); err != nil {
				return rowResult{}, fmt.Errorf("lead update failed: %w", err)
			}
		}
		return updated(), nil
	}

	if customerID == nil {
		customerID = opts.DefaultCustomerID
	}

	status := strings.ToUpper(strings.TrimSpace(m.get(FieldStatus)))
	if status == "" {
		status = models.LeadStatusNew
	}

	lead := &models.Lead{
		Title:          title,
		ContactID:      contact.ID,
		CustomerID:     customerID,
		AssignedUserID: ownerID,
		Status:         status,
		Source:         m.get(FieldSource),
		Notes:          m.get(FieldNotes),
	}
	if err := p.leads.Create(ctx, lead); err != nil {
		return rowResult{}, fmt.Errorf("lead create failed: %w", err)
	}
	return created(), nil
}
