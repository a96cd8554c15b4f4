package service

import (
	"context"
	"fmt"
	"strings"

	"crm-import/internal/models"
)

// opportunityProcessor upserts opportunities keyed by (lead, title). The
// owning lead is itself resolved or created by the leads natural key
// (contact, lead title); when no lead title column is mapped the opportunity
// title doubles as the lead title.
type opportunityProcessor struct {
	leads LeadStore
	opps  OpportunityStore
}

func (p *opportunityProcessor) processRow(ctx context.Context, rs *resolverSet, m mappedRow, opts ExecuteOptions) (rowResult, error) {
	title := strings.TrimSpace(m.get(FieldTitle))
	if title == "" {
		return failed("Opportunity title is required"), nil
	}
	if strings.TrimSpace(m.get(FieldContactEmail)) == "" {
		return failed("Contact email is required"), nil
	}

	contact, err := rs.resolveContact(ctx, contactParams{
		Email:    m.get(FieldContactEmail),
		FullName: m.get(FieldContactFullName),
	}, true)
	if err != nil {
		return rowResult{}, err
	}

	customerID, err := rs.resolveCustomer(ctx, m.get(FieldCustomerName))
	if err != nil {
		return rowResult{}, err
	}
	if customerID == nil {
		customerID = opts.DefaultCustomerID
	}

	ownerID, err := rs.resolveUser(ctx, m.get(FieldOwnerEmail))
	if err != nil {
		return rowResult{}, err
	}

	leadTitle := strings.TrimSpace(m.get(FieldLeadTitle))
	if leadTitle == "" {
		leadTitle = title
	}
	lead, err := p.resolveLead(ctx, contact.ID, leadTitle, customerID, ownerID)
	if err != nil {
		return rowResult{}, err
	}

	existing, err := p.opps.GetByLeadAndTitle(ctx, lead.ID, title)
	if err != nil {
		return rowResult{}, fmt.Errorf("opportunity lookup failed: %w", err)
	}

	isClosed, closedSet, isWon, wonSet := p.stageFlags(m)

	if existing != nil {
		if !opts.UpdateExisting {
			return skipped(fmt.Sprintf("Opportunity %q already exists for lead %q", title, leadTitle)), nil
		}

		fields := map[string]interface{}{}
		if m.has(FieldStage) {
			fields["stage"] = strings.TrimSpace(m.get(FieldStage))
		}
		if value, ok := parseMoney(m.get(FieldValue)); ok {
			fields["value"] = value
		}
		if probability, ok := parseProbability(m.get(FieldProbability)); ok {
			fields["probability"] = probability
		}
		if closeDate, ok := parseDate(m.get(FieldCloseDate)); ok {
			fields["close_date"] = closeDate
		}
		if closedSet {
			fields["is_closed"] = isClosed
		}
		if wonSet {
			fields["is_won"] = isWon
		}
		if ownerID != nil {
			fields["assigned_user_id"] = *ownerID
		}

		if len(fields) > 0 {
			if err := p.opps.UpdateFields(ctx, existing.ID, fields); err != nil {
				return rowResult{}, fmt.Errorf("opportunity update failed: %w", err)
			}
		}
		return updated(), nil
	}

	opp := &models.Opportunity{
		Title:          title,
		LeadID:         lead.ID,
		Stage:          models.OpportunityDefaultStage,
		AssignedUserID: ownerID,
	}
	if stage := strings.TrimSpace(m.get(FieldStage)); stage != "" {
		opp.Stage = stage
	}
	if value, ok := parseMoney(m.get(FieldValue)); ok {
		opp.Value = value
	}
	if probability, ok := parseProbability(m.get(FieldProbability)); ok {
		opp.Probability = &probability
	}
	if closeDate, ok := parseDate(m.get(FieldCloseDate)); ok {
		opp.CloseDate = &closeDate
	}
	opp.IsClosed = isClosed
	opp.IsWon = isWon

	if err := p.opps.Create(ctx, opp); err != nil {
		return rowResult{}, fmt.Errorf("opportunity create failed: %w", err)
	}
	return created(), nil
}

// stageFlags merges explicit isClosed/isWon columns with the flags inferred
// from the stage text. "Closed Won" forces both flags true even over an
// explicit column; "Closed Lost" forces isClosed and defaults isWon to false
// unless an explicit value was mapped.
func (p *opportunityProcessor) stageFlags(m mappedRow) (isClosed bool, closedSet bool, isWon bool, wonSet bool) {
	if v, ok := parseBool(m.get(FieldIsClosed)); ok {
		isClosed, closedSet = v, true
	}
	if v, ok := parseBool(m.get(FieldIsWon)); ok {
		isWon, wonSet = v, true
	}

	switch strings.ToLower(strings.TrimSpace(m.get(FieldStage))) {
	case "closed won":
		return true, true, true, true
	case "closed lost":
		if !wonSet {
			isWon, wonSet = false, true
		}
		return true, true, isWon, wonSet
	}
	return isClosed, closedSet, isWon, wonSet
}

// resolveLead finds or creates the owning lead by (contact, title).
func (p *opportunityProcessor) resolveLead(ctx context.Context, contactID int64, title string, customerID, ownerID *int64) (*models.Lead, error) {
	lead, err := p.leads.GetByContactAndTitle(ctx, contactID, title)
	if err != nil {
		return nil, fmt.Errorf("lead lookup failed: %w", err)
	}
	if lead != nil {
		return lead, nil
	}

	lead = &models.Lead{
		Title:          title,
		ContactID:      contactID,
		CustomerID:     customerID,
		AssignedUserID: ownerID,
		Status:         models.LeadStatusNew,
	}
	if err := p.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("lead create failed: %w", err)
	}
	return lead, nil
}
