package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"crm-import/internal/models"
	"crm-import/internal/storage"
)

// In-memory store fakes backing the import service tests.

type fakeRunStore struct {
	mu      sync.Mutex
	runs    map[int64]*models.ImportRun
	nextID  int64
	updates int
	// failOnUpdate holds 1-based Update call numbers that should fail.
	failOnUpdate map[int]bool
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: map[int64]*models.ImportRun{}, failOnUpdate: map[int]bool{}}
}

func (s *fakeRunStore) Create(_ context.Context, run *models.ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run.ID = s.nextID
	run.CreatedAt = time.Now()
	clone := *run
	s.runs[run.ID] = &clone
	return nil
}

func (s *fakeRunStore) GetByID(_ context.Context, id int64) (*models.ImportRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	clone := *run
	return &clone, nil
}

func (s *fakeRunStore) List(_ context.Context, limit, offset int) ([]models.ImportRun, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := make([]models.ImportRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, *run)
	}
	return runs, len(runs), nil
}

func (s *fakeRunStore) Update(_ context.Context, run *models.ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.failOnUpdate[s.updates] {
		return fmt.Errorf("datastore unavailable")
	}
	clone := *run
	s.runs[run.ID] = &clone
	return nil
}

func (s *fakeRunStore) MarkStaleProcessing(_ context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var count int64
	for _, run := range s.runs {
		if run.Status == models.ImportStatusProcessing && run.StartedAt != nil && run.StartedAt.Before(cutoff) {
			run.Status = models.ImportStatusFailed
			count++
		}
	}
	return count, nil
}

type fakeContactStore struct {
	contacts map[string]*models.Contact
	nextID   int64
	lookups  int
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: map[string]*models.Contact{}}
}

func (s *fakeContactStore) GetByEmail(_ context.Context, email string) (*models.Contact, error) {
	s.lookups++
	contact, ok := s.contacts[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return contact, nil
}

func (s *fakeContactStore) Create(_ context.Context, contact *models.Contact) error {
	s.nextID++
	contact.ID = s.nextID
	s.contacts[contact.Email] = contact
	return nil
}

func (s *fakeContactStore) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	for _, contact := range s.contacts {
		if contact.ID != id {
			continue
		}
		for column, value := range fields {
			switch column {
			case "first_name":
				contact.FirstName = value.(string)
			case "last_name":
				contact.LastName = value.(string)
			case "phone":
				contact.Phone = value.(string)
			case "job_title":
				contact.JobTitle = value.(string)
			case "company":
				contact.Company = value.(string)
			case "notes":
				contact.Notes = value.(string)
			case "linkedin_url":
				contact.LinkedInURL = value.(string)
			case "customer_id":
				v := value.(int64)
				contact.CustomerID = &v
			}
		}
		return nil
	}
	return fmt.Errorf("contact %d not found", id)
}

type fakeCustomerStore struct {
	customers map[string]*models.Customer
	lookups   int
}

func newFakeCustomerStore(names ...string) *fakeCustomerStore {
	s := &fakeCustomerStore{customers: map[string]*models.Customer{}}
	for i, name := range names {
		s.customers[strings.ToLower(name)] = &models.Customer{ID: int64(i + 1), Name: name}
	}
	return s
}

func (s *fakeCustomerStore) GetByName(_ context.Context, name string) (*models.Customer, error) {
	s.lookups++
	customer, ok := s.customers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, nil
	}
	return customer, nil
}

type fakeUserStore struct {
	users   map[string]*models.User
	lookups int
}

func newFakeUserStore(emails ...string) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*models.User{}}
	for i, email := range emails {
		s.users[strings.ToLower(email)] = &models.User{ID: int64(i + 1), Email: email}
	}
	return s
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.lookups++
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return user, nil
}

type leadKey struct {
	contactID int64
	title     string
}

type fakeLeadStore struct {
	leads  map[leadKey]*models.Lead
	nextID int64
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{leads: map[leadKey]*models.Lead{}}
}

func (s *fakeLeadStore) GetByContactAndTitle(_ context.Context, contactID int64, title string) (*models.Lead, error) {
	lead, ok := s.leads[leadKey{contactID, title}]
	if !ok {
		return nil, nil
	}
	return lead, nil
}

func (s *fakeLeadStore) Create(_ context.Context, lead *models.Lead) error {
	s.nextID++
	lead.ID = s.nextID
	s.leads[leadKey{lead.ContactID, lead.Title}] = lead
	return nil
}

func (s *fakeLeadStore) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	for _, lead := range s.leads {
		if lead.ID != id {
			continue
		}
		for column, value := range fields {
			switch column {
			case "status":
				lead.Status = value.(string)
			case "source":
				lead.Source = value.(string)
			case "notes":
				lead.Notes = value.(string)
			case "customer_id":
				v := value.(int64)
				lead.CustomerID = &v
			case "assigned_user_id":
				v := value.(int64)
				lead.AssignedUserID = &v
			}
		}
		return nil
	}
	return fmt.Errorf("lead %d not found", id)
}

type oppKey struct {
	leadID int64
	title  string
}

type fakeOpportunityStore struct {
	opps   map[oppKey]*models.Opportunity
	nextID int64
}

func newFakeOpportunityStore() *fakeOpportunityStore {
	return &fakeOpportunityStore{opps: map[oppKey]*models.Opportunity{}}
}

func (s *fakeOpportunityStore) GetByLeadAndTitle(_ context.Context, leadID int64, title string) (*models.Opportunity, error) {
	opp, ok := s.opps[oppKey{leadID, title}]
	if !ok {
		return nil, nil
	}
	return opp, nil
}

func (s *fakeOpportunityStore) Create(_ context.Context, opp *models.Opportunity) error {
	s.nextID++
	opp.ID = s.nextID
	s.opps[oppKey{opp.LeadID, opp.Title}] = opp
	return nil
}

func (s *fakeOpportunityStore) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	for _, opp := range s.opps {
		if opp.ID != id {
			continue
		}
		for column, value := range fields {
			switch column {
			case "stage":
				opp.Stage = value.(string)
			case "value":
				opp.Value = value.(float64)
			case "probability":
				v := value.(int)
				opp.Probability = &v
			case "close_date":
				v := value.(time.Time)
				opp.CloseDate = &v
			case "is_closed":
				opp.IsClosed = value.(bool)
			case "is_won":
				opp.IsWon = value.(bool)
			case "assigned_user_id":
				v := value.(int64)
				opp.AssignedUserID = &v
			}
		}
		return nil
	}
	return fmt.Errorf("opportunity %d not found", id)
}

type fakeFileStore struct {
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[string][]byte{}}
}

func (s *fakeFileStore) Save(key string, data []byte) error {
	if _, ok := s.files[key]; ok {
		return fmt.Errorf("file %s already exists", key)
	}
	s.files[key] = data
	return nil
}

func (s *fakeFileStore) Read(key string) ([]byte, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

// testEnv bundles a service wired to fresh fakes.
type testEnv struct {
	svc       *ImportService
	runs      *fakeRunStore
	files     *fakeFileStore
	contacts  *fakeContactStore
	customers *fakeCustomerStore
	users     *fakeUserStore
	leads     *fakeLeadStore
	opps      *fakeOpportunityStore
}

func newTestEnv() *testEnv {
	env := &testEnv{
		runs:      newFakeRunStore(),
		files:     newFakeFileStore(),
		contacts:  newFakeContactStore(),
		customers: newFakeCustomerStore(),
		users:     newFakeUserStore(),
		leads:     newFakeLeadStore(),
		opps:      newFakeOpportunityStore(),
	}
	env.svc = NewImportService(
		env.runs, env.files, NewSheetService(),
		env.contacts, env.customers, env.users, env.leads, env.opps,
	)
	return env
}

// csvFile renders rows as CSV content.
func csvFile(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}
