package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/pkg/events"
	"mining-chatbot/pkg/mailer"

	"github.com/google/uuid"
)

// ==================== COMPANY REPOSITORY ====================

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*entity.Company
	createErr error
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*entity.Company)}
}

func cloneCompany(c *entity.Company) *entity.Company {
	out := *c
	if c.VerificationToken != nil {
		token := *c.VerificationToken
		out.VerificationToken = &token
	}
	if c.OTP != nil {
		otp := *c.OTP
		out.OTP = &otp
	}
	if c.OTPExpiry != nil {
		expiry := *c.OTPExpiry
		out.OTPExpiry = &expiry
	}
	return &out
}

func (r *fakeCompanyRepo) find(match func(c *entity.Company) bool) *entity.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if match(c) {
			return cloneCompany(c)
		}
	}
	return nil
}

func (r *fakeCompanyRepo) byEmail(email string) *entity.Company {
	return r.find(func(c *entity.Company) bool { return c.Email == email })
}

func (r *fakeCompanyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.companies)
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Email == company.Email {
			return errors.New("duplicate email")
		}
	}
	r.companies[company.ID] = cloneCompany(company)
	return nil
}

func (r *fakeCompanyRepo) FindByEmail(_ context.Context, email string) (*entity.Company, error) {
	return r.byEmail(email), nil
}

func (r *fakeCompanyRepo) FindVerifiedByEmail(_ context.Context, email string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.Email == email && c.Verified }), nil
}

func (r *fakeCompanyRepo) FindUnverifiedByEmail(_ context.Context, email string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.Email == email && !c.Verified }), nil
}

func (r *fakeCompanyRepo) FindByEmailAndOTP(_ context.Context, email, otp string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool {
		return c.Email == email && c.OTP != nil && *c.OTP == otp
	}), nil
}

func (r *fakeCompanyRepo) ConsumeVerificationToken(_ context.Context, token string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.VerificationToken != nil && *c.VerificationToken == token {
			c.Verified = true
			c.VerificationToken = nil
			return cloneCompany(c), nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) MarkVerifiedWithOTP(_ context.Context, id uuid.UUID, otp string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok || c.OTP == nil || *c.OTP != otp {
		return false, nil
	}
	c.Verified = true
	c.OTP = nil
	c.OTPExpiry = nil
	return true, nil
}

func (r *fakeCompanyRepo) UpdateOTP(_ context.Context, email, otp string, expiry time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Email == email && !c.Verified {
			c.OTP = &otp
			c.OTPExpiry = &expiry
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompanyRepo) UpdateVerificationToken(_ context.Context, email, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Email == email && !c.Verified {
			c.VerificationToken = &token
			return true, nil
		}
	}
	return false, nil
}

// WithinTx restores the previous rows when fn fails.
func (r *fakeCompanyRepo) WithinTx(_ context.Context, fn func(repo repository.CompanyRepository) error) error {
	r.mu.Lock()
	snapshot := make(map[uuid.UUID]*entity.Company, len(r.companies))
	for id, c := range r.companies {
		snapshot[id] = cloneCompany(c)
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.companies = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

// ==================== CHAT HISTORY REPOSITORY ====================

type fakeChatHistoryRepo struct {
	mu        sync.Mutex
	chats     map[uuid.UUID]*entity.ChatHistory
	createErr error
}

func newFakeChatHistoryRepo() *fakeChatHistoryRepo {
	return &fakeChatHistoryRepo{chats: make(map[uuid.UUID]*entity.ChatHistory)}
}

func (r *fakeChatHistoryRepo) Create(_ context.Context, chat *entity.ChatHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *chat
	r.chats[chat.ID] = &c
	return nil
}

func (r *fakeChatHistoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ChatHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeChatHistoryRepo) byEmail(email string) []*entity.ChatHistory {
	var out []*entity.ChatHistory
	for _, c := range r.chats {
		if c.UserEmail == email {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeChatHistoryRepo) FindByEmail(_ context.Context, email string, limit, offset int) ([]*entity.ChatHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.byEmail(email)
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *fakeChatHistoryRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byEmail(email))), nil
}

func (r *fakeChatHistoryRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; !ok {
		return false, nil
	}
	delete(r.chats, id)
	return true, nil
}

// ==================== KNOWLEDGE / SESSIONS ====================

type fakeKnowledgeRepo struct {
	entries []*entity.KnowledgeEntry
	calls   int
}

func (r *fakeKnowledgeRepo) Find(_ context.Context, queryType entity.QueryType, mine, material string) ([]*entity.KnowledgeEntry, error) {
	r.calls++
	var out []*entity.KnowledgeEntry
	for _, e := range r.entries {
		if e.Type == queryType && e.MineType == mine && e.Material == material {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.ChatSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]entity.ChatSession)}
}

func (s *fakeSessionStore) Get(_ context.Context, id string) (*entity.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *fakeSessionStore) Save(_ context.Context, session *entity.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// ==================== OUTBOUND CLIENTS ====================

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeLLM struct {
	answer   string
	err      error
	prompts  []string
	question string
}

func (l *fakeLLM) Complete(_ context.Context, systemPrompt, question string) (string, error) {
	l.prompts = append(l.prompts, systemPrompt)
	l.question = question
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

type fakeTranscriber struct {
	text     string
	err      error
	mimeType string
}

func (t *fakeTranscriber) Transcribe(_ context.Context, _ []byte, mimeType string) (string, error) {
	t.mimeType = mimeType
	return t.text, t.err
}
