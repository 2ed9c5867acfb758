package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"authflow/internal/i18n"
)

// Mailer delivers one transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Session is a freshly issued bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Service runs the account flows against the Credential Store. It holds no
// per-account state; concurrent OTP issuance for one account is
// last-write-wins.
type Service struct {
	store   Store
	hasher  PasswordHasher
	tokens  *TokenIssuer
	mailer  Mailer
	audit   Auditor
	logger  *slog.Logger
	appName string

	now         func() time.Time
	generateOTP OTPGenerator
}

type Option func(*Service)

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.audit = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithAppName(name string) Option {
	return func(s *Service) { s.appName = name }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithOTPGenerator(g OTPGenerator) Option {
	return func(s *Service) { s.generateOTP = g }
}

func NewService(store Store, hasher PasswordHasher, tokens *TokenIssuer, mailer Mailer, opts ...Option) *Service {
	s := &Service{
		store:       store,
		hasher:      hasher,
		tokens:      tokens,
		mailer:      mailer,
		logger:      slog.Default(),
		appName:     "authflow",
		now:         time.Now,
		generateOTP: GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, name, email, password string) (Session, error) {
	if name == "" || email == "" || password == "" {
		return Session{}, ErrValidation(MsgFieldsRequired)
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInternal("find account", err)
	}
	if existing != nil {
		return Session{}, ErrConflict(MsgUserExists)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, ErrInternal("hash password", err)
	}

	acc := &Account{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Save(ctx, acc); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return Session{}, ErrConflict(MsgUserExists)
		}
		return Session{}, ErrInternal("create account", err)
	}

	sess, err := s.issue(acc.ID)
	if err != nil {
		return Session{}, err
	}

	info := RequestInfoFromContext(ctx)
	content := i18n.WelcomeEmail(info.Locale, s.appName, acc.Email)
	if err := s.mailer.Send(ctx, acc.Email, content.Subject, content.Text, content.HTML); err != nil {
		return Session{}, ErrInternal("send welcome email", err)
	}

	s.record(ctx, EventRegister, acc)
	return sess, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, ErrValidation(MsgFieldsRequired)
	}

	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInternal("find account", err)
	}
	if acc == nil {
		return Session{}, ErrNotFound(MsgUserMissing)
	}
	if !s.hasher.Compare(acc.PasswordHash, password) {
		s.record(ctx, EventLoginFailed, acc)
		return Session{}, ErrAuth(MsgIncorrectPassword)
	}
	if s.hasher.NeedsRehash(acc.PasswordHash) {
		s.rehash(ctx, acc, password)
	}

	sess, err := s.issue(acc.ID)
	if err != nil {
		return Session{}, err
	}
	s.record(ctx, EventLogin, acc)
	return sess, nil
}

// Logout only records the event. The token itself stays valid until it
// expires; callers clear the cookie.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		return
	}
	s.record(ctx, EventLogout, &Account{ID: id})
}

func (s *Service) SendVerifyOTP(ctx context.Context, accountID string) error {
	acc, err := s.findByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc.Verified {
		return ErrConflict(MsgAlreadyVerified)
	}

	otp, err := s.generateOTP()
	if err != nil {
		return ErrInternal("generate otp", err)
	}
	acc.VerifyOTP = otp
	acc.VerifyOTPExpiresAt = s.now().Add(VerifyOTPTTL)
	if err := s.store.Save(ctx, acc); err != nil {
		return ErrInternal("save verify otp", err)
	}

	info := RequestInfoFromContext(ctx)
	content := i18n.VerifyOTPEmail(info.Locale, acc.Email, otp, int(VerifyOTPTTL/time.Hour))
	if err := s.mailer.Send(ctx, acc.Email, content.Subject, content.Text, content.HTML); err != nil {
		return ErrInternal("send verify otp", err)
	}

	s.record(ctx, EventVerifyOTPSent, acc)
	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, accountID, otp string) error {
	if accountID == "" || otp == "" {
		return ErrValidation(MsgFieldsRequired)
	}

	acc, err := s.findByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := checkOTP(acc.VerifyOTP, otp, acc.VerifyOTPExpiresAt, s.now()); err != nil {
		return err
	}

	acc.Verified = true
	acc.clearVerifyOTP()
	if err := s.store.Save(ctx, acc); err != nil {
		return ErrInternal("mark verified", err)
	}

	s.record(ctx, EventEmailVerified, acc)
	return nil
}

func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return ErrValidation(MsgEmailRequired)
	}

	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return ErrInternal("find account", err)
	}
	if acc == nil {
		return ErrNotFound(MsgUserNotFound)
	}

	otp, err := s.generateOTP()
	if err != nil {
		return ErrInternal("generate otp", err)
	}
	acc.ResetOTP = otp
	acc.ResetOTPExpiresAt = s.now().Add(ResetOTPTTL)
	if err := s.store.Save(ctx, acc); err != nil {
		return ErrInternal("save reset otp", err)
	}

	info := RequestInfoFromContext(ctx)
	content := i18n.ResetOTPEmail(info.Locale, acc.Email, otp, int(ResetOTPTTL/time.Minute))
	if err := s.mailer.Send(ctx, acc.Email, content.Subject, content.Text, content.HTML); err != nil {
		return ErrInternal("send reset otp", err)
	}

	s.record(ctx, EventResetOTPSent, acc)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return ErrValidation(MsgResetFieldsRequired)
	}

	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return ErrInternal("find account", err)
	}
	if acc == nil {
		return ErrNotFound(MsgUserNotFound)
	}
	if err := checkOTP(acc.ResetOTP, otp, acc.ResetOTPExpiresAt, s.now()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return ErrInternal("hash password", err)
	}
	acc.PasswordHash = hash
	acc.clearResetOTP()
	if err := s.store.Save(ctx, acc); err != nil {
		return ErrInternal("save password", err)
	}

	s.record(ctx, EventPasswordReset, acc)
	return nil
}

func (s *Service) UserData(ctx context.Context, accountID string) (UserData, error) {
	acc, err := s.findByID(ctx, accountID)
	if err != nil {
		return UserData{}, err
	}
	return UserData{Name: acc.Name, IsAccountVerified: acc.Verified}, nil
}

func (s *Service) findByID(ctx context.Context, accountID string) (*Account, error) {
	if accountID == "" {
		return nil, ErrNotFound(MsgUserNotFound)
	}
	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, ErrInternal("find account", err)
	}
	if acc == nil {
		return nil, ErrNotFound(MsgUserNotFound)
	}
	return acc, nil
}

// rehash upgrades a hash made with an old cost. Failures keep the old hash.
func (s *Service) rehash(ctx context.Context, acc *Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		acc.PasswordHash = hash
		err = s.store.Save(ctx, acc)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "password rehash failed", "account_id", acc.ID, "error", err)
	}
}

func (s *Service) issue(accountID string) (Session, error) {
	token, expires, err := s.tokens.Issue(accountID)
	if err != nil {
		return Session{}, ErrInternal("issue token", err)
	}
	return Session{Token: token, ExpiresAt: expires}, nil
}

// record writes an audit event. Audit failures are logged, never returned.
func (s *Service) record(ctx context.Context, eventType string, acc *Account) {
	if s.audit == nil {
		return
	}
	info := RequestInfoFromContext(ctx)
	err := s.audit.Log(ctx, AuditEvent{
		EventType: eventType,
		AccountID: acc.ID,
		Email:     acc.Email,
		IP:        info.IP,
		UserAgent: info.UserAgent,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit write failed", "event", eventType, "account_id", acc.ID, "error", err)
	}
}
