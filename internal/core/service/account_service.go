package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// AccountService implements signup, login, and the admin-driven account
// provisioning workflows.
type AccountService struct {
	accounts  ports.AccountRepository
	directory ports.DirectoryService
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAccountService(
	accounts ports.AccountRepository,
	directory ports.DirectoryService,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		accounts:  accounts,
		directory: directory,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Signup runs the public self-signup workflow. The account and its mirror
// credential record are created in one transaction: the mirror never exists
// without the account, and vice versa.
func (s *AccountService) Signup(ctx context.Context, input ports.SignupInput) (*domain.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username == "" || input.Password == "" || input.PasswordConfirm == "" {
		return nil, domain.ErrMissingFields
	}
	if input.Password != input.PasswordConfirm {
		return nil, domain.ErrPasswordMismatch
	}

	if taken, err := s.accounts.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}

	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.ErrInvalidEmail
		}
		// Either store holding the email rejects the signup.
		if used, err := s.accounts.MirrorEmailExists(ctx, email); err != nil {
			return nil, err
		} else if used {
			return nil, domain.ErrEmailTaken
		}
		if used, err := s.accounts.EmailExists(ctx, email); err != nil {
			return nil, err
		} else if used {
			return nil, domain.ErrEmailTaken
		}
	}

	accountHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	// The mirror stores an independently computed hash of the same password.
	mirrorHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(accountHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	mirror := &domain.MirrorAccount{
		Email:        email,
		PasswordHash: string(mirrorHash),
		CreatedAt:    now,
	}

	created, err := s.accounts.CreateWithMirror(ctx, account, mirror)
	if err != nil {
		// The cause stays in the logs; the caller gets a generic failure.
		s.logger.Error().Err(err).Str("username", username).Msg("signup transaction failed")
		return nil, domain.ErrSignupFailed
	}

	s.logger.Info().Str("username", created.Username).Msg("account created via signup")
	return created, nil
}

// Login authenticates against the primary account store and mints a token
// carrying the username, superuser flag, and directory membership.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	groups, err := s.directory.GroupsOf(ctx, account.Username)
	if err != nil {
		// Degraded directory: claims carry no groups, the gate denies by
		// default for group-restricted operations.
		s.logger.Warn().Err(err).Str("username", account.Username).Msg("could not load groups for login claims")
		groups = nil
	}

	token, err := s.generateToken(account, groups)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

func (s *AccountService) generateToken(account *domain.Account, groups []domain.Group) (string, error) {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, string(g))
	}
	claims := jwt.MapClaims{
		"username":  account.Username,
		"superuser": account.IsSuperuser,
		"groups":    names,
		"exp":       s.now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) Get(ctx context.Context, id string) (*ports.AccountDetail, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flags, err := s.directory.FlagsOf(ctx, account.Username)
	if err != nil {
		flags = domain.GroupFlags{}
	}
	return &ports.AccountDetail{Account: account, Flags: flags}, nil
}

// Provision creates a staff account with explicit role/permission flags
// (admin path). is_staff derives from the flags and the superuser bit.
func (s *AccountService) Provision(ctx context.Context, input ports.ProvisionInput) (*domain.Account, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if taken, err := s.accounts.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.accounts.Create(ctx, &domain.Account{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		IsSuperuser:  input.IsSuperuser,
		IsStaff:      input.IsSuperuser || input.Flags.Any(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.directory.Assign(ctx, created.Username, input.Flags); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Bool("superuser", created.IsSuperuser).Msg("staff account provisioned")
	return created, nil
}

// UpdateAccount edits an account (admin path). A blank password means
// "no change". Membership is fully replaced from the submitted flags.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, input ports.ProvisionInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(input.Username); username != "" && username != account.Username {
		if taken, err := s.accounts.UsernameExists(ctx, username); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrUsernameTaken
		}
		account.Username = username
	}
	account.Email = strings.TrimSpace(input.Email)
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}
	account.IsSuperuser = input.IsSuperuser
	account.IsStaff = input.IsSuperuser || input.Flags.Any()
	account.UpdatedAt = s.now().UTC()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	if err := s.directory.Assign(ctx, account.Username, input.Flags); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account, refusing when the actor targets itself.
func (s *AccountService) DeleteAccount(ctx context.Context, actorUsername, id string) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Username == actorUsername {
		return domain.ErrSelfDelete
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return err
	}
	// Clear directory membership so the groups hold no dangling names.
	return s.directory.Assign(ctx, account.Username, domain.GroupFlags{})
}
