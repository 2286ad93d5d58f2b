package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"shop-service/internal/domain"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/infra/token"
	"shop-service/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

type SignUpInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
}

type AuthService struct {
	store       repository.Store
	tokens      TokenMaker
	publisher   rabbit.PublisherInterface
	adminEmails map[string]struct{}
	hashCost    int
	log         zerolog.Logger
}

func NewAuthService(s repository.Store, tokens TokenMaker, pub rabbit.PublisherInterface, adminEmails []string, log zerolog.Logger) *AuthService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	return &AuthService{
		store:     s,
		tokens:    tokens,
		publisher: pub,
		adminEmails: lo.SliceToMap(adminEmails, func(e string) (string, struct{}) {
			return normalizeEmail(e), struct{}{}
		}),
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
}

// SetHashCost lowers the bcrypt cost, which keeps tests fast.
func (a *AuthService) SetHashCost(cost int) {
	a.hashCost = cost
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	switch {
	case username == "":
		return nil, detail(ErrMissingField, "username")
	case email == "":
		return nil, detail(ErrMissingField, "email")
	case in.Password == "":
		return nil, detail(ErrMissingField, "password")
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	users := a.store.Users()
	if err := a.checkAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	role := domain.RoleCustomer
	if _, ok := a.adminEmails[email]; ok {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Address:      strings.TrimSpace(in.Address),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race on a unique index; report the field that is now taken
			if err := a.checkAvailable(ctx, email, username); err != nil {
				return nil, err
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	a.log.Info().Uint64("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	evt := domain.UserRegisteredEvent{UserID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
	if err := a.publisher.Publish(ctx, rabbit.RoutingUserRegistered, evt); err != nil {
		a.log.Warn().Err(err).Uint64("user_id", user.ID).Msg("failed to publish user.registered")
	}
	return user, nil
}

func (a *AuthService) checkAvailable(ctx context.Context, email, username string) error {
	users := a.store.Users()
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	existing, err = users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}
	return nil
}

func (a *AuthService) SignIn(ctx context.Context, email, password string) (token.Pair, error) {
	user, err := a.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return token.Pair{}, err
	}
	if user == nil {
		return token.Pair{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return token.Pair{}, ErrInvalidCredentials
	}
	return a.tokens.IssuePair(user.ID, string(user.Role))
}

// Refresh exchanges a refresh token for a new access token. The role is read
// from the database so that role changes take effect on refresh.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := a.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return a.tokens.IssueAccess(user.ID, string(user.Role))
}

func (a *AuthService) Authenticate(accessToken string) (*token.Claims, error) {
	claims, err := a.tokens.Verify(accessToken, token.TypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
