package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("caseline-dummy"), bcrypt.DefaultCost)
	})
	return dummy
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Programs  []string // slugs
	Roles     []string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	Me(ctx context.Context) (*types.User, error)

	// ProgramForActor returns the program only when the actor belongs to it.
	ProgramForActor(ctx context.Context, programID uuid.UUID) (*types.Program, error)
	ActorHasAnyRole(ctx context.Context, roles []string) (bool, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	writer       *aggregates.Writer
	users        repos.UserRepo
	programs     repos.ProgramRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	writer *aggregates.Writer,
	users repos.UserRepo,
	programs repos.ProgramRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		writer:       writer,
		users:        users,
		programs:     programs,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fields := map[string][]string{}
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = []string{"The email must be a valid email address."}
	}
	if len(in.Password) < 8 {
		fields["password"] = []string{"The password must be at least 8 characters."}
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	err = as.writer.Write(ctx, "user.register", func(dbc dbctx.Context) error {
		if _, err := as.users.Create(dbc, []*types.User{user}); err != nil {
			return err
		}
		for _, slug := range in.Programs {
			prog, err := as.programs.GetBySlug(dbc, strings.TrimSpace(slug))
			if err != nil {
				return err
			}
			if prog == nil {
				return fmt.Errorf("unknown program %q: %w", slug, gorm.ErrRecordNotFound)
			}
			if err := as.programs.AddMembers(dbc, prog.ID, []uuid.UUID{user.ID}); err != nil {
				return err
			}
		}
		return as.users.GrantRoles(dbc, user.ID, in.Roles)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	user, err := as.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		// Unknown emails still pay for one compare.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return tok, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tokenString, UserID: userID}), nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	actorID := ctxutil.ActorID(ctx)
	if actorID == uuid.Nil {
		return nil, apierr.Unauthorized()
	}
	dbc := dbctx.Context{Ctx: ctx}
	user, err := as.users.GetByID(dbc, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.Unauthorized()
	}
	user.Programs, err = as.programs.ListForMember(dbc, actorID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (as *authService) ProgramForActor(ctx context.Context, programID uuid.UUID) (*types.Program, error) {
	return as.programs.GetForMember(dbctx.Context{Ctx: ctx}, ctxutil.ActorID(ctx), programID)
}

func (as *authService) ActorHasAnyRole(ctx context.Context, roles []string) (bool, error) {
	return as.users.HasAnyRole(dbctx.Context{Ctx: ctx}, ctxutil.ActorID(ctx), roles)
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
