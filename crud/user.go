package crud

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialFeed/domain"
	"socialFeed/errs"
)

// UserService manages Users. It is the credential store of the auth system:
// it hashes and verifies passwords, while token handling lives in the auth package.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper     string
	bcryptCost int
	emailRegex *regexp.Regexp
	// dummyHash is compared against when a username does not exist, so that
	// an unknown username costs the same bcrypt verification as a wrong password.
	dummyHash []byte
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	guard *guard
}

// NewUserService returns an instance of UserService.
func NewUserService(g *guard, pepper string, bcryptCost int) (*UserService, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy := make([]byte, 32)
	if _, err := rand.Read(dummy); err != nil {
		return nil, err
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(base64.URLEncoding.EncodeToString(dummy)), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &UserService{
		userValidator{
			pepper:     pepper,
			bcryptCost: bcryptCost,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			dummyHash:  dummyHash,
			userGorm: userGorm{
				guard: g,
			},
		},
	}, nil
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Authenticate checks a submitted username and password. An unknown username and a
// wrong password produce the very same error, and both cost one bcrypt comparison.
func (uv *userValidator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	found, err := uv.userGorm.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errs.ErrorCode(err) != errs.ENOTFOUND {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(uv.dummyHash, uv.peppered(password))
		return nil, errs.InvalidCredentials
	}

	// Pepper the submitted password and compare it to the stored hash.
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), uv.peppered(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.InvalidCredentials
		}
		return nil, err
	}
	return found, nil
}

// Create runs validations needed for creating new User database records.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailFormat,
		uv.passwordRequired,
		uv.passwordBcrypt,
		uv.passwordHashRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(ctx, user)
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(ctx context.Context, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn func(ctx context.Context, user *domain.User) error

// usernameNormalize trims the username's surrounding whitespace.
func (uv *userValidator) usernameNormalize(_ context.Context, user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	return nil
}

// usernameRequired makes sure that the username is not the empty string.
func (uv *userValidator) usernameRequired(_ context.Context, user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "A username is required.")
	}
	return nil
}

// usernameIsAvail makes sure that the username is not yet taken.
// The unique index still has the final word when two registrations race.
func (uv *userValidator) usernameIsAvail(ctx context.Context, user *domain.User) error {
	_, err := uv.userGorm.ByUsername(ctx, user.Username)
	if err == nil {
		return errs.UsernameTaken
	}
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return nil
	}
	return err
}

// emailNormalize converts the email to all lowercase and trims its whitespaces.
func (uv *userValidator) emailNormalize(_ context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	user.Email = strings.TrimSpace(user.Email)
	return nil
}

// emailFormat makes sure that a provided email address matches a predefined regex pattern.
// The email address is optional.
func (uv *userValidator) emailFormat(_ context.Context, user *domain.User) error {
	if user.Email == "" {
		return nil
	}
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "The email address is invalid.")
	}
	return nil
}

// passwordRequired makes sure that the user's password is not the empty string.
func (uv *userValidator) passwordRequired(_ context.Context, user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper.
// It then clears the password on the user object in memory.
func (uv *userValidator) passwordBcrypt(_ context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	hashedBytes, err := bcrypt.GenerateFromPassword(uv.peppered(user.Password), uv.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedBytes)
	user.Password = ""
	return nil
}

// peppered keys an HMAC-SHA256 of password with the pepper. bcrypt only reads
// 72 bytes, so it is fed the 64 hex characters of the digest instead of the raw
// password, whatever the password's length.
func (uv *userValidator) peppered(password string) []byte {
	mac := hmac.New(sha256.New, []byte(uv.pepper))
	mac.Write([]byte(password))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}

// passwordHashRequired makes sure that the user's password hash is not the empty string.
func (uv *userValidator) passwordHashRequired(_ context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// ByID retrieves a User database record by ID.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.First(&user, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// ByUsername retrieves a User database record by username.
func (ug *userGorm) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := ug.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Where("username = ?", username).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(ctx context.Context, user *domain.User) error {
	err := ug.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(user).Error
	})
	if isUniqueViolation(err) {
		return errs.UsernameTaken
	}
	return err
}
