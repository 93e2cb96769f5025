package scylla

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// UserStore maintient users plus deux tables de correspondance
// (users_by_email, users_by_phone) pour les lookups de connexion et d'OTP.
type UserStore struct {
	conns *database.Connections
}

func NewUserStore(conns *database.Connections) *UserStore {
	return &UserStore{conns: conns}
}

var _ store.Users = (*UserStore)(nil)

const userColumns = `user_id, name, email, password_hash, phone, street, apartment,
	city, postal_code, country, is_admin, is_verified, verification_otp,
	verification_otp_expires, reset_password_otp, reset_password_otp_expires,
	wishlist, created_at`

func (s *UserStore) scanUser(q *gocql.Query) (*models.User, error) {
	var (
		u            models.User
		wishlistJSON string
	)
	err := q.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Street, &u.Apartment,
		&u.City, &u.PostalCode, &u.Country, &u.IsAdmin, &u.IsVerified, &u.VerificationOtp,
		&u.VerificationOtpExpires, &u.ResetPasswordOtp, &u.ResetPasswordOtpExpires,
		&wishlistJSON, &u.CreatedAt,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if wishlistJSON != "" {
		if err := json.Unmarshal([]byte(wishlistJSON), &u.Wishlist); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	session, err := s.conns.UsersSession()
	if err != nil {
		return nil, err
	}
	return s.scanUser(session.Query(
		"SELECT "+userColumns+" FROM users WHERE user_id = ?", id,
	).WithContext(ctx))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := s.conns.UsersSession()
	if err != nil {
		return nil, err
	}

	var userID string
	err = session.Query(
		"SELECT user_id FROM users_by_email WHERE email = ?", email,
	).WithContext(ctx).Scan(&userID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	session, err := s.conns.UsersSession()
	if err != nil {
		return nil, err
	}

	var userID string
	err = session.Query(
		"SELECT user_id FROM users_by_phone WHERE phone = ?", phone,
	).WithContext(ctx).Scan(&userID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func (s *UserStore) InsertUser(ctx context.Context, u *models.User) error {
	session, err := s.conns.UsersSession()
	if err != nil {
		return err
	}

	wishlistJSON, err := json.Marshal(u.Wishlist)
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Street, u.Apartment,
		u.City, u.PostalCode, u.Country, u.IsAdmin, u.IsVerified, u.VerificationOtp,
		u.VerificationOtpExpires, u.ResetPasswordOtp, u.ResetPasswordOtpExpires,
		string(wishlistJSON), u.CreatedAt,
	)
	batch.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)", u.Email, u.ID)
	batch.Query("INSERT INTO users_by_phone (phone, user_id) VALUES (?, ?)", u.Phone, u.ID)
	return session.ExecuteBatch(batch)
}

func (s *UserStore) UpdateUser(ctx context.Context, u *models.User) error {
	// Relire l'existant pour resynchroniser les tables de correspondance
	// si l'email ou le téléphone a changé
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}

	session, err := s.conns.UsersSession()
	if err != nil {
		return err
	}

	wishlistJSON, err := json.Marshal(u.Wishlist)
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`
		UPDATE users SET name = ?, email = ?, password_hash = ?, phone = ?, street = ?,
			apartment = ?, city = ?, postal_code = ?, country = ?, is_admin = ?,
			is_verified = ?, verification_otp = ?, verification_otp_expires = ?,
			reset_password_otp = ?, reset_password_otp_expires = ?, wishlist = ?
		WHERE user_id = ?
	`,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Street,
		u.Apartment, u.City, u.PostalCode, u.Country, u.IsAdmin,
		u.IsVerified, u.VerificationOtp, u.VerificationOtpExpires,
		u.ResetPasswordOtp, u.ResetPasswordOtpExpires, string(wishlistJSON),
		u.ID,
	)
	if existing.Email != u.Email {
		batch.Query("DELETE FROM users_by_email WHERE email = ?", existing.Email)
		batch.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)", u.Email, u.ID)
	}
	if existing.Phone != u.Phone {
		batch.Query("DELETE FROM users_by_phone WHERE phone = ?", existing.Phone)
		batch.Query("INSERT INTO users_by_phone (phone, user_id) VALUES (?, ?)", u.Phone, u.ID)
	}
	return session.ExecuteBatch(batch)
}
