package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUserRole(userID uint, role string) error
	ListUsersByRoles(roles []string) ([]models.User, error)
	GetAllUsers() ([]models.User, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if user.Role == "" {
		user.Role = models.RoleResident
	}
	if err := a.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "checking email existence")
	}
	if count > 0 {
		return errors.New("email already registered")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUserRole(userID uint, role string) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return errors.Wrap(result.Error, "updating user role")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) ListUsersByRoles(roles []string) ([]models.User, error) {
	var users []models.User
	if err := a.DB.Where("role IN ?", roles).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "listing users by role")
	}
	return users, nil
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := a.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	return users, nil
}
