package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/streaklog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserExists 用户名已被占用
	ErrUserExists = errors.New("username already taken")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotApproved 账号尚未通过审批
	ErrNotApproved = errors.New("account pending approval")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRegistration 注册信息不完整
	ErrInvalidRegistration = errors.New("invalid registration")
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// UserService 负责注册、登录校验与管理员审批
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, now: time.Now}
}

// Register 创建待审批账号
func (s *UserService) Register(ctx context.Context, username, password string) (*db.User, error) {
	name := strings.TrimSpace(username)
	if utf8.RuneCountInString(name) < minUsernameLength {
		return nil, fmt.Errorf("%w: username must have at least %d characters", ErrInvalidRegistration, minUsernameLength)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidRegistration, minPasswordLength)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("username = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Username: name, Password: string(hashed)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate 校验密码，未审批账号返回 ErrNotApproved
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	var user db.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Approved {
		return nil, ErrNotApproved
	}
	return &user, nil
}

// Get 按 ID 读取用户
func (s *UserService) Get(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListPending 返回待审批的注册，按注册时间排序
func (s *UserService) ListPending(ctx context.Context) ([]db.User, error) {
	var users []db.User
	if err := s.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at ASC, id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	return users, nil
}

// Approve 审批通过，已审批账号保持原审批时间
func (s *UserService) Approve(ctx context.Context, id uint) (*db.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, user)
}

// ApproveByUsername 供命令行使用
func (s *UserService) ApproveByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.approve(ctx, &user)
}

func (s *UserService) approve(ctx context.Context, user *db.User) (*db.User, error) {
	if user.Approved {
		return user, nil
	}
	now := s.now()
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"approved":    true,
		"approved_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("approve user: %w", err)
	}
	user.Approved = true
	user.ApprovedAt = &now
	return user, nil
}

// Reject 删除一条待审批注册，释放用户名；已审批账号不能通过此接口删除
func (s *UserService) Reject(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Approved {
		return ErrUserNotFound
	}
	if err := s.db.WithContext(ctx).Unscoped().Delete(user).Error; err != nil {
		return fmt.Errorf("reject user: %w", err)
	}
	return nil
}
