package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/auth"
	"github.com/authorshaven/haven-api/pkg/geoip"
	"github.com/authorshaven/haven-api/pkg/mail"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	userService     *UserService
	userServiceOnce sync.Once
)

// UserService 用户服务
type UserService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	outbox *mail.Outbox
}

// NewUserService 创建用户服务实例
func NewUserService() *UserService {
	userServiceOnce.Do(func() {
		userService = &UserService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return userService
}

// SetOutbox 绑定邮件发件队列，验证与重置邮件经此发送
func (s *UserService) SetOutbox(outbox *mail.Outbox) {
	s.outbox = outbox
}

// Register 注册用户
// 用户与资料在同一事务内创建，资料的通知偏好默认全开
func (s *UserService) Register(req *dto.RegisterRequest) (*model.User, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		Role:        "user",
		Status:      1,
		VerifyToken: uuid.NewString(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		profile := &model.Profile{
			UserID:     user.ID,
			AppPrefs:   model.DefaultChannelPrefs(),
			EmailPrefs: model.DefaultChannelPrefs(),
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}

	s.sendVerificationMail(user)
	return user, nil
}

// Login 登录
// 校验密码并记录最近登录信息（含IP归属地），返回令牌对
func (s *UserService) Login(req *dto.LoginRequest, loginIP string) (*model.User, *auth.TokenPair, error) {
	var user model.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, nil, ErrUserDisabled
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": loginIP,
	}
	if region := geoip.Region(loginIP); region != "" {
		updates["last_login_region"] = region
		user.LastLoginRegion = region
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		s.logger.Warnf("更新最近登录信息失败: %v", err)
	}
	user.LastLoginAt = &now

	pair, err := auth.GenerateTokenPair(user.ID, user.Role, req.Remember)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Verify 通过邮件令牌激活邮箱
func (s *UserService) Verify(token string) (*model.User, error) {
	if token == "" {
		return nil, ErrVerifyTokenInvalid
	}

	var user model.User
	err := s.db.Where("verify_token = ? AND is_verified = ?", token, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerifyTokenInvalid
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.IsVerified = true
	return &user, nil
}

// RequestPasswordReset 发起密码重置
// 邮箱未注册时静默成功，避免账号枚举
func (s *UserService) RequestPasswordReset(email string) error {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Infof("忽略未注册邮箱的重置请求: %s", email)
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expire := time.Now().Add(24 * time.Hour)
	updates := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expire": expire,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	s.enqueueMail(user.Email, "重置密码",
		fmt.Sprintf("请访问以下链接重置密码：%s/reset-password?token=%s（24小时内有效）", s.baseURL(), token))
	return nil
}

// ResetPassword 使用重置令牌设置新密码
func (s *UserService) ResetPassword(token, password string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	var user model.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpire == nil || user.ResetTokenExpire.Before(time.Now()) {
		return ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":           string(hash),
		"reset_token":        "",
		"reset_token_expire": nil,
	}).Error
}

// Get 获取用户及资料
func (s *UserService) Get(userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("Profile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新当前用户账号信息
func (s *UserService) Update(userID uint, req *dto.UserUpdateRequest) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		var count int64
		if err := s.db.Model(&model.User{}).Where("username = ?", *req.Username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		var count int64
		if err := s.db.Model(&model.User{}).Where("email = ?", *req.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		// 换绑邮箱需要重新验证
		user.Email = *req.Email
		user.IsVerified = false
		user.VerifyToken = uuid.NewString()
		defer s.sendVerificationMail(user)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// CreateAdmin 创建管理员账号（命令行引导使用）
func (s *UserService) CreateAdmin(username, email, password string) (*model.User, error) {
	user, err := s.Register(&dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"role":        "admin",
		"is_verified": true,
	}).Error; err != nil {
		return nil, err
	}
	user.Role = "admin"
	user.IsVerified = true
	return user, nil
}

// BuildResponse 生成用户响应DTO
func (s *UserService) BuildResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		IsVerified:      user.IsVerified,
		LastLoginRegion: user.LastLoginRegion,
		CreatedAt:       formatTime(user.CreatedAt),
	}
	if user.LastLoginAt != nil {
		resp.LastLoginAt = formatTime(*user.LastLoginAt)
	}
	return resp
}

func (s *UserService) sendVerificationMail(user *model.User) {
	s.enqueueMail(user.Email, "验证你的邮箱",
		fmt.Sprintf("欢迎加入 Author's Haven！请访问以下链接完成邮箱验证：%s/api/users/verify/%s", s.baseURL(), user.VerifyToken))
}

func (s *UserService) enqueueMail(to, subject, body string) {
	if s.outbox == nil {
		return
	}
	s.outbox.Enqueue(mail.Message{To: []string{to}, Subject: subject, Body: body})
}

func (s *UserService) baseURL() string {
	if config.GlobalConfig != nil && config.GlobalConfig.App.BaseURL != "" {
		return config.GlobalConfig.App.BaseURL
	}
	return "http://localhost:8080"
}
