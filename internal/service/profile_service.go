package service

import (
	"errors"
	"sync"

	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	profileService     *ProfileService
	profileServiceOnce sync.Once
)

// ProfileService 用户资料服务
type ProfileService struct {
	db       *gorm.DB
	logger   *zap.SugaredLogger
	notifier *NotificationService
}

// NewProfileService 创建资料服务实例
func NewProfileService() *ProfileService {
	profileServiceOnce.Do(func() {
		profileService = &ProfileService{
			db:       database.GetDB(),
			logger:   logger.GetSugaredLogger(),
			notifier: NewNotificationService(),
		}
	})
	return profileService
}

// buildProfileSummary 生成资料摘要响应
// currentUserID非nil时填充following标记
func buildProfileSummary(db *gorm.DB, profile *model.Profile, currentUserID *uint) dto.ProfileResponse {
	var followers, following int64
	db.Model(&model.ProfileFollow{}).Where("followed_id = ?", profile.ID).Count(&followers)
	db.Model(&model.ProfileFollow{}).Where("follower_id = ?", profile.ID).Count(&following)

	resp := dto.ProfileResponse{
		Username:       profile.User.Username,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		FullName:       profile.FullName(),
		Bio:            profile.Bio,
		City:           profile.City,
		Country:        profile.Country,
		Phone:          profile.Phone,
		Website:        profile.Website,
		Image:          profile.Image,
		FollowerCount:  followers,
		FollowingCount: following,
		CreatedAt:      formatTime(profile.CreatedAt),
	}

	if currentUserID != nil {
		var viewer model.Profile
		if err := db.Where("user_id = ?", *currentUserID).First(&viewer).Error; err == nil {
			var count int64
			if err := db.Model(&model.ProfileFollow{}).
				Where("follower_id = ? AND followed_id = ?", viewer.ID, profile.ID).
				Count(&count).Error; err == nil {
				resp.Following = count > 0
			}
		}
	}
	return resp
}

func buildPrefsResponse(p model.ChannelPrefs) dto.ChannelPrefsResponse {
	return dto.ChannelPrefsResponse{
		ArticlePublished: p.ArticlePublished,
		UserFollowed:     p.UserFollowed,
		ArticleCommented: p.ArticleCommented,
		CommentReplied:   p.CommentReplied,
		ArticleLiked:     p.ArticleLiked,
		ArticleFavorited: p.ArticleFavorited,
	}
}

// List 获取资料列表
func (s *ProfileService) List(req *dto.ProfileListRequest, currentUserID *uint) ([]dto.ProfileResponse, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	var total int64
	if err := s.db.Model(&model.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.Profile
	if err := s.db.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	list := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		list = append(list, buildProfileSummary(s.db, &profiles[i], currentUserID))
	}
	return list, total, nil
}

// GetByUsername 按用户名获取资料
func (s *ProfileService) GetByUsername(username string, currentUserID *uint) (dto.ProfileResponse, error) {
	profile, err := s.findByUsername(username)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	return buildProfileSummary(s.db, profile, currentUserID), nil
}

// GetDetail 获取本人资料，附带通知偏好
func (s *ProfileService) GetDetail(userID uint) (dto.ProfileDetailResponse, error) {
	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return dto.ProfileDetailResponse{}, err
	}
	return dto.ProfileDetailResponse{
		ProfileResponse: buildProfileSummary(s.db, profile, nil),
		AppPrefs:        buildPrefsResponse(profile.AppPrefs),
		EmailPrefs:      buildPrefsResponse(profile.EmailPrefs),
	}, nil
}

// Update 更新本人资料，nil字段保持原值
func (s *ProfileService) Update(userID uint, req *dto.ProfileUpdateRequest) (*model.Profile, error) {
	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.Image != nil {
		profile.Image = *req.Image
	}
	applyPrefsUpdate(&profile.AppPrefs, req.AppPrefs)
	applyPrefsUpdate(&profile.EmailPrefs, req.EmailPrefs)

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func applyPrefsUpdate(prefs *model.ChannelPrefs, update *dto.ChannelPrefsUpdate) {
	if update == nil {
		return
	}
	if update.ArticlePublished != nil {
		prefs.ArticlePublished = *update.ArticlePublished
	}
	if update.UserFollowed != nil {
		prefs.UserFollowed = *update.UserFollowed
	}
	if update.ArticleCommented != nil {
		prefs.ArticleCommented = *update.ArticleCommented
	}
	if update.CommentReplied != nil {
		prefs.CommentReplied = *update.CommentReplied
	}
	if update.ArticleLiked != nil {
		prefs.ArticleLiked = *update.ArticleLiked
	}
	if update.ArticleFavorited != nil {
		prefs.ArticleFavorited = *update.ArticleFavorited
	}
}

// Follow 关注用户
func (s *ProfileService) Follow(userID uint, username string) error {
	follower, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return err
	}
	followed, err := s.findByUsername(username)
	if err != nil {
		return err
	}

	if follower.ID == followed.ID {
		return ErrSelfFollow
	}

	var count int64
	if err := s.db.Model(&model.ProfileFollow{}).
		Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyFollowing
	}

	follow := &model.ProfileFollow{FollowerID: follower.ID, FollowedID: followed.ID}
	if err := s.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}

	if err := s.notifier.UserFollowed(userID, followed); err != nil {
		s.logger.Warnf("关注通知失败: %v", err)
	}
	return nil
}

// Unfollow 取消关注
func (s *ProfileService) Unfollow(userID uint, username string) error {
	follower, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return err
	}
	followed, err := s.findByUsername(username)
	if err != nil {
		return err
	}

	result := s.db.Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Delete(&model.ProfileFollow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (s *ProfileService) findByUsername(username string) (*model.Profile, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := s.db.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
