package controller

import (
	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/middleware"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/auth"
	"github.com/authorshaven/haven-api/pkg/captcha"
	"github.com/authorshaven/haven-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserApi 用户API控制器
type UserApi struct {
	logger      *zap.SugaredLogger
	userService *service.UserService
}

// NewUserApi 创建用户API控制器
func NewUserApi() *UserApi {
	return &UserApi{
		logger:      logger.GetSugaredLogger(),
		userService: service.NewUserService(),
	}
}

// Register 注册
func (api *UserApi) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	user, err := api.userService.Register(&req)
	if err != nil {
		handleServiceError(c, err, "注册失败")
		return
	}

	api.logger.Infof("用户注册成功: %s", user.Username)
	response.Created(c, "注册成功，请查收验证邮件", gin.H{
		"user": api.userService.BuildResponse(user),
	})
}

// Login 登录
func (api *UserApi) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	// 开启验证码时先校验
	if config.GlobalConfig.Captcha.Enabled {
		if !captcha.Verify(req.CaptchaID, req.CaptchaCode) {
			handleServiceError(c, service.ErrInvalidCaptcha, "登录失败")
			return
		}
	}

	user, pair, err := api.userService.Login(&req, c.ClientIP())
	if err != nil {
		handleServiceError(c, err, "登录失败")
		return
	}

	response.Success(c, "登录成功", gin.H{
		"user":          api.userService.BuildResponse(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// Verify 邮箱验证
func (api *UserApi) Verify(c *gin.Context) {
	user, err := api.userService.Verify(c.Param("token"))
	if err != nil {
		handleServiceError(c, err, "验证失败")
		return
	}

	response.Success(c, "邮箱验证成功", gin.H{
		"user": api.userService.BuildResponse(user),
	})
}

// RequestPasswordReset 发起密码重置
func (api *UserApi) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	if err := api.userService.RequestPasswordReset(req.Email); err != nil {
		handleServiceError(c, err, "发起密码重置失败")
		return
	}

	response.Success(c, "如果邮箱已注册，重置邮件将发送至该邮箱", nil)
}

// ConfirmPasswordReset 确认密码重置
func (api *UserApi) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	if err := api.userService.ResetPassword(req.Token, req.Password); err != nil {
		handleServiceError(c, err, "密码重置失败")
		return
	}

	response.Success(c, "密码重置成功，请重新登录", nil)
}

// RefreshToken 刷新访问令牌
func (api *UserApi) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	// RefreshAuth中间件已校验格式
	pair, err := auth.RefreshAccessToken(authHeader[len("Bearer "):])
	if err != nil {
		response.Unauthorized(c, "刷新令牌失败", err)
		return
	}

	response.Success(c, "刷新成功", gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// Logout 登出，撤销当前刷新令牌
func (api *UserApi) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if err := auth.RevokeToken(authHeader[len("Bearer "):]); err != nil {
		api.logger.Warnf("撤销令牌失败: %v", err)
	}

	if tokenID, exists := middleware.GetTokenID(c); exists {
		api.logger.Infof("用户登出，令牌已撤销: %s", tokenID)
	}
	response.Success(c, "登出成功", nil)
}

// Captcha 获取登录验证码
func (api *UserApi) Captcha(c *gin.Context) {
	id, b64, err := captcha.Generate(config.GlobalConfig.Captcha.Length)
	if err != nil {
		response.InternalServerError(c, "生成验证码失败", err)
		return
	}

	response.Success(c, "获取成功", gin.H{
		"captcha_id":    id,
		"captcha_image": b64,
	})
}

// GetCurrent 获取当前用户
func (api *UserApi) GetCurrent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	user, err := api.userService.Get(userID)
	if err != nil {
		handleServiceError(c, err, "获取用户信息失败")
		return
	}

	response.Success(c, "获取成功", gin.H{
		"user": api.userService.BuildResponse(user),
	})
}

// UpdateCurrent 更新当前用户
func (api *UserApi) UpdateCurrent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	user, err := api.userService.Update(userID, &req)
	if err != nil {
		handleServiceError(c, err, "更新用户信息失败")
		return
	}

	response.Success(c, "更新成功", gin.H{
		"user": api.userService.BuildResponse(user),
	})
}
