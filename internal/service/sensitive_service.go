package service

import (
	"sync"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/importcjj/sensitive"
)

var (
	sensitiveService     *SensitiveService
	sensitiveServiceOnce sync.Once
)

// SensitiveService 敏感词过滤服务
type SensitiveService struct {
	filter *sensitive.Filter
	loaded bool
}

// NewSensitiveService 创建敏感词过滤服务实例
func NewSensitiveService() *SensitiveService {
	sensitiveServiceOnce.Do(func() {
		s := &SensitiveService{filter: sensitive.New()}
		if config.GlobalConfig != nil && config.GlobalConfig.Sensitive.DictPath != "" {
			if err := s.filter.LoadWordDict(config.GlobalConfig.Sensitive.DictPath); err != nil {
				logger.Warnf("加载敏感词词典失败: %v", err)
			} else {
				s.loaded = true
			}
		}
		sensitiveService = s
	})
	return sensitiveService
}

// FilterSensitiveWords 将内容中的敏感词替换为*
func (s *SensitiveService) FilterSensitiveWords(content string) string {
	if !s.loaded {
		return content
	}
	return s.filter.Replace(content, '*')
}

// ContainsSensitiveWord 判断内容是否包含敏感词
func (s *SensitiveService) ContainsSensitiveWord(content string) bool {
	if !s.loaded {
		return false
	}
	ok, _ := s.filter.Validate(content)
	return !ok
}

// GetSensitiveWords 提取内容中的全部敏感词
func (s *SensitiveService) GetSensitiveWords(content string) []string {
	if !s.loaded {
		return nil
	}
	return s.filter.FindAll(content)
}
