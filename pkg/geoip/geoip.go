package geoip

import (
	"strings"
	"sync"

	"github.com/lionsoul2014/ip2region/binding/golang/xdb"
)

var (
	searcher *xdb.Searcher
	initOnce sync.Once
	initErr  error
	dbPath   string
)

// Init 加载ip2region离线库
// 库文件缺失时查询降级为空字符串，不影响主流程
func Init(path string) error {
	dbPath = path
	initOnce.Do(func() {
		if dbPath == "" {
			return
		}
		searcher, initErr = xdb.NewWithFileOnly(dbPath)
	})
	return initErr
}

// Region 查询IP归属地，格式化为"国家 省份 城市"
func Region(ip string) string {
	if searcher == nil || ip == "" {
		return ""
	}

	raw, err := searcher.SearchByStr(ip)
	if err != nil {
		return ""
	}

	// 原始格式: 国家|区域|省份|城市|ISP，0表示未知
	parts := strings.Split(raw, "|")
	fields := make([]string, 0, 3)
	for _, idx := range []int{0, 2, 3} {
		if idx < len(parts) && parts[idx] != "" && parts[idx] != "0" {
			fields = append(fields, parts[idx])
		}
	}
	return strings.Join(fields, " ")
}

// Close 释放查询器
func Close() {
	if searcher != nil {
		searcher.Close()
	}
}
