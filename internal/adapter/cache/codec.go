package cache

import (
	"encoding/json"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"
)

// EncodeReport 报告整份序列化成 JSON，内存和 SQL 缓存共用
func EncodeReport(report *domain.Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "序列化报告失败", err)
	}
	return data, nil
}

// DecodeReport 要么整份成功，要么返回 DATABASE_ERROR
func DecodeReport(payload []byte) (*domain.Report, error) {
	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "缓存内容损坏", err)
	}
	return &report, nil
}
