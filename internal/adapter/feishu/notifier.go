package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"

	"github.com/sirupsen/logrus"
)

// 卡片里最多列出的条目
const (
	maxCardStrengths = 3
	maxCardRedFlags  = 2
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *logrus.Logger
	retryDelay time.Duration
}

func NewNotifier(webhook string, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if webhook == "" {
		logger.Warn("⚠️ 警告: 飞书 Webhook 为空，推送功能将无法工作！")
	}
	return &Notifier{
		webhookURL: webhook,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		retryDelay: 500 * time.Millisecond,
	}
}

// headerTemplate 按总分选卡片颜色
func headerTemplate(total float64) string {
	switch {
	case total >= 70:
		return "green"
	case total >= 50:
		return "blue"
	default:
		return "orange"
	}
}

func cardMarkdown(report *domain.Report) string {
	summary := report.ScoreSummary
	var b strings.Builder

	fmt.Fprintf(&b, "**🏆 总分:** %.1f/%.0f  |  **结论:** %s\n", summary.TotalScore, summary.MaxScore, summary.RecruiterVerdict.Verdict)
	fmt.Fprintf(&b, "**⭐ Stars:** %d  |  **仓库:** %d  |  **主语言:** %s\n\n",
		report.TotalStars(), report.Repositories.TotalCount, report.Impact.Analysis.TopLanguage)

	b.WriteString("**📊 分项得分:**\n")
	for _, c := range domain.Categories {
		fmt.Fprintf(&b, "- %s: %.1f/20\n", c, summary.CategoryScores.Get(c))
	}

	if strengths := report.Evaluation.Strengths; len(strengths) > 0 {
		b.WriteString("\n**✅ 优势:**\n")
		for _, s := range strengths[:min(len(strengths), maxCardStrengths)] {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if flags := report.Evaluation.RedFlags; len(flags) > 0 {
		b.WriteString("\n**⚠️ 风险:**\n")
		for _, f := range flags[:min(len(flags), maxCardRedFlags)] {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}

// Notify 发送飞书卡片消息 (Schema 2.0)
func (n *Notifier) Notify(ctx context.Context, report *domain.Report) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	// 1. 准备标题
	title := fmt.Sprintf("📊 GitHub 作品集分析: %s", report.Profile.DisplayName())

	// 2. 构造 Schema 2.0 JSON 结构
	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": headerTemplate(report.ScoreSummary.TotalScore),
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   cardMarkdown(report),
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看主页",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": "https://github.com/" + report.Username,
							},
						},
					},
				},
			},
		},
	}

	// 3. 发送请求 (带重试机制，4xx 不重试)
	body, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "构造卡片失败", err)
	}
	err = common.Do(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if reqErr != nil {
			return common.WrapError(common.ErrCodeNotification, "构造请求失败", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, postErr := n.httpClient.Do(req)
		if postErr != nil {
			return common.Upstream(postErr)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return common.Upstream(fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return common.NewError(common.ErrCodeNotification, fmt.Sprintf("飞书 API 报错: 状态码 %d", resp.StatusCode))
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(n.retryDelay),
		common.WithRetryIf(common.IsRetryable),
	)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送请求失败", err)
	}

	n.logger.WithField("login", report.Username).Info("飞书通知已发送")
	return nil
}
