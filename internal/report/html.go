package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"swr/internal/runkey"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderHTML turns the markdown summary into a styled standalone HTML email
// body.
func renderHTML(summary, notebookURL string, key runkey.Key) (string, error) {
	var content bytes.Buffer
	if err := markdown.Convert([]byte(summary), &content); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return fmt.Sprintf(htmlTemplate, key.DisplayRange(), content.String(), notebookURL), nil
}

// htmlTemplate wraps the rendered report body. Placeholders: date range,
// content HTML, notebook URL.
const htmlTemplate = `<!DOCTYPE html>
<html lang="zh-TW">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Helvetica Neue",
                 Arial, "PingFang TC", "Microsoft JhengHei", sans-serif;
    background: #f4f6f9;
    margin: 0; padding: 0;
    color: #1a1a2e;
  }
  .wrapper {
    max-width: 720px;
    margin: 32px auto;
    background: #ffffff;
    border-radius: 12px;
    overflow: hidden;
    box-shadow: 0 4px 24px rgba(0,0,0,0.08);
  }
  .header {
    background: linear-gradient(135deg, #1a1a2e 0%%, #16213e 60%%, #0f3460 100%%);
    color: #ffffff;
    padding: 36px 40px 28px;
  }
  .header h1 {
    margin: 0 0 6px;
    font-size: 24px;
    font-weight: 700;
    letter-spacing: 0.5px;
  }
  .header .date {
    font-size: 14px;
    opacity: 0.7;
    margin: 0;
  }
  .content {
    padding: 36px 40px;
    line-height: 1.8;
    font-size: 15px;
  }
  .content h2, .content h3 {
    font-size: 17px;
    font-weight: 700;
    color: #0f3460;
    border-left: 4px solid #e94560;
    padding-left: 12px;
    margin: 28px 0 14px;
  }
  .content ul {
    padding-left: 20px;
    margin: 8px 0 16px;
  }
  .content li {
    margin-bottom: 8px;
  }
  .content strong {
    color: #0f3460;
  }
  .content hr {
    border: none;
    border-top: 1px solid #e8ecf0;
    margin: 28px 0;
  }
  .content table {
    width: 100%%;
    border-collapse: collapse;
    margin: 16px 0 24px;
    font-size: 14px;
  }
  .content th {
    background: #0f3460;
    color: #ffffff;
    padding: 10px 14px;
    text-align: left;
    font-weight: 600;
  }
  .content td {
    padding: 10px 14px;
    border-bottom: 1px solid #e8ecf0;
    vertical-align: top;
  }
  .content tr:nth-child(even) td {
    background: #f8f9fc;
  }
  .cta {
    margin: 32px 0 8px;
    text-align: center;
  }
  .cta a {
    display: inline-block;
    background: #e94560;
    color: #ffffff;
    text-decoration: none;
    padding: 13px 32px;
    border-radius: 8px;
    font-weight: 600;
    font-size: 15px;
    letter-spacing: 0.3px;
  }
  .footer {
    background: #f4f6f9;
    text-align: center;
    padding: 20px 40px;
    font-size: 12px;
    color: #999;
    border-top: 1px solid #e8ecf0;
  }
</style>
</head>
<body>
  <div class="wrapper">
    <div class="header">
      <h1>📈 股市週報</h1>
      <p class="date">%s</p>
    </div>
    <div class="content">
      %s
      <div class="cta">
        <a href="%s">開啟 NotebookLM 筆記本 →</a>
      </div>
    </div>
    <div class="footer">
      本郵件由 swr 自動生成
    </div>
  </div>
</body>
</html>`
