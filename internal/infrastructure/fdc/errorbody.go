package fdc

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryRunes = 240

// summarizeBody renders an error body as one line of text. The api.data.gov
// gateway answers with JSON, HTML or plain text depending on the failure.
func summarizeBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var text string
	switch {
	case isHTML(contentType, trimmed):
		text = htmlText(trimmed)
	case trimmed[0] == '{':
		text = jsonMessage(trimmed)
	}
	if text == "" {
		text = string(trimmed)
	}

	return truncate(strings.Join(strings.Fields(text), " "), maxSummaryRunes)
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	return body[0] == '<'
}

func htmlText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style, head").Remove()

	var parts []string
	collectText(doc.Find("body"), &parts)
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(parts, " ")
}

// collectText gathers text nodes in document order so adjacent block
// elements do not run together.
func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			if text := strings.TrimSpace(child.Text()); text != "" {
				*parts = append(*parts, text)
			}
			return
		}
		collectText(child, parts)
	})
}

// jsonMessage understands {"error":{"code","message"}} and {"message"} shapes.
func jsonMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			if nested.Code != "" {
				return nested.Code + ": " + nested.Message
			}
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(payload.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	return payload.Message
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
