package client

import "encoding/json"

// maxPreview is the longest body preview written to the request log
const maxPreview = 500

func previewValue(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[unserializable]"
	}
	return truncate(string(b))
}

func previewBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return truncate(string(b))
}

func truncate(s string) string {
	if len(s) <= maxPreview {
		return s
	}
	return s[:maxPreview] + "…"
}
