package respond

import "regexp"

var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	geminiKeyPattern    = regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`)
	// user:password@ and :password@ in DSNs (postgres, redis)
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@]*):([^@/]+)@`)
)

// SanitizeError masks API keys and DSN passwords in err's message.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = geminiKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
