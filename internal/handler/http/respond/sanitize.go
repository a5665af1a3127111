package respond

import "regexp"

// redaction replaces every match of re with repl.
type redaction struct {
	re   *regexp.Regexp
	repl string
}

// 順序に意味がある: Bearer ヘッダは JWT 単体より先にマスクする
var redactions = []redaction{
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/-]+=*`), "${1}****"},
	{regexp.MustCompile(`(sportsdesk_token=)[^;\s"]+`), "${1}****"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "****.jwt"},
	{regexp.MustCompile(`(hooks\.slack\.com/services/)[A-Za-z0-9/]+`), "${1}****"},
	{regexp.MustCompile(`(discord(?:app)?\.com/api/webhooks/\d+/)[A-Za-z0-9_-]+`), "${1}****"},
	{regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`), "://${1}:****@"},
	{regexp.MustCompile(`(?i)(password=)[^&\s]+`), "${1}****"},
}

// SanitizeError returns err's message with credentials masked: tokens,
// session cookies, webhook secrets and DSN passwords.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, r := range redactions {
		msg = r.re.ReplaceAllString(msg, r.repl)
	}
	return msg
}
