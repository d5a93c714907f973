package utils

import "strings"

// MaskEmail hides most of the local part so addresses can go in logs.
// "1234567890123@ofppt-edu.ma" becomes "12***@ofppt-edu.ma".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}
