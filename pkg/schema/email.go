package schema

import (
	"regexp"
	"strings"
)

var (
	emailLocal  = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]$`)
	emailDomain = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)
)

// IsEmail applies the address rules used by the contact form: a local part
// of letters, digits and _'+-. that does not start or end with a dot, no
// consecutive dots, and a dotted domain ending in an alphabetic TLD.
func IsEmail(value string) bool {
	at := strings.LastIndexByte(value, '@')
	if at <= 0 || at == len(value)-1 {
		return false
	}
	local, domain := value[:at], value[at+1:]
	if strings.HasPrefix(local, ".") || strings.Contains(value, "..") {
		return false
	}
	return emailLocal.MatchString(local) && emailDomain.MatchString(domain)
}
