package render

import "strings"

func maskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domainParts := strings.SplitN(parts[1], ".", 2)
	if len(domainParts) != 2 {
		return email
	}

	domain, tld := domainParts[0], domainParts[1]
	maskPart := func(s string) string {
		if len(s) <= 1 {
			return s
		} else if len(s) == 2 {
			return string(s[0]) + "*"
		}
		return string(s[0]) + strings.Repeat("*", len(s)-2) + string(s[len(s)-1])
	}
	return maskPart(user) + "@" + maskPart(domain) + "." + tld
}
