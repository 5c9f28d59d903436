package impl

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"talk/internal/domain/entity"
)

const (
	verificationSubject  = "Verify your Talk account"
	passwordResetSubject = "Reset your Talk password"
)

func greetingName(account *entity.Account) string {
	if name := strings.TrimSpace(account.FirstName); name != "" {
		return html.EscapeString(name)
	}

	return "there"
}

func verificationMessage(account *entity.Account, code string, ttl time.Duration) entity.MailMessage {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Talk verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		greetingName(account), code, int(ttl.Minutes()),
	)

	return entity.MailMessage{
		To:       account.Email,
		Subject:  verificationSubject,
		HTMLBody: body,
	}
}

// passwordResetLink points the client site at the reset form.
func passwordResetLink(clientSiteURL, token string) string {
	base := strings.TrimRight(clientSiteURL, "/")

	return base + "/?token=" + url.QueryEscape(token)
}

func passwordResetMessage(account *entity.Account, link string, ttl time.Duration) entity.MailMessage {
	escaped := html.EscapeString(link)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use the link below to choose a new password. It is valid for %d minutes.</p><p><a href=\"%s\">%s</a></p><p>If you did not ask for this, ignore this email.</p>",
		greetingName(account), int(ttl.Minutes()), escaped, escaped,
	)

	return entity.MailMessage{
		To:       account.Email,
		Subject:  passwordResetSubject,
		HTMLBody: body,
	}
}
