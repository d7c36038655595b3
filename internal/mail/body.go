package mail

import (
	"bytes"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
)

const verificationSubject = "Email Verification Code - ReliefHub"
const resendSubject = "New Verification Code - ReliefHub"

// VerificationMessage composes the challenge mail for a freshly issued
// code. Bodies are written as markdown and rendered to HTML here so the
// copy stays in one place.
func VerificationMessage(to, fullName, code string, ttl time.Duration, resend bool) (Message, error) {
	subject := verificationSubject
	lead := "Thank you for registering with ReliefHub!"
	if resend {
		subject = resendSubject
		lead = "Thank you for using ReliefHub!"
	}
	md := fmt.Sprintf(
		"Hello %s,\n\nYour verification code is: **%s**\n\nThis code will expire in %d minutes.\n\n%s\n",
		fullName, code, int(ttl.Minutes()), lead,
	)
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTMLBody: buf.String()}, nil
}
