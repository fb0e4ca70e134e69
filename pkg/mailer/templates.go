package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const signature = `<p>Best Regards,<br>Mining Chatbot Team</p>`

var (
	otpTemplate = template.Must(template.New("otp").Parse(
		`<p>Hi <b>{{.CompanyName}}</b>,</p>
<p>Your OTP for email verification is: <strong>{{.Code}}</strong></p>
<p>This OTP will expire in {{.ExpiresIn}}.</p>
` + signature))

	resendOTPTemplate = template.Must(template.New("resend_otp").Parse(
		`<p>Your new OTP for email verification is: <strong>{{.Code}}</strong></p>
<p>This OTP will expire in {{.ExpiresIn}}.</p>
` + signature))

	linkTemplate = template.Must(template.New("link").Parse(
		`<p>Hi <b>{{.CompanyName}}</b>,</p>
<p>Please verify your email by opening the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
` + signature))
)

// OTPMessage is sent right after registration.
func OTPMessage(to, companyName, code string, ttl time.Duration) (Message, error) {
	html, err := render(otpTemplate, map[string]string{
		"CompanyName": companyName,
		"Code":        code,
		"ExpiresIn":   humanDuration(ttl),
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "OTP Verification - Mining Industry Chatbot",
		HTML:    html,
		Text:    fmt.Sprintf("Your OTP for email verification is: %s. It expires in %s.", code, humanDuration(ttl)),
	}, nil
}

func ResendOTPMessage(to, code string, ttl time.Duration) (Message, error) {
	html, err := render(resendOTPTemplate, map[string]string{
		"Code":      code,
		"ExpiresIn": humanDuration(ttl),
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "New OTP Verification - Mining Industry Chatbot",
		HTML:    html,
		Text:    fmt.Sprintf("Your new OTP for email verification is: %s. It expires in %s.", code, humanDuration(ttl)),
	}, nil
}

func VerificationLinkMessage(to, companyName, link string) (Message, error) {
	html, err := render(linkTemplate, map[string]string{
		"CompanyName": companyName,
		"Link":        link,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "Verify your email - Mining Industry Chatbot",
		HTML:    html,
		Text:    "Verify your email: " + link,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
