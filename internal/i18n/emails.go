package i18n

import (
	"html"
	"strconv"
	"strings"
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type emailStrings struct {
	WelcomeSubject string
	WelcomeText    string
	WelcomeHTML    string

	VerifySubject string
	VerifyText    string
	VerifyHTML    string

	ResetSubject string
	ResetText    string
	ResetHTML    string
}

var emailTranslations = map[string]emailStrings{
	"en": {
		WelcomeSubject: "Welcome to {app}",
		WelcomeText:    "Thank you for registering with {app}. Your account was created with the email {email}.",
		WelcomeHTML: "<p>Welcome to {app}!</p>" +
			"<p>Thank you for registering. Your account was created with the email <strong>{email}</strong>.</p>",

		VerifySubject: "Verify your email",
		VerifyText:    "Your verification OTP for {email} is {otp}. It is valid for {hours} hours.",
		VerifyHTML: "<p>Verify your email</p>" +
			"<p>You are just one step away from verifying your account for <strong>{email}</strong>.</p>" +
			"<p>Use the OTP below to verify your account.</p>" +
			"<p><strong>{otp}</strong></p>" +
			"<p>This OTP is valid for {hours} hours.</p>",

		ResetSubject: "Reset your password using this OTP",
		ResetText:    "We received a password reset request for {email}. Your reset OTP is {otp}. It is valid for {minutes} minutes.",
		ResetHTML: "<p>Forgot your password?</p>" +
			"<p>We received a password reset request for your account: <strong>{email}</strong>.</p>" +
			"<p>Use the OTP below to reset the password.</p>" +
			"<p><strong>{otp}</strong></p>" +
			"<p>The password reset OTP is only valid for the next {minutes} minutes.</p>",
	},
	"de": {
		WelcomeSubject: "Willkommen bei {app}",
		WelcomeText:    "Danke für deine Registrierung bei {app}. Dein Konto wurde mit der E-Mail-Adresse {email} erstellt.",
		WelcomeHTML: "<p>Willkommen bei {app}!</p>" +
			"<p>Danke für deine Registrierung. Dein Konto wurde mit der E-Mail-Adresse <strong>{email}</strong> erstellt.</p>",

		VerifySubject: "Bestätige deine E-Mail-Adresse",
		VerifyText:    "Dein Bestätigungscode für {email} lautet {otp}. Er ist {hours} Stunden gültig.",
		VerifyHTML: "<p>Bestätige deine E-Mail-Adresse</p>" +
			"<p>Nur noch ein Schritt, um dein Konto <strong>{email}</strong> zu bestätigen.</p>" +
			"<p>Verwende den folgenden Code.</p>" +
			"<p><strong>{otp}</strong></p>" +
			"<p>Der Code ist {hours} Stunden gültig.</p>",

		ResetSubject: "Setze dein Passwort mit diesem Code zurück",
		ResetText:    "Wir haben eine Anfrage zum Zurücksetzen des Passworts für {email} erhalten. Dein Code lautet {otp} und ist {minutes} Minuten gültig.",
		ResetHTML: "<p>Passwort vergessen?</p>" +
			"<p>Wir haben eine Anfrage zum Zurücksetzen des Passworts für <strong>{email}</strong> erhalten.</p>" +
			"<p>Verwende den folgenden Code.</p>" +
			"<p><strong>{otp}</strong></p>" +
			"<p>Der Code ist nur {minutes} Minuten gültig.</p>",
	},
}

func stringsFor(locale string) emailStrings {
	if s, ok := emailTranslations[locale]; ok {
		return s
	}
	return emailTranslations[DefaultLocale]
}

func WelcomeEmail(locale, appName, email string) EmailContent {
	s := stringsFor(locale)
	vars := map[string]string{"app": appName, "email": email}
	return EmailContent{
		Subject: render(s.WelcomeSubject, vars, false),
		Text:    render(s.WelcomeText, vars, false),
		HTML:    render(s.WelcomeHTML, vars, true),
	}
}

func VerifyOTPEmail(locale, email, otp string, hours int) EmailContent {
	s := stringsFor(locale)
	vars := map[string]string{"email": email, "otp": otp, "hours": strconv.Itoa(hours)}
	return EmailContent{
		Subject: render(s.VerifySubject, vars, false),
		Text:    render(s.VerifyText, vars, false),
		HTML:    render(s.VerifyHTML, vars, true),
	}
}

func ResetOTPEmail(locale, email, otp string, minutes int) EmailContent {
	s := stringsFor(locale)
	vars := map[string]string{"email": email, "otp": otp, "minutes": strconv.Itoa(minutes)}
	return EmailContent{
		Subject: render(s.ResetSubject, vars, false),
		Text:    render(s.ResetText, vars, false),
		HTML:    render(s.ResetHTML, vars, true),
	}
}

func render(tmpl string, vars map[string]string, escape bool) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		if escape {
			v = html.EscapeString(v)
		}
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
